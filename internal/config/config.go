package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Backend names.
const (
	BackendDocstore = "docstore"
	BackendPostgres = "postgres"
)

// Config holds everything cadre needs to reach its program store.
type Config struct {
	Backend        string
	DocstoreURL    string
	Collection     string
	APIKey         string
	DatabaseURL    string
	RequestTimeout time.Duration
	LogFile        string
	MetricsAddr    string
}

const (
	defaultConfigPath     = "~/.config/cadre/config.toml"
	defaultLogFile        = "~/.local/state/cadre/cadre.log"
	defaultCollection     = "programs"
	defaultRequestTimeout = 10 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend:        BackendDocstore,
		Collection:     defaultCollection,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
	}
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies CADRE_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		var file fileConfig
		if err := toml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := file.apply(&cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendDocstore:
		if c.DocstoreURL == "" {
			return fmt.Errorf("docstore_url is required for the %s backend", BackendDocstore)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the %s backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}

type fileConfig struct {
	Backend        string `toml:"backend"`
	DocstoreURL    string `toml:"docstore_url"`
	Collection     string `toml:"collection"`
	APIKey         string `toml:"api_key"`
	DatabaseURL    string `toml:"database_url"`
	RequestTimeout string `toml:"request_timeout"`
	LogFile        string `toml:"log_file"`
	MetricsAddr    string `toml:"metrics_addr"`
}

func (f fileConfig) apply(cfg *Config) error {
	set := func(key, value string) error { return setValue(cfg, key, value) }
	pairs := []struct{ key, value string }{
		{"backend", f.Backend},
		{"docstore_url", f.DocstoreURL},
		{"collection", f.Collection},
		{"api_key", f.APIKey},
		{"database_url", f.DatabaseURL},
		{"request_timeout", f.RequestTimeout},
		{"log_file", f.LogFile},
		{"metrics_addr", f.MetricsAddr},
	}
	for _, p := range pairs {
		if err := set(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"CADRE_BACKEND":         "backend",
	"CADRE_DOCSTORE_URL":    "docstore_url",
	"CADRE_COLLECTION":      "collection",
	"CADRE_API_KEY":         "api_key",
	"CADRE_DATABASE_URL":    "database_url",
	"CADRE_REQUEST_TIMEOUT": "request_timeout",
	"CADRE_LOG_FILE":        "log_file",
	"CADRE_METRICS_ADDR":    "metrics_addr",
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for env, key := range envKeys {
		value, ok := lookup(env)
		if !ok {
			continue
		}
		if err := setValue(cfg, key, value); err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}
	return nil
}

// setValue assigns one key. Blank values keep the current setting.
func setValue(cfg *Config, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	switch key {
	case "backend":
		cfg.Backend = strings.ToLower(value)
	case "docstore_url":
		cfg.DocstoreURL = value
	case "collection":
		cfg.Collection = value
	case "api_key":
		cfg.APIKey = value
	case "database_url":
		cfg.DatabaseURL = value
	case "request_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	case "log_file":
		cfg.LogFile = mustExpand(value)
	case "metrics_addr":
		cfg.MetricsAddr = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return raw, nil
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
