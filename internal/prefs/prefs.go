// Package prefs handles cadre user preferences persistence.
// Preferences are stored in ~/.config/cadre/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for cadre.
type Prefs struct {
	Theme string `toml:"theme"`
	// Locale is a BCP 47 tag used for dates, e.g. "de-DE".
	Locale string `toml:"locale"`
}

const (
	defaultPrefsPath = "~/.config/cadre/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultLocale    = "en"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Defaults returns the preferences used when no file exists. The locale
// follows the environment (LC_ALL, LC_TIME, LANG).
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Locale: SystemLocale()}
}

// SystemLocale converts the POSIX locale from the environment into a BCP 47
// tag: "de_DE.UTF-8" becomes "de-DE". C and POSIX map to "en".
func SystemLocale() string {
	for _, env := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		value := strings.TrimSpace(os.Getenv(env))
		if value == "" {
			continue
		}
		value, _, _ = strings.Cut(value, ".")
		value, _, _ = strings.Cut(value, "@")
		if value == "" || value == "C" || value == "POSIX" {
			return defaultLocale
		}
		return strings.ReplaceAll(value, "_", "-")
	}
	return defaultLocale
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	var stored Prefs
	if err := toml.Unmarshal(bytes, &stored); err != nil {
		return prefs, nil // Graceful degradation
	}

	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		prefs.Theme = theme
	}
	if locale := strings.TrimSpace(stored.Locale); locale != "" {
		prefs.Locale = locale
	}
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
