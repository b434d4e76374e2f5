package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/five82/cadre/internal/config"
	"github.com/five82/cadre/internal/docstore"
	"github.com/five82/cadre/internal/logging"
	"github.com/five82/cadre/internal/metrics"
	"github.com/five82/cadre/internal/pgstore"
	"github.com/five82/cadre/internal/prefs"
	"github.com/five82/cadre/internal/program"
	"github.com/five82/cadre/internal/ui"
)

// Options configure the cadre application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/cadre/prefs.toml
	Verbose    bool
}

// Env is the loaded runtime shared by the TUI and the CLI commands.
type Env struct {
	Config  config.Config
	Logger  *zap.Logger
	Gateway program.Gateway
	// Registry holds the gateway metrics.
	Registry *prometheus.Registry

	closeGateway func() error
}

// Close releases the gateway and flushes the logger.
func (e *Env) Close() error {
	var errs []error
	if e.closeGateway != nil {
		errs = append(errs, e.closeGateway())
	}
	if e.Logger != nil {
		_ = e.Logger.Sync()
	}
	return errors.Join(errs...)
}

// Setup loads configuration, builds the logger and connects the configured
// program gateway, wrapped with metrics.
func Setup(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.LogFile, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	gw, closer, err := NewGateway(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	env := &Env{
		Config:       cfg,
		Logger:       logger,
		Gateway:      metrics.Instrument(gw, metrics.New(reg)),
		Registry:     reg,
		closeGateway: closer,
	}
	logger.Info("gateway ready", zap.String("backend", cfg.Backend))
	return env, nil
}

// NewGateway connects the backend named by cfg. The returned func releases it.
func NewGateway(ctx context.Context, cfg config.Config, logger *zap.Logger) (program.Gateway, func() error, error) {
	switch cfg.Backend {
	case config.BackendDocstore:
		client, err := docstore.NewClient(docstore.Options{
			BaseURL:    cfg.DocstoreURL,
			Collection: cfg.Collection,
			APIKey:     cfg.APIKey,
			Timeout:    cfg.RequestTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init docstore client: %w", err)
		}
		return client, func() error { return nil }, nil
	case config.BackendPostgres:
		store, err := pgstore.Open(ctx, pgstore.Options{
			DSN:    cfg.DatabaseURL,
			Table:  cfg.Collection,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// Run boots the cadre TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	served := serveMetrics(runCtx, env)

	err = ui.Run(ui.Options{
		Context:        runCtx,
		Gateway:        env.Gateway,
		Config:         &env.Config,
		Logger:         env.Logger,
		RequestTimeout: env.Config.RequestTimeout,
		ThemeName:      userPrefs.Theme,
		Locale:         userPrefs.Locale,
		PrefsPath:      opts.PrefsPath,
	})
	cancel()
	<-served

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// serveMetrics starts the metrics endpoint when configured. The returned
// channel closes once the server has stopped.
func serveMetrics(ctx context.Context, env *Env) <-chan struct{} {
	done := make(chan struct{})
	addr := env.Config.MetricsAddr
	if addr == "" {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		env.Logger.Info("serving metrics", zap.String("addr", addr))
		if err := metrics.Serve(ctx, addr, env.Registry); err != nil {
			env.Logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	return done
}
