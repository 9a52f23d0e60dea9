package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/tabkit/config"
	"github.com/kbukum/tabkit/logger"
	"github.com/kbukum/tabkit/observability"
	"github.com/kbukum/tabkit/recipe"
	"github.com/kbukum/tabkit/server"
	"github.com/kbukum/tabkit/server/endpoint"
	"github.com/kbukum/tabkit/storage"
	"github.com/kbukum/tabkit/version"
)

// App is an assembled tabkit application.
type App struct {
	Cfg     *config.Config
	Version string
	Logger  *logger.Logger
	Metrics *observability.Metrics
	Storage storage.Storage
	Runner  *recipe.Runner
	Server  *server.Server

	gracefulTimeout time.Duration
	serving         bool
	onStop          []Hook
}

// New creates the application from cfg. It applies defaults, validates the
// config and wires every component; nothing is listening yet.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Cfg:             cfg,
		Version:         cfg.Version,
		gracefulTimeout: 15 * time.Second,
	}
	if app.Version == "" {
		app.Version = version.Get().String()
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&cfg.Logging, cfg.Name)
		logger.SetGlobalLogger(app.Logger)
	}

	if err := app.initTelemetry(ctx); err != nil {
		return nil, err
	}
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return nil, fmt.Errorf("creating metrics: %w", err)
	}
	app.Metrics = metrics

	app.Storage = o.storage
	if app.Storage == nil {
		st, err := storage.New(ctx, cfg.Storage, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("creating storage: %w", err)
		}
		app.Storage = st
	}

	app.Runner = recipe.NewRunner(
		recipe.NewFileLoader(cfg.Recipes.Dirs...),
		app.Logger,
		recipe.WithStorage(app.Storage),
		recipe.WithMetrics(app.Metrics),
	)

	app.Server = server.New(cfg.Server, app.Logger, app.Metrics)
	endpoint.Register(app.Server.GinEngine(), endpoint.API{
		Service: cfg.Name,
		Version: app.Version,
		Runner:  app.Runner,
		Storage: app.Storage,
		Metrics: app.Metrics,
	})
	return app, nil
}

// initTelemetry installs the OTLP tracer and meter providers when enabled
// and registers their shutdown.
func (a *App) initTelemetry(ctx context.Context) error {
	obs := a.Cfg.Observability
	if !obs.Enabled {
		return nil
	}
	tp, err := observability.InitTracer(ctx, obs.TracerConfig(a.Cfg.Name, a.Version, a.Cfg.Environment), a.Logger)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	a.OnStop(tp.Shutdown)

	mp, err := observability.InitMeter(ctx, obs.MeterConfig(a.Cfg.Name, a.Version, a.Cfg.Environment), a.Logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("initializing meter: %w", err)
	}
	a.OnStop(mp.Shutdown)
	return nil
}

// Summary describes the assembled application.
func (a *App) Summary() Summary {
	s := Summary{
		Service:   a.Cfg.Name,
		Version:   a.Version,
		Env:       a.Cfg.Environment,
		Addr:      a.Server.Addr(),
		Storage:   storageName(a.Cfg.Storage),
		Telemetry: a.Cfg.Observability.Enabled,
	}
	if list, err := a.Runner.Recipes(); err == nil {
		s.Recipes = len(list)
	}
	return s
}

// Run starts the HTTP server, blocks until a shutdown signal or ctx is
// done, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.Server.Start(ctx); err != nil {
		return err
	}
	a.serving = true
	a.Logger.Info("Application ready", a.Summary().Fields())

	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask runs task with the application wiring instead of serving. The
// task context is canceled on SIGINT or SIGTERM. Shutdown hooks run
// afterwards either way.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context, app *App) error) error {
	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	taskErr := task(taskCtx, a)
	if err := a.stop(); err != nil {
		return errors.Join(taskErr, err)
	}
	return taskErr
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// stop shuts down the server, if serving, then runs the OnStop hooks, all
// within the graceful timeout.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if a.serving {
		if err := a.Server.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
		a.serving = false
	}
	if err := runHooks(ctx, a.onStop); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("shutdown", err))
		return err
	}
	a.Logger.Debug("Shutdown complete")
	return nil
}
