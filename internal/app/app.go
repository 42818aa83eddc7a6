// Package app wires configuration, storage, the API client and the web
// console together and runs the HTTP server until a signal arrives.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/apiclient"
	"github.com/dmitrijs2005/adminconsole/internal/config"
	"github.com/dmitrijs2005/adminconsole/internal/console"
	"github.com/dmitrijs2005/adminconsole/internal/cryptox"
	"github.com/dmitrijs2005/adminconsole/internal/logging"
	"github.com/dmitrijs2005/adminconsole/internal/storage"
	"github.com/dmitrijs2005/adminconsole/internal/telemetry"
	"github.com/dmitrijs2005/adminconsole/internal/view"
)

// deps are shared by the web console and the terminal client.
type deps struct {
	logger logging.Logger
	repo   storage.Repository
	sealer *cryptox.Sealer
	api    *apiclient.Client
	format view.Formatter
}

func buildDeps(ctx context.Context, cfg *config.Config, logger logging.Logger) (*deps, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var sealer *cryptox.Sealer
	if cfg.StorageSecret != "" {
		sealer, err = storage.NewSealer(cfg.StorageSecret)
		if err != nil {
			return nil, fmt.Errorf("storage secret: %w", err)
		}
	}

	api, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("api client init error: %w", err)
	}

	repo, err := storage.Open(ctx, cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return &deps{
		logger: logger,
		repo:   repo,
		sealer: sealer,
		api:    api,
		format: view.NewFormatter(loc, cfg.DateLayout),
	}, nil
}

type App struct {
	config            *config.Config
	logger            logging.Logger
	repo              storage.Repository
	handler           http.Handler
	shutdownTelemetry telemetry.ShutdownFunc
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	c, err := console.New(console.Options{
		API:       d.api,
		Storage:   d.repo,
		Sealer:    d.sealer,
		Formatter: d.format,
		Logger:    logger,
		CSRFKey:   []byte(cfg.CSRFKey),
	})
	if err != nil {
		_ = d.repo.Close()
		return nil, err
	}

	shutdown := telemetry.Setup(ctx, telemetry.Settings{
		Endpoint: cfg.OTLPEndpoint,
		Insecure: cfg.OTLPInsecure,
	}, logger)

	return &App{
		config:            cfg,
		logger:            logger,
		repo:              d.repo,
		handler:           c.Handler(),
		shutdownTelemetry: shutdown,
	}, nil
}

// Handler is the console's root handler.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// drains in-flight requests for up to ShutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              app.config.ListenAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "Starting admin console", "address", app.config.ListenAddr, "api", app.config.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	app.logger.Info(ctx, "Stopping admin console...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	errs := []error{serveErr}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := app.shutdownTelemetry(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	if err := app.repo.Close(); err != nil {
		errs = append(errs, fmt.Errorf("storage close: %w", err))
	}

	err := errors.Join(errs...)
	if err != nil {
		app.logger.Error(ctx, "shutdown finished with errors", "error", err)
	}
	return err
}
