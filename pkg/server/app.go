package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	drepo "RiskPulse/internal/domain/repository"
	"RiskPulse/internal/usecase"
	"RiskPulse/pkg/config"
	xhttp "RiskPulse/pkg/http"
	applogger "RiskPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle: the refresh loop, the
// HTTP API, and the downstream result sink.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	runner     *usecase.RefreshRunner
	handler    xhttp.Handler
	sink       drepo.ResultSink // nil for the file backend
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	runner *usecase.RefreshRunner,
	handler xhttp.Handler,
	sink drepo.ResultSink,
) *App {
	return &App{
		cfg:     cfg,
		logger:  logger,
		runner:  runner,
		handler: handler,
		sink:    sink,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	go func() {
		if err := a.runner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("refresh runner stopped", applogger.Error(err))
		}
	}()
	a.logger.Info("refresh runner started",
		applogger.Duration("interval", a.cfg.Refresh.Interval),
		applogger.Int("assets", len(a.cfg.Assets)))

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops the HTTP server and closes the result sink.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.logger.Warn("result sink close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
