package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GFQuant/internal/domain/repository"
	"GFQuant/internal/usecase"
	pkgch "GFQuant/pkg/clickhouse"
	"GFQuant/pkg/config"
	xhttp "GFQuant/pkg/http"
	applogger "GFQuant/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	l         *applogger.Logger
	scheduler *usecase.Scheduler
	collector *usecase.Collector
	store     repository.SignalStore
	pub       repository.Publisher
	chClient  *pkgch.Client
	handler   xhttp.Handler

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	scheduler *usecase.Scheduler,
	collector *usecase.Collector,
	store repository.SignalStore,
	pub repository.Publisher,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		scheduler: scheduler,
		collector: collector,
		store:     store,
		pub:       pub,
		chClient:  chClient,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure storage schema before anything writes
	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	err := a.store.Init(initCtx)
	initCancel()
	if err != nil {
		a.l.Error("storage init failed", applogger.Error(err))
		return err
	}

	// Start scheduler
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			a.l.Error("scheduler start failed", applogger.Error(err))
			return err
		}
	}

	// Start live collector when streaming is enabled
	if a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.l.Error("collector error", applogger.Error(err))
			}
		}()
		a.l.Info("collector started", applogger.Strings("symbols", a.cfg.MarketData.Symbols))
	}

	// Start HTTP server
	a.httpServer = xhttp.NewServer(a.handler, a.l,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.l.Warn("collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.l.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
