// Package main is the entry point of the kanban server. One binary serves
// the REST API and the realtime WebSocket gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/config"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/tracing"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info("Starting kanban server...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Tracing
	enabled, err := tracing.Init(ctx, cfg.Tracing.ServiceName)
	if err != nil {
		log.Warn("Failed to initialize tracing", zap.Error(err))
	} else if enabled {
		log.Info("OpenTelemetry tracing enabled")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	// 4. Event bus
	eventBus, busCleanup, err := provideEventBus(cfg, log)
	if err != nil {
		return err
	}
	defer runCleanup(log, "event bus", busCleanup)

	// 5. Storage
	repos, cleanups, err := provideRepositories(cfg, log)
	for _, cleanup := range cleanups {
		defer runCleanup(log, "database", cleanup)
	}
	if err != nil {
		return err
	}

	// 6. Services and gateway
	svcs := provideServices(cfg, repos, eventBus, log)
	gateway, err := provideGateway(ctx, svcs, eventBus, cfg.Server.CORSOrigins, log)
	if err != nil {
		return err
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(svcs, gateway, cfg.Server.APIPrefix(), log)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler(cfg.Server.CORSOrigins, router),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gateway.Hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}

func runCleanup(log *logger.Logger, name string, cleanup func() error) {
	if cleanup == nil {
		return
	}
	if err := cleanup(); err != nil {
		log.Warn("Cleanup failed", zap.String("resource", name), zap.Error(err))
	}
}
