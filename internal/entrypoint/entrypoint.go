package entrypoint

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

	"github.com/mrlokans/mediashelf/internal/auth"
	"github.com/mrlokans/mediashelf/internal/config"
	http_controllers "github.com/mrlokans/mediashelf/internal/http"
	"github.com/mrlokans/mediashelf/internal/scheduler"
	"github.com/mrlokans/mediashelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work first so no task starts against a closing server.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

// Run wires the full server: app components, task queue, cleanup
// scheduler and HTTP router.
func Run(cfg *config.Config, log *zap.Logger, version string) error {
	log.Info("starting mediashelf", zap.String("version", version))

	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromSettings(cfg.Tasks), log)
		if err != nil {
			return fmt.Errorf("initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Error("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewEnrichContentQueue(app.Orchestrator, log),
			tasks.NewCleanupOrphansQueue(app.Interactions, log),
		)
		go taskClient.Start(ctx)
	}

	var cleanup *scheduler.CleanupScheduler
	if cfg.Cleanup.Enabled {
		var queue scheduler.Enqueuer
		if taskClient != nil {
			queue = taskClient
		}
		cleanup = scheduler.NewCleanupScheduler(cfg.Cleanup.Schedule, queue, app.Interactions, log)
		if err := cleanup.Start(ctx); err != nil {
			return fmt.Errorf("start cleanup scheduler: %w", err)
		}
	}

	if cfg.Auth.Mode == config.AuthModeToken {
		log.Info("authentication mode: token")
	} else {
		log.Warn("authentication disabled, all requests act as the default user")
	}

	gin.SetMode(gin.ReleaseMode)
	routerCfg := http_controllers.RouterConfig{
		Database:       app.DB,
		Enricher:       app.Orchestrator,
		Batch:          app.Orchestrator,
		Providers:      app.Providers,
		Content:        app.Content,
		Catalog:        app.Catalog,
		Ratings:        app.Interactions,
		Library:        app.Library,
		AuthMiddleware: auth.NewMiddleware(app.Users, cfg.Auth, log),
		Logger:         log,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}
	if app.Metrics != nil {
		routerCfg.Recorder = app.Metrics
		routerCfg.Gatherer = app.Registry
	}

	router := http_controllers.NewRouter(routerCfg)

	return Serve(router, cfg, log, func(ctx context.Context) {
		if cleanup != nil {
			cleanup.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	})
}
