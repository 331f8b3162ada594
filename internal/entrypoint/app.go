package entrypoint

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/catalog"
	"github.com/mrlokans/mediashelf/internal/config"
	"github.com/mrlokans/mediashelf/internal/database"
	"github.com/mrlokans/mediashelf/internal/database/content"
	"github.com/mrlokans/mediashelf/internal/database/interactions"
	"github.com/mrlokans/mediashelf/internal/database/library"
	"github.com/mrlokans/mediashelf/internal/database/users"
	"github.com/mrlokans/mediashelf/internal/enrichment"
	"github.com/mrlokans/mediashelf/internal/metrics"
	"github.com/mrlokans/mediashelf/internal/providers"
)

// App holds the long-lived components shared by the server and the CLI.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB           *database.Database
	Providers    *providers.Registry
	Content      *content.Repository
	Interactions *interactions.Repository
	Users        *users.Repository
	Library      *library.Aggregator
	Catalog      *catalog.Service
	Orchestrator *enrichment.Orchestrator

	// Metrics is nil when METRICS_ENABLED is false.
	Metrics  *metrics.Collector
	Registry *prometheus.Registry
}

// NewApp opens the database and wires every component except the task
// queue and the scheduler, which only the server needs.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	app := &App{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		Content:      content.NewRepository(db.DB),
		Interactions: interactions.NewRepository(db.DB),
		Users:        users.NewRepository(db.DB),
		Library:      library.NewAggregator(db.DB),
	}

	base := providers.ClientConfig{Logger: log}
	if cfg.Metrics.Enabled {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		app.Metrics = metrics.NewCollector(app.Registry)
		base.Recorder = app.Metrics
	}

	app.Providers = providers.NewRegistryFromConfig(cfg.Providers, base)
	if cfg.Providers.TMDB.APIKey == "" {
		log.Warn("TMDB_API_KEY is not set, movie enrichment will fail upstream")
	}

	app.Orchestrator = enrichment.NewOrchestrator(app.Content, app.Providers, log)
	if app.Metrics != nil {
		app.Orchestrator.SetRecorder(app.Metrics)
	}
	app.Catalog = catalog.NewService(db.DB, app.Content, app.Interactions, log)

	return app, nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
