package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/auth"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database  Pinger
	Enricher  Enricher
	Batch     BatchEnricher
	Providers ProviderResolver
	Content   ContentReader
	Catalog   CatalogWriter
	Ratings   InteractionStore
	Library   LibraryReader

	// Task queue (optional)
	TaskQueue TaskQueue

	// Authentication (optional, defaults to the single default user)
	AuthMiddleware *auth.Middleware

	// Metrics (optional)
	Recorder RequestRecorder
	Gatherer prometheus.Gatherer

	Logger *zap.Logger

	// Application info
	Version string
}
