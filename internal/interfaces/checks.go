package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/mediashelf/internal/auth"
	"github.com/mrlokans/mediashelf/internal/catalog"
	"github.com/mrlokans/mediashelf/internal/database"
	"github.com/mrlokans/mediashelf/internal/database/content"
	"github.com/mrlokans/mediashelf/internal/database/interactions"
	"github.com/mrlokans/mediashelf/internal/database/library"
	"github.com/mrlokans/mediashelf/internal/database/users"
	"github.com/mrlokans/mediashelf/internal/enrichment"
	"github.com/mrlokans/mediashelf/internal/http"
	"github.com/mrlokans/mediashelf/internal/metrics"
	"github.com/mrlokans/mediashelf/internal/providers"
	"github.com/mrlokans/mediashelf/internal/scheduler"
	"github.com/mrlokans/mediashelf/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ enrichment.Store = (*content.Repository)(nil)
var _ http.ContentReader = (*content.Repository)(nil)
var _ http.InteractionStore = (*interactions.Repository)(nil)
var _ http.LibraryReader = (*library.Aggregator)(nil)
var _ http.CatalogWriter = (*catalog.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ auth.TokenLookup = (*users.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ providers.Provider = (*providers.TMDB)(nil)
var _ providers.Provider = (*providers.ITunes)(nil)
var _ providers.Provider = (*providers.GoogleBooks)(nil)
var _ providers.Provider = (*providers.OpenLibrary)(nil)

var _ enrichment.ProviderResolver = (*providers.Registry)(nil)
var _ http.ProviderResolver = (*providers.Registry)(nil)
var _ http.CircuitReporter = (*providers.Registry)(nil)

// =============================================================================
// Enrichment
// =============================================================================

var _ http.Enricher = (*enrichment.Orchestrator)(nil)
var _ http.BatchEnricher = (*enrichment.Orchestrator)(nil)
var _ tasks.BatchEnricher = (*enrichment.Orchestrator)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)
var _ tasks.OrphanCleaner = (*interactions.Repository)(nil)
var _ scheduler.OrphanCleaner = (*interactions.Repository)(nil)

// =============================================================================
// Metrics
// =============================================================================

var _ providers.Recorder = (*metrics.Collector)(nil)
var _ enrichment.Recorder = (*metrics.Collector)(nil)
var _ http.RequestRecorder = (*metrics.Collector)(nil)
