package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/mediashelf/internal/database/content"
	"github.com/mrlokans/mediashelf/internal/database/library"
	"github.com/mrlokans/mediashelf/internal/enrichment"
	"github.com/mrlokans/mediashelf/internal/entities"
	"github.com/mrlokans/mediashelf/internal/providers"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller takes only the slice it needs.

// Enricher searches providers and imports content from them.
type Enricher interface {
	Search(ctx context.Context, providerName, query string, opts providers.SearchOptions) ([]providers.CandidateSummary, error)
	EnrichByExternalID(ctx context.Context, providerName, externalID string) (*enrichment.Result, error)
}

// ProviderResolver validates provider names before work is queued.
type ProviderResolver interface {
	Resolve(name string) (providers.Provider, error)
}

// ContentReader provides read access to the catalog.
type ContentReader interface {
	FindByID(ctx context.Context, id uint) (*entities.Content, error)
	List(ctx context.Context, filter content.ListFilter) ([]entities.Content, int64, error)
	Search(ctx context.Context, text string, limit int) ([]content.SearchHit, error)
}

// CatalogWriter performs validated catalog mutations.
type CatalogWriter interface {
	CreateContent(ctx context.Context, c *entities.Content) (*entities.Content, error)
	UpdateContent(ctx context.Context, id uint, patch content.Patch) (*entities.Content, error)
	DeleteContent(ctx context.Context, id uint) error
}

// InteractionStore records ratings and favorites.
type InteractionStore interface {
	Rate(ctx context.Context, userID, contentID uint, rating float64) (*entities.Interaction, error)
	ToggleFavorite(ctx context.Context, userID, contentID uint) (bool, error)
}

// LibraryReader builds a user's rated library.
type LibraryReader interface {
	GetLibrary(ctx context.Context, q library.Query) (*library.Page, error)
}

// TaskQueue enqueues background work and reports its status.
type TaskQueue interface {
	Enqueue(task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// CircuitReporter exposes per-provider circuit breaker states.
type CircuitReporter interface {
	CircuitStates() map[string]string
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
