// Package providers adapts external media catalogs (TMDB, iTunes, Google
// Books, OpenLibrary) to the canonical content schema.
//
// Every variant converts upstream failures into apperr kinds at this
// boundary: callers only ever see ErrInvalidInput, ErrNotFound or
// ErrProviderUnavailable.
package providers

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/entities"
)

type Name string

const (
	NameTMDB        Name = "tmdb"
	NameITunes      Name = "itunes"
	NameGoogleBooks Name = "googleBooks"
	NameOpenLibrary Name = "openlibrary"
)

const (
	MinQueryLength     = 2
	DefaultSearchLimit = 20
	MaxSearchLimit     = 20
)

var (
	ErrInvalidQuery    = errors.New("query too short")
	ErrUnknownProvider = errors.New("unknown provider")
)

// CandidateSummary is a search hit. Summaries are never persisted.
type CandidateSummary struct {
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
}

type SearchOptions struct {
	Limit int
	Page  int
}

// Normalize clamps Limit to [1, MaxSearchLimit] and Page to >= 1.
func (o SearchOptions) Normalize() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.Limit > MaxSearchLimit {
		o.Limit = MaxSearchLimit
	}
	if o.Page < 1 {
		o.Page = 1
	}
	return o
}

// Provider is one external catalog bound to exactly one content type.
type Provider interface {
	Name() Name
	ContentType() entities.ContentType
	Search(ctx context.Context, query string, opts SearchOptions) ([]CandidateSummary, error)
	FetchDetail(ctx context.Context, externalID string) (*entities.Content, error)
}

func validateQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return "", apperr.Wrap(apperr.ErrInvalidInput, "query must be at least 2 characters", ErrInvalidQuery)
	}
	return query, nil
}

func validateExternalID(externalID string) (string, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return "", apperr.InvalidInput("external id is required")
	}
	return externalID, nil
}

// newContent returns a content shell stamped with the provider's external id.
func newContent(name Name, contentType entities.ContentType, externalID string) *entities.Content {
	return &entities.Content{
		Type: contentType,
		ExternalIDs: []entities.ContentExternalID{
			{Provider: string(name), ExternalID: externalID},
		},
	}
}
