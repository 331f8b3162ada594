// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - enrichment.Store: create-or-fetch of enriched content (internal/enrichment)
//   - http.ContentReader, http.CatalogWriter: catalog reads and validated writes (internal/http/stores.go)
//   - http.InteractionStore, http.LibraryReader: ratings, favorites and the library view
//   - auth.TokenLookup: bearer token resolution (internal/auth)
//
// ## External Service Interfaces
//
//   - providers.Provider: search and detail fetch against one upstream catalog (internal/providers)
//   - enrichment.ProviderResolver: provider lookup by name or content type alias
//
// ## Observability Interfaces
//
//   - providers.Recorder, enrichment.Recorder, http.RequestRecorder: metric sinks,
//     all implemented by metrics.Collector
//
// # Adding a New Provider
//
//  1. Implement Provider in internal/providers/, embedding *client for the
//     shared rate limiter, circuit breaker and error mapping:
//
//     type Discogs struct {
//         *client
//     }
//
//     func (d *Discogs) Search(ctx context.Context, query string, opts SearchOptions) ([]CandidateSummary, error)
//     func (d *Discogs) FetchDetail(ctx context.Context, externalID string) (*entities.Content, error)
//
//  2. Register it in NewRegistryFromConfig
//
//  3. Add a compile-time check to checks.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
