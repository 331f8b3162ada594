package providers

import (
	"fmt"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/config"
	"github.com/mrlokans/mediashelf/internal/entities"
)

// Registry is the closed set of configured providers. It resolves either a
// provider name ("tmdb") or a content type alias ("movie").
type Registry struct {
	providers map[Name]Provider
	aliases   map[entities.ContentType]Name
	order     []Name
}

// NewRegistry registers providers in order. The first provider registered
// for a content type becomes that type's alias target.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{
		providers: make(map[Name]Provider, len(providers)),
		aliases:   make(map[entities.ContentType]Name),
	}
	for _, p := range providers {
		r.providers[p.Name()] = p
		r.order = append(r.order, p.Name())
		if _, ok := r.aliases[p.ContentType()]; !ok {
			r.aliases[p.ContentType()] = p.Name()
		}
	}
	return r
}

// NewRegistryFromConfig builds every configured provider. OpenLibrary is
// registered after Google Books so "book" keeps resolving to Google Books.
func NewRegistryFromConfig(cfg config.Providers, base ClientConfig) *Registry {
	base.Timeout = cfg.Timeout
	base.RatePerSecond = cfg.RatePerSecond
	base.Burst = cfg.Burst
	base.BreakerFailures = cfg.BreakerFailures
	base.BreakerCooldown = cfg.BreakerCooldown
	base.UserAgent = cfg.UserAgent

	providers := []Provider{
		NewTMDB(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, base),
		NewITunes(cfg.ITunes.BaseURL, base),
		NewGoogleBooks(cfg.GoogleBooks.APIKey, cfg.GoogleBooks.BaseURL, base),
	}
	if cfg.OpenLibrary.Enabled {
		providers = append(providers, NewOpenLibrary(cfg.OpenLibrary.BaseURL, base))
	}
	return NewRegistry(providers...)
}

func (r *Registry) Resolve(name string) (Provider, error) {
	if p, ok := r.providers[Name(name)]; ok {
		return p, nil
	}
	if target, ok := r.aliases[entities.ContentType(name)]; ok {
		return r.providers[target], nil
	}
	return nil, apperr.Wrap(apperr.ErrInvalidInput, fmt.Sprintf("unknown provider %q", name), ErrUnknownProvider)
}

// Names lists registered providers in registration order.
func (r *Registry) Names() []Name {
	return append([]Name(nil), r.order...)
}

// CircuitStates maps each registered provider to its breaker state.
func (r *Registry) CircuitStates() map[string]string {
	states := make(map[string]string, len(r.order))
	for _, name := range r.order {
		if p, ok := r.providers[name].(interface{ CircuitState() string }); ok {
			states[string(name)] = p.CircuitState()
		}
	}
	return states
}
