// Package enrichment turns a provider id into a canonical content record,
// fetching from the provider only when the catalog does not know the id yet.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/database/content"
	"github.com/mrlokans/mediashelf/internal/entities"
	"github.com/mrlokans/mediashelf/internal/providers"
)

// ErrEnrichmentFailed wraps every upstream failure other than "not found".
var ErrEnrichmentFailed = errors.New("enrichment failed")

// Store persists enriched content. CreateEnriched must be create-or-fetch.
type Store interface {
	FindByExternalID(ctx context.Context, provider, externalID string) (*entities.Content, error)
	CreateEnriched(ctx context.Context, c *entities.Content) (*entities.Content, bool, error)
}

type ProviderResolver interface {
	Resolve(name string) (providers.Provider, error)
}

// Recorder receives one observation per enrichment.
type Recorder interface {
	ObserveEnrichment(provider, outcome string)
}

const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

type Result struct {
	Content *entities.Content `json:"content"`
	Created bool              `json:"created"`
}

// BatchOutcome is the per-id result of EnrichBatch.
type BatchOutcome struct {
	ExternalID string `json:"externalId"`
	ContentID  uint   `json:"contentId,omitempty"`
	Created    bool   `json:"created"`
	Error      string `json:"error,omitempty"`
}

type Orchestrator struct {
	store     Store
	providers ProviderResolver
	recorder  Recorder
	logger    *zap.Logger
	group     singleflight.Group

	// Store retries after a vanished conflict. Provider calls are never retried.
	storeAttempts   uint64
	storeRetryDelay time.Duration
}

func NewOrchestrator(store Store, resolver ProviderResolver, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:           store,
		providers:       resolver,
		logger:          logger.Named("enrichment"),
		storeAttempts:   3,
		storeRetryDelay: 50 * time.Millisecond,
	}
}

// SetRecorder sets the metrics recorder (optional).
func (o *Orchestrator) SetRecorder(recorder Recorder) {
	o.recorder = recorder
}

// Search passes a catalog search through to the resolved provider.
func (o *Orchestrator) Search(ctx context.Context, providerName, query string, opts providers.SearchOptions) ([]providers.CandidateSummary, error) {
	p, err := o.providers.Resolve(providerName)
	if err != nil {
		return nil, err
	}
	results, err := p.Search(ctx, query, opts)
	if err != nil {
		return []providers.CandidateSummary{}, err
	}
	return results, nil
}

// EnrichByExternalID returns the catalog record for the provider id,
// creating it from the provider's detail on first sight. Repeated and
// concurrent calls converge on one record; Created is true for exactly one
// of them.
func (o *Orchestrator) EnrichByExternalID(ctx context.Context, providerName, externalID string) (*Result, error) {
	p, err := o.providers.Resolve(providerName)
	if err != nil {
		return nil, err
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperr.InvalidInput("external id is required")
	}

	key := string(p.Name()) + "/" + externalID
	leader := false
	v, err, _ := o.group.Do(key, func() (interface{}, error) {
		leader = true
		// Followers share this work, so it must not die with the leader's request.
		return o.enrich(context.WithoutCancel(ctx), p, externalID)
	})
	if err != nil {
		return nil, err
	}

	shared := v.(*Result)
	return &Result{Content: shared.Content, Created: shared.Created && leader}, nil
}

func (o *Orchestrator) enrich(ctx context.Context, p providers.Provider, externalID string) (*Result, error) {
	name := string(p.Name())
	log := o.logger.With(zap.String("provider", name), zap.String("external_id", externalID))

	existing, err := o.store.FindByExternalID(ctx, name, externalID)
	if err == nil {
		o.observe(name, OutcomeExisting)
		return &Result{Content: existing}, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}

	detail, err := p.FetchDetail(ctx, externalID)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.ErrNotFound:
			o.observe(name, OutcomeNotFound)
			return nil, err
		case apperr.ErrInvalidInput:
			return nil, err
		}
		o.observe(name, OutcomeFailed)
		log.Warn("provider detail failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.ErrProviderUnavailable,
			fmt.Sprintf("enrichment from %s failed", name),
			fmt.Errorf("%w: %w", ErrEnrichmentFailed, err))
	}
	if strings.TrimSpace(detail.Title) == "" {
		o.observe(name, OutcomeFailed)
		return nil, apperr.Wrap(apperr.ErrProviderUnavailable,
			fmt.Sprintf("enrichment from %s failed", name),
			fmt.Errorf("%w: upstream record has no title", ErrEnrichmentFailed))
	}

	detail.Type = p.ContentType()
	detail.Origin = entities.OriginEnrichment
	detail.ExternalIDs = []entities.ContentExternalID{{Provider: name, ExternalID: externalID}}

	stored, created, err := o.persist(ctx, detail)
	if err != nil {
		return nil, err
	}

	if created {
		o.observe(name, OutcomeCreated)
		log.Info("content enriched", zap.Uint("content_id", stored.ID))
	} else {
		o.observe(name, OutcomeExisting)
	}
	return &Result{Content: stored, Created: created}, nil
}

// persist runs create-or-fetch, retrying only when a conflicting row
// vanished between the failed insert and the read-back.
func (o *Orchestrator) persist(ctx context.Context, c *entities.Content) (*entities.Content, bool, error) {
	var (
		stored  *entities.Content
		created bool
	)
	operation := func() error {
		s, cr, err := o.store.CreateEnriched(ctx, c)
		if errors.Is(err, content.ErrConflictVanished) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		stored, created = s, cr
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = o.storeRetryDelay
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, o.storeAttempts-1), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, false, fmt.Errorf("store enriched content: %w", err)
	}
	return stored, created, nil
}

// EnrichBatch enriches ids one after another. A failing id does not stop
// the batch.
func (o *Orchestrator) EnrichBatch(ctx context.Context, providerName string, externalIDs []string) ([]BatchOutcome, error) {
	if _, err := o.providers.Resolve(providerName); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(externalIDs))
	outcomes := make([]BatchOutcome, 0, len(externalIDs))
	for _, id := range externalIDs {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := BatchOutcome{ExternalID: id}
		result, err := o.EnrichByExternalID(ctx, providerName, id)
		if err != nil {
			outcome.Error = apperr.Message(err)
		} else {
			outcome.ContentID = result.Content.ID
			outcome.Created = result.Created
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (o *Orchestrator) observe(provider, outcome string) {
	if o.recorder != nil {
		o.recorder.ObserveEnrichment(provider, outcome)
	}
}
