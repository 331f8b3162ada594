package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/enrichment"
)

type fakeEnricher struct {
	provider string
	ids      []string
	outcomes []enrichment.BatchOutcome
	err      error
}

func (f *fakeEnricher) EnrichBatch(_ context.Context, provider string, ids []string) ([]enrichment.BatchOutcome, error) {
	f.provider = provider
	f.ids = ids
	return f.outcomes, f.err
}

type fakeCleaner struct {
	calls int
	err   error
}

func (f *fakeCleaner) DeleteOrphans(context.Context) (int64, error) {
	f.calls++
	return 3, f.err
}

func TestEnrichContentTaskConfig(t *testing.T) {
	cfg := EnrichContentTask{Provider: "tmdb"}.Config()

	assert.Equal(t, EnrichContentQueue, cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestEnrichContentProcessor(t *testing.T) {
	enricher := &fakeEnricher{outcomes: []enrichment.BatchOutcome{
		{ExternalID: "1", ContentID: 1, Created: true},
		{ExternalID: "2", Error: "content not found upstream"},
	}}
	process := EnrichContentProcessor(enricher, zap.NewNop())

	err := process(context.Background(), EnrichContentTask{Provider: "tmdb", ExternalIDs: []string{"1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, "tmdb", enricher.provider)
	assert.Equal(t, []string{"1", "2"}, enricher.ids)
}

func TestEnrichContentProcessor_AllFailed(t *testing.T) {
	enricher := &fakeEnricher{outcomes: []enrichment.BatchOutcome{
		{ExternalID: "1", Error: "tmdb is unavailable"},
	}}
	process := EnrichContentProcessor(enricher, zap.NewNop())

	assert.Error(t, process(context.Background(), EnrichContentTask{Provider: "tmdb", ExternalIDs: []string{"1"}}))
}

func TestEnrichContentProcessor_ResolveError(t *testing.T) {
	process := EnrichContentProcessor(&fakeEnricher{err: errors.New("unknown provider")}, zap.NewNop())
	assert.Error(t, process(context.Background(), EnrichContentTask{Provider: "nope"}))

	assert.Error(t, EnrichContentProcessor(nil, zap.NewNop())(context.Background(), EnrichContentTask{}))
}

func TestCleanupOrphansProcessor(t *testing.T) {
	cleaner := &fakeCleaner{}
	process := CleanupOrphansProcessor(cleaner, zap.NewNop())

	require.NoError(t, process(context.Background(), CleanupOrphansTask{}))
	assert.Equal(t, 1, cleaner.calls)

	cleaner.err = errors.New("disk I/O error")
	assert.Error(t, process(context.Background(), CleanupOrphansTask{}))

	cfg := CleanupOrphansTask{}.Config()
	assert.Equal(t, CleanupOrphansQueue, cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
}
