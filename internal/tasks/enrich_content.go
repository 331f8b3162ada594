package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/enrichment"
)

// EnrichContentQueue is the queue name for batch enrichment tasks.
const EnrichContentQueue = "enrich_content"

// BatchEnricher enriches a list of external ids from one provider.
type BatchEnricher interface {
	EnrichBatch(ctx context.Context, providerName string, externalIDs []string) ([]enrichment.BatchOutcome, error)
}

// EnrichContentTask enriches a batch of external ids from one provider.
type EnrichContentTask struct {
	Provider    string   `json:"provider"`
	ExternalIDs []string `json:"external_ids"`
}

// Config returns the queue configuration for batch enrichment tasks.
// Upstream calls are never retried, so a failed batch stays failed.
func (t EnrichContentTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        EnrichContentQueue,
		MaxAttempts: 1,
		Backoff:     30 * time.Second,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichContentProcessor creates a processor function for EnrichContentTask.
func EnrichContentProcessor(enricher BatchEnricher, log *zap.Logger) backlite.QueueProcessor[EnrichContentTask] {
	return func(ctx context.Context, task EnrichContentTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		outcomes, err := enricher.EnrichBatch(ctx, task.Provider, task.ExternalIDs)
		if err != nil {
			return fmt.Errorf("enrich batch from %s: %w", task.Provider, err)
		}

		var created, existing, failed int
		for _, o := range outcomes {
			switch {
			case o.Error != "":
				failed++
			case o.Created:
				created++
			default:
				existing++
			}
		}

		log.Info("batch enrichment finished",
			zap.String("provider", task.Provider),
			zap.Int("created", created),
			zap.Int("existing", existing),
			zap.Int("failed", failed))

		if failed > 0 && failed == len(outcomes) {
			return fmt.Errorf("enrich batch from %s: all %d ids failed", task.Provider, failed)
		}
		return nil
	}
}

// NewEnrichContentQueue creates a backlite queue for batch enrichment tasks.
func NewEnrichContentQueue(enricher BatchEnricher, log *zap.Logger) backlite.Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return backlite.NewQueue(EnrichContentProcessor(enricher, log.Named("tasks")))
}
