package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// CleanupOrphansQueue is the queue name for orphan interaction cleanup.
const CleanupOrphansQueue = "cleanup_orphan_interactions"

// OrphanCleaner deletes interactions whose content no longer exists.
type OrphanCleaner interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

// CleanupOrphansTask removes interactions that reference deleted content.
type CleanupOrphansTask struct{}

// Config returns the queue configuration for cleanup tasks.
func (t CleanupOrphansTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        CleanupOrphansQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphansProcessor creates a processor function for CleanupOrphansTask.
func CleanupOrphansProcessor(cleaner OrphanCleaner, log *zap.Logger) backlite.QueueProcessor[CleanupOrphansTask] {
	return func(ctx context.Context, task CleanupOrphansTask) error {
		if cleaner == nil {
			return fmt.Errorf("orphan cleaner not configured")
		}

		deleted, err := cleaner.DeleteOrphans(ctx)
		if err != nil {
			return fmt.Errorf("cleanup orphan interactions: %w", err)
		}

		log.Info("cleaned up orphan interactions", zap.Int64("deleted", deleted))
		return nil
	}
}

// NewCleanupOrphansQueue creates a backlite queue for orphan cleanup tasks.
func NewCleanupOrphansQueue(cleaner OrphanCleaner, log *zap.Logger) backlite.Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return backlite.NewQueue(CleanupOrphansProcessor(cleaner, log.Named("tasks")))
}
