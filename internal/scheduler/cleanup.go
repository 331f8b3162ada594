// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/tasks"
)

// Enqueuer hands a task to the background queue.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// OrphanCleaner deletes interactions whose content no longer exists.
type OrphanCleaner interface {
	DeleteOrphans(ctx context.Context) (int64, error)
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule reports whether schedule is a valid five-field cron spec.
func ValidateSchedule(schedule string) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// CleanupScheduler periodically removes orphan interactions. When a task
// queue is available the job is enqueued, otherwise it runs inline.
type CleanupScheduler struct {
	schedule string
	queue    Enqueuer
	cleaner  OrphanCleaner
	logger   *zap.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewCleanupScheduler creates a scheduler. queue may be nil.
func NewCleanupScheduler(schedule string, queue Enqueuer, cleaner OrphanCleaner, logger *zap.Logger) *CleanupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupScheduler{
		schedule: schedule,
		queue:    queue,
		cleaner:  cleaner,
		logger:   logger.Named("scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the cleanup job and starts the cron loop. The scheduler
// stops when ctx is cancelled.
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("cleanup scheduler started",
		zap.String("schedule", s.schedule),
		zap.Time("next_run", s.cron.Entry(entryID).Next))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	done := s.cron.Stop()
	<-done.Done()
	s.isRunning = false

	s.logger.Info("cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the job will fire next, or nil when stopped.
func (s *CleanupScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// RunNow performs one cleanup cycle synchronously.
func (s *CleanupScheduler) RunNow(ctx context.Context) {
	if s.queue != nil {
		id, err := s.queue.Enqueue(tasks.CleanupOrphansTask{})
		if err != nil {
			s.logger.Error("failed to enqueue cleanup", zap.Error(err))
			return
		}
		s.logger.Debug("cleanup enqueued", zap.String("task_id", id))
		return
	}

	deleted, err := s.cleaner.DeleteOrphans(ctx)
	if err != nil {
		s.logger.Error("orphan cleanup failed", zap.Error(err))
		return
	}
	s.logger.Info("cleaned up orphan interactions", zap.Int64("deleted", deleted))
}
