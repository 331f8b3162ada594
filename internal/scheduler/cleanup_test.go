package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/tasks"
)

type fakeQueue struct {
	mu    sync.Mutex
	tasks []backlite.Task
	err   error
}

func (f *fakeQueue) Enqueue(task backlite.Task) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.tasks = append(f.tasks, task)
	return "task-1", nil
}

type fakeCleaner struct {
	calls int
}

func (f *fakeCleaner) DeleteOrphans(context.Context) (int64, error) {
	f.calls++
	return 2, nil
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 * * * *"))
	assert.NoError(t, ValidateSchedule("*/15 2 * * 1-5"))
	assert.Error(t, ValidateSchedule("every hour"))
	assert.Error(t, ValidateSchedule("0 0 * * * *"))
}

func TestRunNow_EnqueuesWhenQueueAvailable(t *testing.T) {
	queue := &fakeQueue{}
	cleaner := &fakeCleaner{}
	s := NewCleanupScheduler("0 * * * *", queue, cleaner, zap.NewNop())

	s.RunNow(context.Background())

	require.Len(t, queue.tasks, 1)
	assert.IsType(t, tasks.CleanupOrphansTask{}, queue.tasks[0])
	assert.Zero(t, cleaner.calls)
}

func TestRunNow_InlineWithoutQueue(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewCleanupScheduler("0 * * * *", nil, cleaner, zap.NewNop())

	s.RunNow(context.Background())
	assert.Equal(t, 1, cleaner.calls)
}

func TestRunNow_EnqueueFailureIsLogged(t *testing.T) {
	queue := &fakeQueue{err: errors.New("database is locked")}
	cleaner := &fakeCleaner{}
	s := NewCleanupScheduler("0 * * * *", queue, cleaner, zap.NewNop())

	s.RunNow(context.Background())
	assert.Zero(t, cleaner.calls)
}

func TestStartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewCleanupScheduler("0 * * * *", nil, &fakeCleaner{}, zap.NewNop())
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())
	require.NotNil(t, s.NextRun())
	assert.Zero(t, s.NextRun().Minute())

	require.NoError(t, s.Start(ctx))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewCleanupScheduler("nope", nil, &fakeCleaner{}, zap.NewNop())
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}
