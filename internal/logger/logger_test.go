package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			logger, err := New("debug", format)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug").Level())
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn").Level())
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error").Level())
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose").Level())
}

func TestBacklite(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	adapter := NewBacklite(zap.New(core))

	adapter.Info("task processed", "queue", "enrich_content", "id", "abc")
	adapter.Error("task failed", "queue", "cleanup_orphan_interactions")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "task processed", entries[0].Message)
	assert.Equal(t, "enrich_content", entries[0].ContextMap()["queue"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
