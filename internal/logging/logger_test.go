package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		"":      LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("component", "engine")

	l.Debug("snapshot emitted", "round", "Round 3", "teams", 18)
	l.Warn("skipped", "err", errors.New("boom"), "dangling")

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "engine", first["component"])
	assert.Equal(t, "Round 3", first["round"])
	assert.EqualValues(t, 18, first["teams"])

	second := entries[1].ContextMap()
	assert.Equal(t, "boom", second["err"])
	assert.Contains(t, second, "dangling")
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(FromZap(zap.New(core)))
	t.Cleanup(func() { SetDefault(nil) })

	var l *Logger
	l.Info("hello")
	assert.Equal(t, 1, logs.Len())
}
