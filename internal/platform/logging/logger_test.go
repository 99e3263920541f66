package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core)).With("contract", "wasm1league")

	logger.Debug("dropped")
	logger.Info("tx committed", "height", uint64(7), "error", errors.New("boom"), "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "wasm1league", fields["contract"])
	assert.EqualValues(t, 7, fields["height"])
	assert.Equal(t, "boom", fields["error"])
	assert.Contains(t, fields, "dangling")
}

func TestLogger_MirrorReceivesBoundFields(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core)).With("component", "chain")

	var got []any
	var gotLevel Level
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		if msg != "mirror check" {
			return
		}
		gotLevel = level
		got = args
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.WarnContext(context.Background(), "mirror check", "sender", "wasm1alice")

	assert.Equal(t, LevelWarn, gotLevel)
	assert.Equal(t, []any{"component", "chain", "sender", "wasm1alice"}, got)
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("no logger configured")
		_ = logger.With("k", "v")
		_ = logger.Sync()
	})
}
