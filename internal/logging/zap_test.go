package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedZap(t *testing.T) (*ZapLogger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapLogger(zap.New(core)), logs
}

func TestZapLogger_LevelsAndFields(t *testing.T) {
	log, logs := newObservedZap(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	want := []struct {
		level zapcore.Level
		msg   string
		key   string
	}{
		{zapcore.DebugLevel, "dbg", "a"},
		{zapcore.InfoLevel, "inf", "b"},
		{zapcore.WarnLevel, "wrn", "c"},
		{zapcore.ErrorLevel, "err", "d"},
	}
	for i, w := range want {
		assert.Equal(t, w.level, entries[i].Level)
		assert.Equal(t, w.msg, entries[i].Message)
		assert.Contains(t, entries[i].ContextMap(), w.key)
	}
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	log, logs := newObservedZap(t)

	log.With("module", "http").Info(context.Background(), "hello", "k", "v")

	entries := logs.FilterMessage("hello").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "http", fields["module"])
	assert.Equal(t, "v", fields["k"])
}

func TestZapLogger_AddsTraceIDs(t *testing.T) {
	log, logs := newObservedZap(t)

	log.Info(tracedContext(), "traced", "k", "v")
	log.Info(context.Background(), "plain")

	traced := logs.FilterMessage("traced").All()
	require.Len(t, traced, 1)
	fields := traced[0].ContextMap()
	assert.Equal(t, "0a000000000000000000000000000000", fields["trace_id"])
	assert.Equal(t, "0b00000000000000", fields["span_id"])
	assert.Equal(t, "v", fields["k"])

	plain := logs.FilterMessage("plain").All()
	require.Len(t, plain, 1)
	assert.NotContains(t, plain[0].ContextMap(), "trace_id")
}

func TestNewZapProduction_InvalidLevel(t *testing.T) {
	_, err := NewZapProduction("loud")
	require.Error(t, err)
}

func TestNew_Backends(t *testing.T) {
	l, err := New(BackendZap, "info")
	require.NoError(t, err)
	assert.IsType(t, &ZapLogger{}, l)

	l, err = New(BackendSlog, "debug")
	require.NoError(t, err)
	assert.IsType(t, &SlogLogger{}, l)

	_, err = New("logrus", "info")
	require.Error(t, err)
}
