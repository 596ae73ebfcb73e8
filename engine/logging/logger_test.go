package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextReturnsStashedLogger(t *testing.T) {
	expected := NewLogger(TestConfig())
	ctx := ContextWithLogger(context.Background(), expected)

	actual := FromContext(ctx)

	require.NotNil(t, actual)
	assert.Equal(t, expected, actual)
}

func TestFromContextFallsBackWithoutALogger(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.NotNil(t, FromContext(context.WithValue(context.Background(), LoggerCtxKey, "not a logger")))
}

func TestLogLevelToCharmlogLevel(t *testing.T) {
	cases := []struct {
		level    LogLevel
		expected int
	}{
		{DebugLevel, -4},
		{InfoLevel, 0},
		{WarnLevel, 4},
		{ErrorLevel, 8},
		{DisabledLevel, 1000},
		{LogLevel("unknown"), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()))
	}
}

func TestNewLoggerWritesMessages(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
	l.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, TimeFormat: "15:04:05"})
	l.Info("hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "{")
}

func TestLoggerWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
	l.With("component", "router").Info("done")
	out := buf.String()
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "router")
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})
	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestDisabledLevelSuppressesEverything(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&Config{Level: DisabledLevel, Output: &buf, TimeFormat: "15:04:05"})
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Empty(t, buf.String())
}

func TestDefaultAndTestConfig(t *testing.T) {
	d := DefaultConfig()
	assert.Equal(t, InfoLevel, d.Level)
	assert.False(t, d.JSON)

	tc := TestConfig()
	assert.Equal(t, DisabledLevel, tc.Level)
}
