package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Level
	}{
		{"debug level", "debug", LevelDebug},
		{"info level", "info", LevelInfo},
		{"warn level", "warn", LevelWarn},
		{"warning alias", "warning", LevelWarn},
		{"error level", "error", LevelError},
		{"uppercase", "DEBUG", LevelDebug},
		{"mixed case", "WaRn", LevelWarn},
		{"padded", " info ", LevelInfo},
		{"invalid level", "invalid", defaultLevel},
		{"empty string", "", defaultLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			level := LevelFromString(tc.input)
			require.Equal(t, tc.expected, level)
		})
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()

	// These calls should not panic
	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")

	withLogger := logger.With("context", "value")
	require.NotNil(t, withLogger)
	require.IsType(t, &NullLogger{}, withLogger)
}

func TestStructuredLogger(t *testing.T) {
	logger := New(LevelDebug)
	require.NotNil(t, logger)
	require.IsType(t, &StructuredLogger{}, logger)

	withLogger := logger.With("context", "value")
	require.NotNil(t, withLogger)
	require.IsType(t, &StructuredLogger{}, withLogger)
}

func TestStructuredLoggerWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Level: LevelInfo, Writer: &buf})

	logger.Debug("hidden")
	logger.Info("visible", "table", "Sales")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "visible")
	require.Contains(t, out, "table=Sales")
	require.Contains(t, out, "caller=log/logger_test.go")
	require.NotContains(t, out, "\x1b[", "non-terminal writers must not get colors")
	require.Equal(t, 1, strings.Count(out, "\n"))
}

func TestStructuredLoggerOmitCaller(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Level: LevelInfo, Writer: &buf, OmitCaller: true})
	logger.With("component", "test").Warn("careful")

	out := buf.String()
	require.Contains(t, out, "component=test")
	require.NotContains(t, out, "caller=")
}

func TestContextLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, Ctx(ctx))

	// Missing logger falls back to a structured logger
	require.IsType(t, &StructuredLogger{}, Ctx(context.Background()))
}
