package logger

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expected := NewLogger(TestConfig())
		ctx := ContextWithLogger(t.Context(), expected)

		actual := FromContext(ctx)

		require.NotNil(t, actual)
		assert.Equal(t, expected, actual)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		l := FromContext(t.Context())
		require.NotNil(t, l)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, "not a logger")
		require.NotNil(t, FromContext(ctx))
	})

	t.Run("Should return default logger when nil logger in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, (Logger)(nil))
		require.NotNil(t, FromContext(ctx))
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	t.Run("Should convert all log levels to charm log levels", func(t *testing.T) {
		testCases := []struct {
			level    LogLevel
			expected int
		}{
			{DebugLevel, -4},
			{InfoLevel, 0},
			{WarnLevel, 4},
			{ErrorLevel, 8},
			{DisabledLevel, 1000},
			{LogLevel("WARN"), 4},
			{LogLevel("unknown"), 0},
		}
		for _, tc := range testCases {
			assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()), "level %s", tc.level)
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write text output", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
		l.Info("analysis finished", "strategy", "tfidf")

		assert.Contains(t, buf.String(), "analysis finished")
		assert.Contains(t, buf.String(), "strategy=tfidf")
	})

	t.Run("Should write JSON output when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, TimeFormat: "15:04:05"})
		l.Info("analysis finished", "keywords", 5)

		assert.Contains(t, buf.String(), `"msg":"analysis finished"`)
		assert.Contains(t, buf.String(), `"keywords":5`)
	})

	t.Run("Should use default config when nil", func(t *testing.T) {
		require.NotNil(t, NewLogger(nil))
	})
}

func TestLogger_With(t *testing.T) {
	t.Run("Should carry fields into later entries", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})

		base.With("request_id", "abc123").Warn("fallback used")

		assert.Contains(t, buf.String(), "request_id=abc123")
		assert.Contains(t, buf.String(), "fallback used")
	})
}

func TestConfigDefaults(t *testing.T) {
	t.Run("Should provide default configuration", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Equal(t, InfoLevel, cfg.Level)
		assert.Equal(t, os.Stderr, cfg.Output)
		assert.False(t, cfg.JSON)
		assert.Equal(t, "15:04:05", cfg.TimeFormat)
	})

	t.Run("Should provide test configuration", func(t *testing.T) {
		cfg := TestConfig()
		assert.Equal(t, DisabledLevel, cfg.Level)
		assert.Equal(t, io.Discard, cfg.Output)
	})
}

func TestLoggerLevels(t *testing.T) {
	t.Run("Should respect log level filtering", func(t *testing.T) {
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
	})

	t.Run("Should drop everything at disabled level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: DisabledLevel, Output: &buf, TimeFormat: "15:04:05"})

		l.Error("error message")

		assert.Empty(t, buf.String())
	})
}
