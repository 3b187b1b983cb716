package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format emits structured lines", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := New(Config{Level: "debug", Format: "json", Out: &buf})

		logger.Info().Str("key", "value").Msg("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["message"])
		assert.Equal(t, "value", line["key"])
		assert.Equal(t, "info", line["level"])
	})

	t.Run("level filters lower severities", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := New(Config{Level: "warn", Format: "json", Out: &buf})

		logger.Info().Msg("dropped")
		assert.Empty(t, buf.Bytes())

		logger.Warn().Msg("kept")
		assert.NotEmpty(t, buf.Bytes())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		t.Parallel()
		logger := New(Config{Level: "loud", Format: "json", Out: &bytes.Buffer{}})
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestComponentLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := ComponentLogger(New(Config{Format: "json", Out: &buf}), "cache")
	logger.Info().Msg("x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cache", line["component"])
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns the attached logger", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		logger := New(Config{Format: "json", Out: &buf})
		ctx := logger.WithContext(context.Background())

		FromContext(ctx).Info().Msg("through context")
		assert.Contains(t, buf.String(), "through context")
	})

	t.Run("bare context yields a disabled logger", func(t *testing.T) {
		t.Parallel()
		logger := FromContext(context.Background())
		assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	})
}

func TestTraceIDs(t *testing.T) {
	t.Parallel()

	t.Run("generated IDs are unique", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, NewTraceID(), NewTraceID())
	})

	t.Run("round trip through context", func(t *testing.T) {
		t.Parallel()
		id := NewTraceID()
		ctx := ContextWithTraceID(context.Background(), id)

		assert.Equal(t, id, TraceIDFromContext(ctx))
		assert.Equal(t, id, GetOrGenerateTraceID(ctx))
	})

	t.Run("missing ID is generated on demand", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		assert.Empty(t, TraceIDFromContext(ctx))
		assert.NotEmpty(t, GetOrGenerateTraceID(ctx))
	})
}
