package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestMultiHandler_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	handler := NewMultiHandler(
		slog.NewJSONHandler(&first, nil),
		slog.NewJSONHandler(&second, nil),
	)

	log := slog.New(handler)
	log.Info("search_started", "query", "chunking")

	for _, buf := range []*bytes.Buffer{&first, &second} {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "search_started", record["msg"])
		assert.Equal(t, "chunking", record["query"])
	}
}

func TestMultiHandler_RespectsLevels(t *testing.T) {
	var quiet, chatty bytes.Buffer
	handler := NewMultiHandler(
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewJSONHandler(&chatty, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	assert.True(t, handler.Enabled(context.Background(), slog.LevelDebug))

	slog.New(handler).Info("only_for_chatty")
	assert.Zero(t, quiet.Len())
	assert.NotZero(t, chatty.Len())
}
