package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirgolp/flashcard/internal/config"
	"github.com/amirgolp/flashcard/internal/logging"
)

func TestConsoleLoggerWritesComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, closer, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logging.NewComponentLogger(logger, "backend").Info("request done",
		logging.String("path", "/decks/"), logging.Int("status", 200), logging.Error(errors.New("two words")))
	logger.Debug("hidden")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	line := string(content)
	assert.Contains(t, line, "INFO backend: request done")
	assert.Contains(t, line, "path=/decks/")
	assert.Contains(t, line, "status=200")
	assert.Contains(t, line, `error="two words"`)
	assert.NotContains(t, line, "hidden")
	assert.NotContains(t, line, ".go:")
}

func TestJSONLoggerRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, closer, err := logging.New(logging.Options{Format: "json", Level: "debug", OutputPaths: []string{logPath}})
	require.NoError(t, err)

	logger.Debug("cache miss", logging.String(logging.FieldQueryKey, "decks"))
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "cache miss", entry["msg"])
	assert.Equal(t, "decks", entry["query_key"])
	assert.Contains(t, entry, "ts")
	assert.Contains(t, entry["source"], "logger_test.go:")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, _, err := logging.New(logging.Options{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value")
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "info"

	logger, closer, err := logging.NewFromConfig(&cfg)
	require.NoError(t, err)
	logger.Info("logged in", logging.String("user", "anna"))
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(cfg.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "logged in user=anna")
}

func TestWithContextAddsRequestID(t *testing.T) {
	ctx := logging.WithRequestID(context.Background())
	id, ok := logging.RequestIDFromContext(ctx)
	require.True(t, ok)
	assert.Len(t, id, 36)
	assert.Equal(t, ctx, logging.WithRequestID(ctx))

	_, ok = logging.RequestIDFromContext(context.Background())
	assert.False(t, ok)
	assert.NotNil(t, logging.WithContext(ctx, nil))
}
