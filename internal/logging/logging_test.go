package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestJSONHandlerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, Config{Level: "warn"}))
	l.Info("skipped")
	l.Warn("kept", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestFileOutputRotatesThroughLumberjack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "admin.log")
	l, closer, err := New(Config{Output: "file", FilePath: path, MaxSizeMB: 1})
	require.NoError(t, err)
	require.NotNil(t, closer)

	l.Info("hello")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}
