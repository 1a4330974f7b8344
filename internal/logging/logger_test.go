package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	require.NoError(t, Initialize("", ""))
	assert.False(t, GetLogger().Core().Enabled(zapcore.ErrorLevel))
}

func TestInitializeWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodeedit.log")
	require.NoError(t, Initialize("info", path))
	t.Cleanup(func() { SetLogger(nil) })

	Info("hello", zap.String("who", "world"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "world")
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Initialize("loud", filepath.Join(t.TempDir(), "x.log")))
}

func TestLogQueryLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	LogQuery("load", "MATCH (n) RETURN n", map[string]any{"b": 1, "a": 2}, 3, time.Millisecond, nil)
	LogQuery("update", "MATCH (n) SET n += $p", nil, 0, time.Millisecond, errors.New("boom"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, []any{"a", "b"}, toAny(entries[0].ContextMap()["params"]))
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestLogSubmission(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	LogSubmission("id-1", "4:db:0", "started", 2, nil)
	LogSubmission("id-1", "4:db:0", "failed", 2, errors.New("boom"))

	entries := logs.FilterField(zap.String("submission_id", "id-1")).AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func toAny(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out
	}
	return nil
}
