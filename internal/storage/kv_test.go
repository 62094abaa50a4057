package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/footyoracle/internal/models"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()

	got, err := kv.Get("missing")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, kv.Set("k", "v1"))
	require.NoError(t, kv.Set("k", "v2"))
	got, err = kv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, kv.Delete("k"))
	got, err = kv.Get("k")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestSQLiteKV(t *testing.T) {
	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "data", "footy.db"))
	require.NoError(t, err)
	defer kv.Close()

	exerciseKV(t, kv)
}

func TestSQLiteKV_HistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "footy.db")

	kv, err := NewSQLiteKV(path)
	require.NoError(t, err)
	s := NewHistoryStore(kv, HistoryKey, nil)
	require.NoError(t, s.Load())
	require.NoError(t, s.Append(match("a", models.OutcomeCorrect)))
	require.NoError(t, kv.Close())

	kv, err = NewSQLiteKV(path)
	require.NoError(t, err)
	defer kv.Close()
	reopened := NewHistoryStore(kv, HistoryKey, nil)
	require.NoError(t, reopened.Load())

	assert.Equal(t, []string{"a"}, ids(reopened.All()))
}

func TestNewSQLiteKV_RequiresPath(t *testing.T) {
	_, err := NewSQLiteKV("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	log := zap.NewNop()

	kv, err := Open(Options{Backend: BackendMemory}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	kv, err = Open(Options{Backend: BackendRedis}, log)
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv, "redis without URL falls back to memory")

	kv, err = Open(Options{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "x.db")}, log)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	kv.Close()

	_, err = Open(Options{Backend: "etcd"}, log)
	assert.Error(t, err)
}
