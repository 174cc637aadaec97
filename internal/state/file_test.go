package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "state", "last_seen.json")
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(tempStorePath(t))

	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestFileStore_LoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_seen.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileStore(path)
	rec, err := store.Load(context.Background())

	// Malformed state degrades to empty rather than aborting the run.
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestFileStore_PersistAndReload(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(tempStorePath(t))

	rec := Record{
		"spring-projects/spring-boot":      "v3.3.1",
		"spring-projects/spring-framework": "v6.1.10",
	}
	require.NoError(t, store.Persist(ctx, rec))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestFileStore_PersistLoadIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(tempStorePath(t))
	require.NoError(t, store.Persist(ctx, Record{"a/a": "v1", "b/b": "v2"}))

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Persist(ctx, loaded))

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestFileStore_PersistMergesWithDisk(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(tempStorePath(t))

	// Another writer recorded b/b after our in-memory record was loaded.
	require.NoError(t, store.Persist(ctx, Record{"b/b": "v7"}))

	require.NoError(t, store.Persist(ctx, Record{"a/a": "v1"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Record{"a/a": "v1", "b/b": "v7"}, loaded)
}

func TestFileStore_PersistOverwritesConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(tempStorePath(t))

	require.NoError(t, store.Persist(ctx, Record{"a/a": "v1"}))
	require.NoError(t, store.Persist(ctx, Record{"a/a": "v2"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", loaded["a/a"])
}

func TestFileStore_NoTempFilesLeftBehind(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(tempStorePath(t))
	require.NoError(t, store.Persist(ctx, Record{"a/a": "v1"}))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "last_seen.json", entries[0].Name())
}
