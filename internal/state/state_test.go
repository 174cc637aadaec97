package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_IsNew(t *testing.T) {
	rec := Record{"spring-projects/spring-boot": "v3.1.0"}

	// No prior entry: everything is new.
	assert.True(t, rec.IsNew("spring-projects/spring-framework", "v6.0.0"))

	// Different tag is new, same tag is not.
	assert.True(t, rec.IsNew("spring-projects/spring-boot", "v3.2.0"))
	assert.False(t, rec.IsNew("spring-projects/spring-boot", "v3.1.0"))
}

func TestRecord_IsNew_ExactStringNotVersionOrder(t *testing.T) {
	// A tag that sorts lexicographically lower than the stored one is
	// still new; only exact equality suppresses a notification.
	rec := Record{"acme/widget": "v3.1.0"}
	assert.True(t, rec.IsNew("acme/widget", "v2.9.9"))
	assert.True(t, rec.IsNew("acme/widget", "v3.1.0-rc1"))
	assert.False(t, rec.IsNew("acme/widget", "v3.1.0"))
}

func TestRecord_SetAndMerge(t *testing.T) {
	rec := Record{"a/a": "v1", "b/b": "v1"}
	rec.Set("a/a", "v2")
	assert.Equal(t, "v2", rec["a/a"])

	other := Record{"b/b": "v9", "c/c": "v1"}
	rec.Merge(other)

	// Union of keys, argument wins on conflict.
	assert.Equal(t, Record{"a/a": "v2", "b/b": "v9", "c/c": "v1"}, rec)
}

func TestRecord_Clone(t *testing.T) {
	rec := Record{"a/a": "v1"}
	cp := rec.Clone()
	cp.Set("a/a", "v2")

	assert.Equal(t, "v1", rec["a/a"])
	assert.Equal(t, "v2", cp["a/a"])
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Config{Backend: "etcd"})
	require.Error(t, err)

	var unknownErr *UnknownBackendError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "etcd", unknownErr.Backend)
}

func TestOpen_DefaultsToFileBackend(t *testing.T) {
	store, err := Open(context.Background(), Config{Path: t.TempDir() + "/last_seen.json"})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*FileStore)
	assert.True(t, ok)
}
