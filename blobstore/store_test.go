package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreLifecycle runs the BlobStore contract against an implementation.
func testStoreLifecycle(t *testing.T, store BlobStore) {
	t.Helper()

	ctx := context.Background()

	_, err := store.Open(ctx, "missing.sel")
	require.ErrorIs(t, err, ErrNotFound)

	data := []byte("hello selgo, this is a test blob")
	require.NoError(t, store.Put(ctx, "snapshots/gen-0000000000000000.sel", data))
	require.NoError(t, store.Put(ctx, "snapshots/gen-0000000000000001.sel", []byte("v2")))
	require.NoError(t, store.Put(ctx, "journal/gestures.sjl", []byte("log")))

	blob, err := store.Open(ctx, "snapshots/gen-0000000000000000.sel")
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())
	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	require.Equal(t, data, got)

	names, err := store.List(ctx, "snapshots/")
	require.NoError(t, err)
	require.Equal(t, []string{
		"snapshots/gen-0000000000000000.sel",
		"snapshots/gen-0000000000000001.sel",
	}, names)

	// Put overwrites in place.
	require.NoError(t, store.Put(ctx, "snapshots/gen-0000000000000001.sel", []byte("v2+")))
	blob2, err := store.Open(ctx, "snapshots/gen-0000000000000001.sel")
	require.NoError(t, err)
	got, err = io.ReadAll(blob2)
	require.NoError(t, err)
	require.NoError(t, blob2.Close())
	require.Equal(t, "v2+", string(got))

	require.NoError(t, store.Delete(ctx, "snapshots/gen-0000000000000000.sel"))
	_, err = store.Open(ctx, "snapshots/gen-0000000000000000.sel")
	require.ErrorIs(t, err, ErrNotFound)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{
		"journal/gestures.sjl",
		"snapshots/gen-0000000000000001.sel",
	}, names)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestLocalStore_Lifecycle(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	testStoreLifecycle(t, store)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("original")
	require.NoError(t, store.Put(ctx, "blob", data))
	data[0] = 'X'

	blob, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer blob.Close()

	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestLocalStore_DeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "missing.sel"))
}

func TestLocalStore_NestedNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a/b/c.sel", []byte("deep")))

	_, err = os.Stat(filepath.Join(dir, "a", "b", "c.sel"))
	require.NoError(t, err)

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b/c.sel"}, names)
}
