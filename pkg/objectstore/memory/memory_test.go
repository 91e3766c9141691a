package memory_test

import (
	"context"
	"testing"

	"github.com/marmos91/bigsqs/pkg/objectstore"
	"github.com/marmos91/bigsqs/pkg/objectstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	store := memory.NewMemoryStore()
	ctx := context.Background()

	data := []byte("payload bytes")
	require.NoError(t, store.Put(ctx, "bucket", "key", data))

	got, err := store.Get(ctx, "bucket", "key")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, "bucket", "key"))

	_, err = store.Get(ctx, "bucket", "key")
	assert.ErrorIs(t, err, objectstore.ErrObjectNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := memory.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Delete(ctx, "bucket", "never-stored"))
	require.NoError(t, store.Delete(ctx, "bucket", "never-stored"))
}

func TestBucketsAreIndependent(t *testing.T) {
	store := memory.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", "key", []byte("from a")))
	require.NoError(t, store.Put(ctx, "b", "key", []byte("from b")))

	got, err := store.Get(ctx, "a", "key")
	require.NoError(t, err)
	assert.Equal(t, "from a", string(got))

	require.NoError(t, store.Delete(ctx, "a", "key"))
	assert.True(t, store.Has("b", "key"))
}

func TestGetReturnsCopy(t *testing.T) {
	store := memory.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "bucket", "key", []byte("immutable")))

	got, err := store.Get(ctx, "bucket", "key")
	require.NoError(t, err)
	got[0] = 'X'

	again, err := store.Get(ctx, "bucket", "key")
	require.NoError(t, err)
	assert.Equal(t, "immutable", string(again))
}
