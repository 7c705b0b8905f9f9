package local

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalMediaStoreSaveAndGet(t *testing.T) {
	store, err := NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("fake jpeg data")

	key, err := store.Save(ctx, "user-1", "image/jpeg", bytes.NewReader(data))
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	reader, mimeType, err := store.Get(ctx, "user-1", key)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	assert.Equal(t, "image/jpeg", mimeType)
	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalMediaStoreOwnerScoping(t *testing.T) {
	store, err := NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key, err := store.Save(ctx, "user-1", "application/pdf", bytes.NewReader([]byte("doc")))
	require.NoError(t, err)

	// Another owner cannot read the same key.
	_, _, err = store.Get(ctx, "user-2", key)
	assert.Error(t, err)
}

func TestLocalMediaStoreDelete(t *testing.T) {
	store, err := NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key, err := store.Save(ctx, "user-1", "image/png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "user-1", key))
	_, _, err = store.Get(ctx, "user-1", key)
	assert.Error(t, err)
}

func TestLocalMediaStorePathTraversal(t *testing.T) {
	store, err := NewLocalMediaStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "user-1", "../../etc/passwd")
	assert.Error(t, err)
}
