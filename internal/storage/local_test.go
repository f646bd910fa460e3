package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(Config{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:4000/uploads",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStorageSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newLocal(t)

	content := []byte("hello document")
	require.NoError(t, store.Save(ctx, "user1/loan1/identity/doc.pdf", bytes.NewReader(content), "application/pdf"))

	exists, err := store.Exists(ctx, "user1/loan1/identity/doc.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	size, err := store.GetSize(ctx, "user1/loan1/identity/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	rc, err := store.Get(ctx, "user1/loan1/identity/doc.pdf")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, got)

	require.NoError(t, store.Delete(ctx, "user1/loan1/identity/doc.pdf"))
	exists, err = store.Exists(ctx, "user1/loan1/identity/doc.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	store := newLocal(t)
	assert.NoError(t, store.Delete(context.Background(), "never/existed.pdf"))
}

func TestLocalStorageList(t *testing.T) {
	ctx := context.Background()
	store := newLocal(t)

	require.NoError(t, store.Save(ctx, "u1/a.pdf", bytes.NewReader([]byte("a")), ""))
	require.NoError(t, store.Save(ctx, "u1/sub/b.pdf", bytes.NewReader([]byte("b")), ""))
	require.NoError(t, store.Save(ctx, "u2/c.pdf", bytes.NewReader([]byte("c")), ""))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1/a.pdf", "u1/sub/b.pdf", "u2/c.pdf"}, all)

	justU1, err := store.List(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1/a.pdf", "u1/sub/b.pdf"}, justU1)
}

func TestLocalStorageURLs(t *testing.T) {
	ctx := context.Background()
	store := newLocal(t)

	url, err := store.GetURL(ctx, "u1/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/uploads/u1/a.pdf", url)

	signed, err := store.GetSignedURL(ctx, "u1/a.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, url, signed)
}
