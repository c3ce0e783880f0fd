package fsstore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminai/askdocs/blob"
)

func TestUploadDownloadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := "The capital of France is Paris."
	err = store.Upload(ctx, "uploads/x_note.txt", strings.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)

	path, err := store.Download(ctx, "uploads/x_note.txt")
	require.NoError(t, err)
	defer os.Remove(path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestDownloadMissingKey(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "uploads/missing.txt")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestPresign(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "uploads/y.txt", strings.NewReader("hi"), 2, "text/plain"))

	url, err := store.Presign(ctx, "uploads/y.txt", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))

	_, err = store.Presign(ctx, "uploads/z.txt", 0)
	assert.ErrorIs(t, err, blob.ErrNotFound)
}
