package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/storage"
)

func newTestRepos(t *testing.T) *MemoryRepositories {
	t.Helper()
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func TestCreateUploadAssignsIDAndDefaults(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	record, err := repos.Uploads.CreateUpload(ctx, &core.UploadRecord{
		OriginalName: "handbook.pdf",
		StorageKey:   "uploads/abc_handbook.pdf",
	})
	require.NoError(t, err)

	assert.NotZero(t, record.Id)
	assert.Equal(t, core.StatusPending, record.Status)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)
}

func TestCreateUploadRejectsEmptyStorageKey(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Uploads.CreateUpload(context.Background(), &core.UploadRecord{
		OriginalName: "handbook.pdf",
	})
	assert.ErrorIs(t, err, core.ErrInvalidUploadRecord)
}

func TestGetUploadNotFound(t *testing.T) {
	repos := newTestRepos(t)

	_, err := repos.Uploads.GetUpload(context.Background(), 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUploadStatusLifecycle(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	record, err := repos.Uploads.CreateUpload(ctx, &core.UploadRecord{
		OriginalName: "handbook.pdf",
		StorageKey:   "uploads/abc_handbook.pdf",
	})
	require.NoError(t, err)

	claimed, err := repos.Uploads.MarkProcessing(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusProcessing, claimed.Status)

	// Second claim loses.
	_, err = repos.Uploads.MarkProcessing(ctx, record.Id)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	done, err := repos.Uploads.SetStatus(ctx, record.Id, core.StatusCompleted, "", 12)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, done.Status)
	assert.Equal(t, 12, done.ChunksProcessed)

	// Terminal records accept no further transitions.
	_, err = repos.Uploads.SetStatus(ctx, record.Id, core.StatusFailed, "late failure", 0)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	stored, err := repos.Uploads.GetUpload(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, stored.Status)
}

func TestSetStatusFailedStoresError(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	record, err := repos.Uploads.CreateUpload(ctx, &core.UploadRecord{
		OriginalName: "scan.png",
		StorageKey:   "uploads/def_scan.png",
	})
	require.NoError(t, err)

	_, err = repos.Uploads.MarkProcessing(ctx, record.Id)
	require.NoError(t, err)

	failed, err := repos.Uploads.SetStatus(ctx, record.Id, core.StatusFailed, "ocr produced no text", 0)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, failed.Status)
	assert.Equal(t, "ocr produced no text", failed.Error)
}

func TestListUploadsNewestFirst(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	names := []string{"first.txt", "second.txt", "third.txt"}
	for _, name := range names {
		_, err := repos.Uploads.CreateUpload(ctx, &core.UploadRecord{
			OriginalName: name,
			StorageKey:   "uploads/" + name,
		})
		require.NoError(t, err)
	}

	records, err := repos.Uploads.ListUploads(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, record := range records {
		assert.Equal(t, names[len(names)-1-i], record.OriginalName)
	}

	limited, err := repos.Uploads.ListUploads(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
