package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminai/askdocs/ai/mock"
	"github.com/luminai/askdocs/blob"
	"github.com/luminai/askdocs/blob/fsstore"
	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/extract"
	"github.com/luminai/askdocs/storage"
	badgerstore "github.com/luminai/askdocs/storage/badger"
	"github.com/luminai/askdocs/vector"
)

type pipelineFixture struct {
	repos    *badgerstore.MemoryRepositories
	blobs    blob.Store
	embedder *mock.MockEmbedder
	pipeline *Pipeline
}

type recordingSurface struct {
	names []string
	err   error
}

func (s *recordingSurface) AttachDocument(ctx context.Context, name, text string) error {
	s.names = append(s.names, name)
	return s.err
}

func newPipelineFixture(t *testing.T, opts ...Option) *pipelineFixture {
	t.Helper()

	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	blobs, err := fsstore.NewStore(t.TempDir())
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.Dim = 8

	allOpts := append([]Option{WithEmbeddingDim(8)}, opts...)
	pipeline, err := NewPipeline(repos.Uploads, blobs, extract.New(nil), embedder, repos.Vectors, allOpts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &pipelineFixture{
		repos:    repos,
		blobs:    blobs,
		embedder: embedder,
		pipeline: pipeline,
	}
}

// uploadText stores the content as a pending text document and returns the record.
func (f *pipelineFixture) uploadText(t *testing.T, name, content string) *core.UploadRecord {
	t.Helper()
	ctx := context.Background()

	key := blob.MakeStorageKey(name)
	err := f.blobs.Upload(ctx, key, strings.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)

	record, err := f.repos.Uploads.CreateUpload(ctx, &core.UploadRecord{
		OriginalName: name,
		StorageKey:   key,
	})
	require.NoError(t, err)
	return record
}

func TestProcessCompletesTextDocument(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	record := f.uploadText(t, "notes.txt", "The refund window is thirty days from delivery.")
	require.NoError(t, f.pipeline.Process(ctx, record.Id))

	stored, err := f.repos.Uploads.GetUpload(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, stored.Status)
	assert.Equal(t, 1, stored.ChunksProcessed)
	assert.Empty(t, stored.Error)

	matches, err := f.repos.Vectors.Query(ctx, mustEmbed(t, f.embedder, "refund window"), 3)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, record.StorageKey, matches[0].Source)
	assert.Equal(t, record.StorageKey+"-0", matches[0].Id)
}

func TestProcessClaimIsExclusive(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	record := f.uploadText(t, "notes.txt", "some content")
	require.NoError(t, f.pipeline.Process(ctx, record.Id))

	// A second delivery of the same document finds it terminal.
	err := f.pipeline.Process(ctx, record.Id)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)
}

func TestProcessUnknownRecord(t *testing.T) {
	f := newPipelineFixture(t)

	err := f.pipeline.Process(context.Background(), 12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProcessFailsOnMissingBlob(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	record, err := f.repos.Uploads.CreateUpload(ctx, &core.UploadRecord{
		OriginalName: "gone.txt",
		StorageKey:   "uploads/never-stored.txt",
	})
	require.NoError(t, err)

	require.Error(t, f.pipeline.Process(ctx, record.Id))

	stored, err := f.repos.Uploads.GetUpload(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, stored.Status)
	assert.NotEmpty(t, stored.Error)
}

func TestProcessFailsOnEmptyDocument(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	record := f.uploadText(t, "blank.txt", "   \n\t ")
	err := f.pipeline.Process(ctx, record.Id)
	assert.ErrorIs(t, err, ErrNoText)

	stored, getErr := f.repos.Uploads.GetUpload(ctx, record.Id)
	require.NoError(t, getErr)
	assert.Equal(t, core.StatusFailed, stored.Status)
}

func TestProcessPartialEmbeddingStillCompletes(t *testing.T) {
	f := newPipelineFixture(t, WithChunker(mustChunker(t, WithChunkSize(40), WithChunkOverlap(8))))
	ctx := context.Background()

	// Batch embedding fails wholesale; per-chunk retries fail for one chunk.
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("batch unavailable")
	}
	calls := 0
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient embedding failure")
		}
		vec := make([]float32, 8)
		vec[0] = 1
		return vec, nil
	}

	record := f.uploadText(t, "long.txt", strings.Repeat("some sentence of filler text here. ", 10))
	require.NoError(t, f.pipeline.Process(ctx, record.Id))

	stored, err := f.repos.Uploads.GetUpload(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, stored.Status)
	assert.Greater(t, stored.ChunksProcessed, 0)
	assert.Less(t, stored.ChunksProcessed, calls)
}

func TestProcessAllEmbeddingsFail(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}

	record := f.uploadText(t, "notes.txt", "content that will never embed")
	err := f.pipeline.Process(ctx, record.Id)
	assert.ErrorIs(t, err, ErrNoChunksEmbedded)

	stored, getErr := f.repos.Uploads.GetUpload(ctx, record.Id)
	require.NoError(t, getErr)
	assert.Equal(t, core.StatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "no chunks could be embedded")
}

func TestProcessReingestOverwrites(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	first := f.uploadText(t, "policy.txt", "old policy wording")
	require.NoError(t, f.pipeline.Process(ctx, first.Id))

	// Same storage key, new pending record: a re-upload of the same object.
	content := "new policy wording"
	require.NoError(t, f.blobs.Upload(ctx, first.StorageKey, strings.NewReader(content), int64(len(content)), "text/plain"))
	second, err := f.repos.Uploads.CreateUpload(ctx, &core.UploadRecord{
		OriginalName: "policy.txt",
		StorageKey:   first.StorageKey,
	})
	require.NoError(t, err)
	require.NoError(t, f.pipeline.Process(ctx, second.Id))

	matches, err := f.repos.Vectors.Query(ctx, mustEmbed(t, f.embedder, "policy"), 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new policy wording", matches[0].Text)
}

func TestSubmitConcurrentDocuments(t *testing.T) {
	f := newPipelineFixture(t, WithPoolSize(4))
	ctx := context.Background()

	first := f.uploadText(t, "first.txt", "the first document talks about refunds")
	second := f.uploadText(t, "second.txt", "the second document talks about shipping")

	// Two submissions race through the pool at the same time.
	var wg sync.WaitGroup
	for _, id := range []core.ID{first.Id, second.Id} {
		wg.Add(1)
		go func(id core.ID) {
			defer wg.Done()
			assert.NoError(t, f.pipeline.Submit(id))
		}(id)
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		for _, id := range []core.ID{first.Id, second.Id} {
			stored, err := f.repos.Uploads.GetUpload(ctx, id)
			if err != nil || !stored.Status.Terminal() {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)

	for _, id := range []core.ID{first.Id, second.Id} {
		stored, err := f.repos.Uploads.GetUpload(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, core.StatusCompleted, stored.Status)
	}

	// Both documents' chunks landed in the index under their own keys.
	records, err := f.repos.Vectors.ListRecords(ctx)
	require.NoError(t, err)
	ids := make(map[string]bool, len(records))
	for _, r := range records {
		ids[r.Id] = true
	}
	assert.True(t, ids[first.StorageKey+"-0"])
	assert.True(t, ids[second.StorageKey+"-0"])
}

func TestKnowledgeSurfaceBestEffort(t *testing.T) {
	surface := &recordingSurface{err: errors.New("knowledge base unreachable")}
	f := newPipelineFixture(t, WithKnowledgeSurface(surface))
	ctx := context.Background()

	record := f.uploadText(t, "faq.txt", "frequently asked answers")
	require.NoError(t, f.pipeline.Process(ctx, record.Id))

	// The update was attempted and its failure did not fail the document.
	assert.Equal(t, []string{"faq.txt"}, surface.names)
	stored, err := f.repos.Uploads.GetUpload(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, stored.Status)
}

func TestNewPipelineRequiresDependencies(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	blobs, err := fsstore.NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = NewPipeline(nil, blobs, extract.New(nil), mock.NewMockEmbedder(), repos.Vectors)
	assert.ErrorIs(t, err, ErrUploadRepositoryRequired)

	_, err = NewPipeline(repos.Uploads, nil, extract.New(nil), mock.NewMockEmbedder(), repos.Vectors)
	assert.ErrorIs(t, err, ErrBlobStoreRequired)

	_, err = NewPipeline(repos.Uploads, blobs, nil, mock.NewMockEmbedder(), repos.Vectors)
	assert.ErrorIs(t, err, ErrExtractorRequired)

	_, err = NewPipeline(repos.Uploads, blobs, extract.New(nil), nil, repos.Vectors)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(repos.Uploads, blobs, extract.New(nil), mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrIndexRequired)
}

func mustChunker(t *testing.T, opts ...ChunkerOption) *Chunker {
	t.Helper()
	chunker, err := NewChunker(opts...)
	require.NoError(t, err)
	return chunker
}

func mustEmbed(t *testing.T, embedder *mock.MockEmbedder, text string) []float32 {
	t.Helper()
	vec, err := embedder.EmbedText(context.Background(), text)
	require.NoError(t, err)
	return vec
}

var _ vector.Index = (*badgerstore.VectorIndex)(nil)
