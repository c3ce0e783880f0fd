package reindex

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminai/askdocs/ai/mock"
	"github.com/luminai/askdocs/core"
	badgerstore "github.com/luminai/askdocs/storage/badger"
	"github.com/luminai/askdocs/vector"
)

func seedIndex(t *testing.T, index *badgerstore.VectorIndex, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, index.Ensure(ctx, 4, vector.MetricCosine))

	records := make([]core.VectorRecord, n)
	for i := range records {
		records[i] = core.VectorRecord{
			Id:     string(rune('a'+i)) + "-0",
			Vector: []float32{float32(i), 1, 0, 0},
			Text:   "chunk " + string(rune('a'+i)),
			Source: "uploads/doc.txt",
		}
	}
	_, err := index.Upsert(ctx, records)
	require.NoError(t, err)
}

func TestRunReplacesAllStoredVectors(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	seedIndex(t, repos.Vectors, 5)

	embedder := mock.NewMockEmbedder()
	embedder.Dim = 4

	var out bytes.Buffer
	config := &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
	reindexer := NewReindexer(repos.Vectors, repos.Vectors, embedder, config, &out)
	require.NoError(t, reindexer.Run(context.Background()))

	records, err := repos.Vectors.ListRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	// Every vector is unit length after reindexing.
	for _, record := range records {
		var magnitude float32
		for _, v := range record.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 0.001, "record %s", record.Id)
	}

	assert.Contains(t, out.String(), "Reindexing complete")
}

type countingSource struct {
	source RecordSource
	calls  int
}

func (s *countingSource) ListRecords(ctx context.Context) ([]core.VectorRecord, error) {
	s.calls++
	return s.source.ListRecords(ctx)
}

func TestRunEnumeratesRecordsOnce(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	seedIndex(t, repos.Vectors, 5)

	embedder := mock.NewMockEmbedder()
	embedder.Dim = 4
	source := &countingSource{source: repos.Vectors}

	var out bytes.Buffer
	config := &Config{BatchSize: 2, ReportInterval: 1, MaxRetries: 2, RetryDelay: time.Millisecond}
	reindexer := NewReindexer(repos.Vectors, source, embedder, config, &out)
	require.NoError(t, reindexer.Run(context.Background()))

	// One snapshot feeds every batch, however many batches there are.
	assert.Equal(t, 1, source.calls)
}

func TestRunEmptyIndex(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	var out bytes.Buffer
	reindexer := NewReindexer(repos.Vectors, repos.Vectors, mock.NewMockEmbedder(), nil, &out)
	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, out.String(), "No chunks found")
}

func TestRunRetriesThenFails(t *testing.T) {
	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()
	seedIndex(t, repos.Vectors, 3)

	embedder := mock.NewMockEmbedder()
	attempts := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		return nil, errors.New("embedding service down")
	}

	var out bytes.Buffer
	config := &Config{BatchSize: 10, ReportInterval: 1, MaxRetries: 3, RetryDelay: time.Millisecond}
	reindexer := NewReindexer(repos.Vectors, repos.Vectors, embedder, config, &out)

	err = reindexer.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}
