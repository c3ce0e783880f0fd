package vector

import (
	"context"
	"errors"

	"github.com/luminai/askdocs/core"
)

// MetricCosine is the similarity metric the pipeline creates indexes with.
const MetricCosine = "cosine"

var (
	// ErrDimensionMismatch indicates the index exists with a different
	// vector dimension than requested.
	ErrDimensionMismatch = errors.New("index dimension mismatch")

	// ErrIndexNotReady indicates the index was queried before Ensure.
	ErrIndexNotReady = errors.New("index not initialized")
)

// Match is one similarity-search hit, highest score first.
type Match struct {
	Id     string
	Score  float32
	Text   string
	Source string
}

// Index is a similarity-searchable store of embedded chunks.
// Implementations must tolerate concurrent writers; upserts are keyed by the
// caller-chosen record id, so concurrent ingestions never collide unless ids
// are deliberately reused.
type Index interface {
	// Ensure creates the index with the given dimension and metric if it
	// does not exist. Idempotent: safe to call before every write.
	Ensure(ctx context.Context, dim int, metric string) error

	// Upsert writes the records, replacing any with the same id. An empty
	// input is a no-op. Partial success across the batch is acceptable: the
	// returned count is how many records were actually stored, and a non-nil
	// error accompanies any shortfall.
	Upsert(ctx context.Context, records []core.VectorRecord) (int, error)

	// Query returns the topK nearest records by the index metric, highest
	// score first.
	Query(ctx context.Context, vec []float32, topK int) ([]Match, error)

	// Close releases resources held by the index.
	Close() error
}
