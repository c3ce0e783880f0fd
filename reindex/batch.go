package reindex

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/luminai/askdocs/ai"
	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/vector"
)

// BatchProcessor re-embeds batches of vector records and writes them back.
type BatchProcessor struct {
	index          vector.Index
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(index vector.Index, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		index:          index,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process re-embeds a batch of records and upserts them under their existing
// ids. Vectors are normalized after embedding so cosine scoring stays exact.
func (bp *BatchProcessor) Process(ctx context.Context, records []core.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	for i := range records {
		records[i].Vector = normalize(embeddings[i])
	}

	if _, err := bp.index.Upsert(ctx, records); err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}
	return nil
}

// normalize scales v to unit length so cosine scoring stays exact.
// A zero vector has no direction and comes back as all zeros.
func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}

	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	mag := float32(math.Sqrt(sum))
	for i, val := range v {
		out[i] = val / mag
	}
	return out
}
