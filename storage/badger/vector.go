package badger

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/storage"
	"github.com/luminai/askdocs/vector"
)

// VectorIndex implements vector.Index on the same BadgerDB database the
// repositories use. Records live under their own key prefix; queries are a
// full prefix scan with similarity scoring, which is plenty for the corpus
// sizes one owner's documents reach.
type VectorIndex struct {
	backend *Backend
}

var _ vector.Index = (*VectorIndex)(nil)

// indexMeta is the persisted index configuration.
type indexMeta struct {
	Dim    int
	Metric string
}

// NewVectorIndex creates a vector index over the given backend.
func NewVectorIndex(backend *Backend) *VectorIndex {
	return &VectorIndex{
		backend: backend,
	}
}

// Close is a no-op; the backend owns the database handle.
func (x *VectorIndex) Close() error {
	return nil
}

// Ensure creates the index metadata if absent; idempotent otherwise.
// Returns ErrDimensionMismatch if it exists with a different dimension.
func (x *VectorIndex) Ensure(ctx context.Context, dim int, metric string) error {
	return x.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readIndexMeta(tx)
		if err != nil {
			return err
		}
		if meta != nil {
			if meta.Dim != dim {
				return fmt.Errorf("%w: have %d, want %d", vector.ErrDimensionMismatch, meta.Dim, dim)
			}
			return nil
		}

		if err := tx.Set(makeVectorMetaKey(), marshalIndexMeta(&indexMeta{Dim: dim, Metric: metric})); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Upsert writes the records, replacing any with the same id.
func (x *VectorIndex) Upsert(ctx context.Context, records []core.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	stored := 0
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readIndexMeta(tx)
		if err != nil {
			return err
		}
		if meta == nil {
			return vector.ErrIndexNotReady
		}

		for i := range records {
			record := &records[i]
			if len(record.Vector) != meta.Dim {
				return fmt.Errorf("%w: record %s has %d dims, index has %d",
					vector.ErrDimensionMismatch, record.Id, len(record.Vector), meta.Dim)
			}
			if err := tx.Set(makeVectorKey(record.Id), storage.MarshalVectorRecord(record)); err != nil {
				return err
			}
			stored++
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return stored, nil
}

// Query returns the topK nearest records, highest score first.
func (x *VectorIndex) Query(ctx context.Context, vec []float32, topK int) ([]vector.Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	var results []vector.Match
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readIndexMeta(tx)
		if err != nil {
			return err
		}
		if meta == nil {
			return vector.ErrIndexNotReady
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.VectorRecord
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalVectorRecord(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			results = append(results, vector.Match{
				Id:     record.Id,
				Score:  cosineSimilarity(vec, record.Vector),
				Text:   record.Text,
				Source: record.Source,
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b vector.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// ListRecords returns every stored vector record. Used by reindexing, which
// needs the chunk texts back to re-embed them.
func (x *VectorIndex) ListRecords(ctx context.Context) ([]core.VectorRecord, error) {
	var records []core.VectorRecord
	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.VectorRecord
			if err := iter.Item().Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalVectorRecord(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			if record != nil {
				records = append(records, *record)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// readIndexMeta reads the index configuration, nil if the index was never
// ensured.
func readIndexMeta(tx *badger.Txn) (*indexMeta, error) {
	item, err := tx.Get(makeVectorMetaKey())
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var meta *indexMeta
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		meta, unmarshalErr = unmarshalIndexMeta(val)
		return unmarshalErr
	})
	return meta, err
}

// marshalIndexMeta encodes the metadata as "dim:metric".
func marshalIndexMeta(meta *indexMeta) []byte {
	return []byte(fmt.Sprintf("%d:%s", meta.Dim, meta.Metric))
}

func unmarshalIndexMeta(data []byte) (*indexMeta, error) {
	var meta indexMeta
	if _, err := fmt.Sscanf(string(data), "%d:%s", &meta.Dim, &meta.Metric); err != nil {
		return nil, fmt.Errorf("%w: index metadata: %w", storage.ErrSerializationFailed, err)
	}
	return &meta, nil
}

// cosineSimilarity scores two vectors in [-1, 1]. Zero-magnitude vectors
// score zero rather than dividing by zero.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
