package badger

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/luminai/askdocs/storage"
)

// UsageRepository implements storage.UsageRepository for BadgerDB.
// Counters are stored as fixed-width BigEndian uint64 values under a
// subject+month key, so a month rollover starts a fresh counter without
// any reset step.
type UsageRepository struct {
	backend *Backend
}

var _ storage.UsageRepository = (*UsageRepository)(nil)

// NewUsageRepository creates a new UsageRepository.
func NewUsageRepository(backend *Backend) *UsageRepository {
	return &UsageRepository{
		backend: backend,
	}
}

// Close is a no-op; the repository holds no sequences.
func (r *UsageRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *UsageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// IncrementPrompts adds one to the caller's counter for the month containing at.
func (r *UsageRepository) IncrementPrompts(ctx context.Context, subject string, at time.Time) (int, error) {
	var count uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUsageKey(subject, at)
		current, err := readCounter(tx, key)
		if err != nil {
			return err
		}
		count = current + 1

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, count)
		if err := tx.Set(key, buf); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return int(count), err
}

// GetPrompts returns the caller's counter for the month containing at.
func (r *UsageRepository) GetPrompts(ctx context.Context, subject string, at time.Time) (int, error) {
	var count uint64
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		count, err = readCounter(tx, makeUsageKey(subject, at))
		return err
	}, false)
	return int(count), err
}

// readCounter reads a counter value, treating a missing key as zero.
func readCounter(tx *badger.Txn, key []byte) (uint64, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var count uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return storage.ErrTruncatedData
		}
		count = binary.BigEndian.Uint64(val)
		return nil
	})
	return count, err
}
