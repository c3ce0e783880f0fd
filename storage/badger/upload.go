package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/storage"
)

// UploadRepository implements storage.UploadRepository for BadgerDB.
type UploadRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.UploadRepository = (*UploadRepository)(nil)

// NewUploadRepository creates a new UploadRepository.
func NewUploadRepository(backend *Backend) (*UploadRepository, error) {
	idSeq, err := backend.GetSequence(uploadRecordIDSeq)
	if err != nil {
		return nil, err
	}

	return &UploadRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *UploadRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *UploadRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateUpload stores a new upload record.
func (r *UploadRepository) CreateUpload(ctx context.Context, record *core.UploadRecord) (*core.UploadRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if record.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			record.Id = core.ID(nextID)
		}

		if record.Status == "" {
			record.Status = core.StatusPending
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}
		record.UpdatedAt = record.CreatedAt

		if err := core.ValidateUploadRecord(record); err != nil {
			return err
		}

		key := makeUploadKey(record.Id)
		if err := tx.Set(key, storage.MarshalUploadRecord(record)); err != nil {
			return err
		}

		dateKey := makeUploadDateKey(record.CreatedAt, record.Id)
		if err := tx.Set(dateKey, storage.MarshalID(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return record, err
}

// GetUpload retrieves a single upload record by ID.
func (r *UploadRepository) GetUpload(ctx context.Context, id core.ID) (*core.UploadRecord, error) {
	var result *core.UploadRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readUploadRecord(tx, makeUploadKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListUploads retrieves upload records, most recently created first.
func (r *UploadRepository) ListUploads(ctx context.Context, limit int) ([]*core.UploadRecord, error) {
	var results []*core.UploadRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible date key, then walk backwards.
		startKey := makePartialUploadDateKey(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC))
		prefix := []byte(uploadRecordDatePrefix + ":")

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}
			if limit > 0 && len(results) >= limit {
				break
			}

			var recordID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				recordID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := readUploadRecord(tx, makeUploadKey(recordID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// SetStatus transitions an upload record to the given status.
func (r *UploadRepository) SetStatus(ctx context.Context, id core.ID, next core.Status, errMsg string, chunks int) (*core.UploadRecord, error) {
	if err := core.ValidateStatus(next); err != nil {
		return nil, err
	}

	var result *core.UploadRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeUploadKey(id)
		record, err := readUploadRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		if !record.Status.CanTransition(next) {
			return fmt.Errorf("%w: %s -> %s", storage.ErrInvalidTransition, record.Status, next)
		}

		record.Status = next
		record.UpdatedAt = time.Now().UTC()
		switch next {
		case core.StatusFailed:
			record.Error = errMsg
		case core.StatusCompleted:
			record.ChunksProcessed = chunks
		}

		if err := tx.Set(key, storage.MarshalUploadRecord(record)); err != nil {
			return err
		}
		result = record
		return tx.Commit()
	}, true)

	return result, err
}

// MarkProcessing atomically transitions a pending record to processing.
func (r *UploadRepository) MarkProcessing(ctx context.Context, id core.ID) (*core.UploadRecord, error) {
	return r.SetStatus(ctx, id, core.StatusProcessing, "", 0)
}

// readUploadRecord reads an upload record from the transaction.
func readUploadRecord(tx *badger.Txn, key []byte) (*core.UploadRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.UploadRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalUploadRecord(val)
		return unmarshalErr
	})
	return record, err
}
