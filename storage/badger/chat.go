package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/storage"
)

// ChatRepository implements storage.ChatRepository for BadgerDB.
type ChatRepository struct {
	backend     *Backend
	sessionSeq  *badger.Sequence
	exchangeSeq *badger.Sequence
}

var _ storage.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(backend *Backend) (*ChatRepository, error) {
	sessionSeq, err := backend.GetSequence(sessionIDSeq)
	if err != nil {
		return nil, err
	}
	exchangeSeq, err := backend.GetSequence(exchangeIDSeq)
	if err != nil {
		sessionSeq.Release()
		return nil, err
	}

	return &ChatRepository{
		backend:     backend,
		sessionSeq:  sessionSeq,
		exchangeSeq: exchangeSeq,
	}, nil
}

// Close releases the ID sequences.
func (r *ChatRepository) Close() error {
	err := r.sessionSeq.Release()
	if releaseErr := r.exchangeSeq.Release(); err == nil {
		err = releaseErr
	}
	return err
}

// WithTransaction delegates to the backend.
func (r *ChatRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateSession stores a new chat session for the given owner.
func (r *ChatRepository) CreateSession(ctx context.Context, owner string) (*core.ChatSession, error) {
	if owner == "" {
		return nil, core.ErrEmptyOwner
	}

	session := &core.ChatSession{
		Owner:     owner,
		CreatedAt: time.Now().UTC(),
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		nextID, err := r.sessionSeq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextID == 0 {
			nextID, err = r.sessionSeq.Next()
			if err != nil {
				return err
			}
		}
		session.Id = core.ID(nextID)

		key := makeSessionKey(session.Id)
		if err := tx.Set(key, storage.MarshalChatSession(session)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return session, err
}

// GetSession retrieves a single session by ID.
func (r *ChatRepository) GetSession(ctx context.Context, id core.ID) (*core.ChatSession, error) {
	var result *core.ChatSession
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSession(tx, makeSessionKey(id))
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

// AddExchange appends a query/answer exchange to its session.
func (r *ChatRepository) AddExchange(ctx context.Context, exchange *core.Exchange) (*core.Exchange, error) {
	if err := core.ValidateExchange(exchange); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := readSession(tx, makeSessionKey(exchange.SessionId))
		if err != nil {
			return err
		}
		if session == nil {
			return storage.ErrNotFound
		}

		nextID, err := r.exchangeSeq.Next()
		if err != nil {
			return err
		}
		if nextID == 0 {
			nextID, err = r.exchangeSeq.Next()
			if err != nil {
				return err
			}
		}
		exchange.Id = core.ID(nextID)
		if exchange.CreatedAt.IsZero() {
			exchange.CreatedAt = time.Now().UTC()
		}

		key := makeExchangeKey(exchange.Id)
		if err := tx.Set(key, storage.MarshalExchange(exchange)); err != nil {
			return err
		}

		// Per-session time index
		sessionKey := makeExchangeSessionKey(exchange.SessionId, exchange.CreatedAt, exchange.Id)
		if err := tx.Set(sessionKey, storage.MarshalID(exchange.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return exchange, err
}

// GetExchanges retrieves the exchanges of a session, oldest first.
func (r *ChatRepository) GetExchanges(ctx context.Context, sessionID core.ID) ([]*core.Exchange, error) {
	var results []*core.Exchange
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		session, err := readSession(tx, makeSessionKey(sessionID))
		if err != nil {
			return err
		}
		if session == nil {
			return storage.ErrNotFound
		}

		startKey := makePartialExchangeSessionKey(sessionID)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if len(key) < len(startKey) || slices.Compare(key[:len(startKey)], startKey) != 0 {
				break
			}

			exchange, err := r.readIndexedExchange(tx, iter.Item())
			if err != nil {
				return err
			}
			if exchange != nil {
				results = append(results, exchange)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetExchangesByDateRange retrieves a session's exchanges within a time range.
func (r *ChatRepository) GetExchangesByDateRange(ctx context.Context, sessionID core.ID, start, end time.Time) ([]*core.Exchange, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Exchange
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makeExchangeSessionTimeKey(sessionID, start)
		endKey := makeExchangeSessionTimeKey(sessionID, end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			exchange, err := r.readIndexedExchange(tx, iter.Item())
			if err != nil {
				return err
			}
			if exchange != nil {
				results = append(results, exchange)
			}
		}
		return nil
	}, false)

	return results, err
}

// readIndexedExchange resolves an index entry to its full exchange record.
func (r *ChatRepository) readIndexedExchange(tx *badger.Txn, item *badger.Item) (*core.Exchange, error) {
	var exchangeID core.ID
	if err := item.Value(func(val []byte) error {
		var err error
		exchangeID, err = storage.UnmarshalID(val)
		return err
	}); err != nil {
		return nil, err
	}

	eItem, err := tx.Get(makeExchangeKey(exchangeID))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var exchange *core.Exchange
	err = eItem.Value(func(val []byte) error {
		var unmarshalErr error
		exchange, unmarshalErr = storage.UnmarshalExchange(val)
		return unmarshalErr
	})
	return exchange, err
}

// readSession reads a chat session from the transaction.
func readSession(tx *badger.Txn, key []byte) (*core.ChatSession, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var session *core.ChatSession
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		session, unmarshalErr = storage.UnmarshalChatSession(val)
		return unmarshalErr
	})
	return session, err
}
