package storage

import (
	"context"
	"time"

	"github.com/luminai/askdocs/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// UploadRepository provides operations for managing upload records.
type UploadRepository interface {
	Repository
	// CreateUpload stores a new upload record. For records with Id=0,
	// generates a new ID from sequence. Sets Status to pending and
	// CreatedAt/UpdatedAt timestamps if not already set.
	// Returns the record with generated fields populated.
	CreateUpload(ctx context.Context, record *core.UploadRecord) (*core.UploadRecord, error)

	// GetUpload retrieves a single upload record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetUpload(ctx context.Context, id core.ID) (*core.UploadRecord, error)

	// ListUploads retrieves all upload records, most recently created first.
	// Returns up to limit records; limit <= 0 means no limit.
	ListUploads(ctx context.Context, limit int) ([]*core.UploadRecord, error)

	// SetStatus transitions an upload record to the given status, updating
	// UpdatedAt. errMsg is stored on the record when next is failed, and
	// chunks when next is completed. Returns ErrNotFound if the record
	// doesn't exist and ErrInvalidTransition if the record's current status
	// does not permit the transition.
	SetStatus(ctx context.Context, id core.ID, next core.Status, errMsg string, chunks int) (*core.UploadRecord, error)

	// MarkProcessing atomically transitions a pending record to processing.
	// This is the claim step: exactly one caller wins for a given record,
	// concurrent claimers get ErrInvalidTransition.
	MarkProcessing(ctx context.Context, id core.ID) (*core.UploadRecord, error)
}

// ChatRepository provides operations for managing chat sessions and
// their query/answer exchanges.
type ChatRepository interface {
	Repository
	// CreateSession stores a new chat session for the given owner,
	// generating its ID from sequence and setting CreatedAt.
	CreateSession(ctx context.Context, owner string) (*core.ChatSession, error)

	// GetSession retrieves a single session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id core.ID) (*core.ChatSession, error)

	// AddExchange appends a query/answer exchange to its session.
	// Generates the exchange ID from sequence and sets CreatedAt if unset.
	// Returns ErrNotFound if the session doesn't exist.
	AddExchange(ctx context.Context, exchange *core.Exchange) (*core.Exchange, error)

	// GetExchanges retrieves the exchanges of a session ordered by creation
	// time, oldest first. Returns ErrNotFound if the session doesn't exist.
	GetExchanges(ctx context.Context, sessionID core.ID) ([]*core.Exchange, error)

	// GetExchangesByDateRange retrieves a session's exchanges within a time
	// range, where start <= CreatedAt < end, ordered by creation time.
	GetExchangesByDateRange(ctx context.Context, sessionID core.ID, start, end time.Time) ([]*core.Exchange, error)
}

// UsageRepository tracks per-caller prompt consumption for quota enforcement.
// Counts are bucketed by calendar month in UTC.
type UsageRepository interface {
	Repository
	// IncrementPrompts adds one to the caller's prompt count for the month
	// containing at, returning the new count.
	IncrementPrompts(ctx context.Context, subject string, at time.Time) (int, error)

	// GetPrompts returns the caller's prompt count for the month containing at.
	// A subject with no recorded usage yields zero without error.
	GetPrompts(ctx context.Context, subject string, at time.Time) (int, error)
}
