package query

import "errors"

var (
	// ErrQuotaExceeded indicates the caller spent their monthly prompt budget.
	ErrQuotaExceeded = errors.New("prompt quota exceeded")

	// ErrNotSessionOwner indicates the referenced session belongs to someone else.
	ErrNotSessionOwner = errors.New("not the session owner")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrChatRepositoryRequired is returned when a chat repository is not provided.
	ErrChatRepositoryRequired = errors.New("chat repository required")

	// ErrGateRequired is returned when a quota gate is not provided.
	ErrGateRequired = errors.New("quota gate required")
)
