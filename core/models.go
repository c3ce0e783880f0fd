package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for persisted domain entities.
// It is generated from database sequences or content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces the same ID, which is what makes vector
// upserts idempotent.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Status is the lifecycle state of an upload record.
// Transitions are monotonic: pending -> processing -> completed|failed.
type Status string

const (
	// StatusPending is set when a record is created, before any stage runs.
	StatusPending Status = "pending"
	// StatusProcessing is set immediately before pipeline stages begin.
	StatusProcessing Status = "processing"
	// StatusCompleted is a terminal state: all stages succeeded.
	StatusCompleted Status = "completed"
	// StatusFailed is a terminal state: a stage failed or nothing was extractable.
	StatusFailed Status = "failed"
)

// Terminal reports whether the status is a terminal state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a transition from s to next is allowed.
// Terminal states accept no further transitions, and a record never
// moves backward.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// UploadRecord tracks one submitted document through the ingestion pipeline.
// It is created when a file is accepted for upload and mutated only by the
// pipeline that owns it.
type UploadRecord struct {
	Id              ID
	OwnerRole       string
	OriginalName    string
	StorageKey      string // blob store key the raw bytes live under
	Category        string // optional free-form tag
	Status          Status
	Error           string // populated when Status is failed
	ChunksProcessed int    // populated when Status is completed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Document is one extracted block of text with its source reference.
// Documents are ephemeral: they exist only between extraction and chunking.
type Document struct {
	Text   string
	Source string // blob store key the text came from
}

// Chunk is a bounded-length slice of extracted text, the unit of embedding.
type Chunk struct {
	Text    string
	Source  string
	Ordinal int // position within the source document
}

// EmbeddedChunk is a chunk plus its embedding vector.
type EmbeddedChunk struct {
	Chunk
	Vector []float32
}

// VectorRecord is the persisted form of an embedded chunk in the vector index.
// Records are immutable after upsert except via re-ingestion or reindexing.
type VectorRecord struct {
	Id     string // caller-chosen, unique within the index (source key + ordinal)
	Vector []float32
	Text   string
	Source string
}

// ChatSession groups a sequence of query exchanges for one owner.
// Created lazily on the first query without a session reference.
type ChatSession struct {
	Id        ID
	Owner     string
	CreatedAt time.Time
}

// Exchange is one query/answer pair recorded against a session.
// Exchanges are append-only, ordered by creation time.
type Exchange struct {
	Id        ID
	SessionId ID
	Owner     string
	Query     string
	Answer    string
	CreatedAt time.Time
}

// Identity describes the caller of a query or upload.
// PlanType is the authoritative quota dimension; Role only grants the
// admin bypass.
type Identity struct {
	Subject      string // stable caller identifier
	Role         string // "admin" bypasses quota checks
	PlanType     string // "freebie" or "premium"
	ExtraPrompts int    // purchased top-up prompts
}
