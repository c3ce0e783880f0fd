package ingest

import "errors"

var (
	// ErrUploadRepositoryRequired is returned when an upload repository is not provided.
	ErrUploadRepositoryRequired = errors.New("upload repository required")

	// ErrBlobStoreRequired is returned when a blob store is not provided.
	ErrBlobStoreRequired = errors.New("blob store required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrInvalidChunkConfig is returned for a non-positive chunk size or an
	// overlap that is negative or not smaller than the chunk size.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrNoText is returned when extraction yields nothing embeddable.
	ErrNoText = errors.New("no text could be extracted")

	// ErrNoChunksEmbedded is returned when every chunk failed to embed.
	ErrNoChunksEmbedded = errors.New("no chunks could be embedded")
)
