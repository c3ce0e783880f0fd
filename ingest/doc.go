// Package ingest provides pipeline orchestration for uploaded documents.
//
// The Pipeline type manages the ingestion workflow for a document, including:
//   - Downloading the raw bytes from the blob store
//   - Extracting text by format
//   - Chunking, embedding, and writing to the vector index
//
// Processing is performed concurrently using a worker pool. Outcomes are
// reported through the upload record's status rather than return values:
// Submit queues work and returns immediately.
package ingest
