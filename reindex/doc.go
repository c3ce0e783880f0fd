// Package reindex provides functionality for re-embedding the stored chunk
// index with a new or updated embedding model.
//
// This package supports batch processing of vector records, progress
// tracking, retry logic with exponential backoff, and vector normalization to
// keep cosine similarity search exact.
package reindex
