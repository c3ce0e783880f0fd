// Package blob defines the gateway to the store holding raw uploaded files.
//
// Two implementations exist: blob/minio for S3-compatible object storage in
// production, and blob/fsstore, a directory-backed store used by tests and
// local single-node runs.
package blob
