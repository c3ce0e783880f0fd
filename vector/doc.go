// Package vector defines the similarity index abstraction the ingestion and
// query paths share. A single implementation backed by badger lives in
// storage/badger; the interface keeps the rest of the system oblivious to
// where vectors land.
package vector
