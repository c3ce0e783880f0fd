// Copyright 2025 Luminai Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/luminai/askdocs/ai"
	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/vector"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer re-embeds every stored chunk with the configured embedder. Run it
// after an embedding model change; record ids are stable, so the index is
// rewritten in place.
type Reindexer struct {
	source    RecordSource
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReindexer creates a new reindexer. The index must satisfy RecordSource
// as well as vector.Index.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(index vector.Index, source RecordSource, embedder ai.Embedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		source:    source,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(index, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run executes the reindexing operation.
// The record set is enumerated once up front and every chunk in that
// snapshot is re-embedded with the configured embedder.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	all, err := r.source.ListRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate records: %w", err)
	}

	total := len(all)
	if total == 0 {
		fmt.Fprintf(r.progress, "No chunks found in index (0 records)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = NewRecordIterator(all, r.config.BatchSize).ForEach(ctx, func(records []core.VectorRecord) error {
		if err := r.processor.Process(ctx, records); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(records)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
