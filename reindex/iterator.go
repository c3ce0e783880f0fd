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

	"github.com/luminai/askdocs/core"
)

// DefaultBatchSize is how many records each batch carries when the
// configured size is unusable.
const DefaultBatchSize = 100

// RecordSource enumerates the stored vector records of an index.
// *badger.VectorIndex satisfies it.
type RecordSource interface {
	ListRecords(ctx context.Context) ([]core.VectorRecord, error)
}

// RecordIterator walks one snapshot of vector records in fixed-size
// batches. The snapshot is taken by the caller, so the record set
// cannot shift underneath a run.
type RecordIterator struct {
	records   []core.VectorRecord
	batchSize int
}

// NewRecordIterator wraps a record snapshot for batched iteration.
func NewRecordIterator(records []core.VectorRecord, batchSize int) *RecordIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &RecordIterator{records: records, batchSize: batchSize}
}

// ForEach calls fn once per batch, stopping on the first error. The
// context is checked between batches.
func (it *RecordIterator) ForEach(ctx context.Context, fn func([]core.VectorRecord) error) error {
	for i := 0; i < len(it.records); i += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := i + it.batchSize
		if end > len(it.records) {
			end = len(it.records)
		}
		if err := fn(it.records[i:end]); err != nil {
			return err
		}
	}
	return nil
}
