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


package core

import "fmt"

// ValidateUploadRecord validates an UploadRecord according to domain rules.
//
// Validation rules:
//   - StorageKey must not be empty
//   - Status must be a known value
//
// NOT validated (populated by the pipeline):
//   - Error (set only on failure)
//   - ChunksProcessed (set only on completion)
//   - ID (0 is valid from database sequences)
func ValidateUploadRecord(record *UploadRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidUploadRecord)
	}

	if record.StorageKey == "" {
		return fmt.Errorf("%w: %w", ErrInvalidUploadRecord, ErrEmptyStorageKey)
	}

	if err := ValidateStatus(record.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUploadRecord, err)
	}

	return nil
}

// ValidateExchange validates an Exchange according to domain rules.
//
// Validation rules:
//   - Query must not be empty
//   - Owner must not be empty
func ValidateExchange(exchange *Exchange) error {
	if exchange == nil {
		return fmt.Errorf("%w: exchange is nil", ErrInvalidExchange)
	}

	if exchange.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExchange, ErrEmptyQuery)
	}

	if exchange.Owner == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExchange, ErrEmptyOwner)
	}

	return nil
}

// ValidateStatus validates that a Status has a known value.
func ValidateStatus(status Status) error {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: value %q", ErrInvalidStatus, string(status))
	}
}
