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

import "errors"

// Domain validation errors
var (
	// ErrInvalidUploadRecord indicates an UploadRecord failed validation.
	ErrInvalidUploadRecord = errors.New("invalid upload record")

	// ErrInvalidExchange indicates an Exchange failed validation.
	ErrInvalidExchange = errors.New("invalid exchange")

	// ErrInvalidStatus indicates an unknown status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition indicates a status transition that would move
	// a record backward or out of a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEmptyStorageKey indicates the StorageKey field is empty.
	ErrEmptyStorageKey = errors.New("storage key cannot be empty")

	// ErrEmptyQuery indicates the Query field is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyOwner indicates an owner identity is empty.
	ErrEmptyOwner = errors.New("owner cannot be empty")
)
