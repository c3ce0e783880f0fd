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


// Package storage defines the repository interfaces behind which all
// persistence lives, plus the binary serialization for stored records.
//
// Three repositories cover the domain:
//
//   - UploadRepository: upload records and their status machine
//     (pending -> processing -> completed | failed, monotonic)
//   - ChatRepository: chat sessions and query/answer exchanges
//   - UsageRepository: monthly prompt counters for quota enforcement
//
// The vector index sits behind the separate vector.Index interface;
// the badger subpackage implements both over the same database.
//
// Public constructors in implementation packages return these
// interfaces so backends stay swappable; tests use the in-memory
// variant from storage/badger's testing helper. Implementations must
// be safe for concurrent use, and every method takes a
// context.Context.
//
// Records are serialized with mus-format/mus-go; the helpers in
// serialization.go wrap the per-type Size/Marshal/Unmarshal functions
// from core and surface ErrSerializationFailed and ErrTruncatedData
// on malformed input.
package storage
