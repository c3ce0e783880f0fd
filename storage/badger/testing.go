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


package badger

import "github.com/luminai/askdocs/storage"

// MemoryRepositories bundles every repository over one in-memory backend.
// Intended for tests; Close releases everything including the database.
type MemoryRepositories struct {
	Uploads storage.UploadRepository
	Chat    storage.ChatRepository
	Usage   storage.UsageRepository
	Vectors *VectorIndex
	Backend *Backend
}

// Close releases all repositories and the backing database.
func (m *MemoryRepositories) Close() error {
	m.Uploads.Close()
	m.Chat.Close()
	m.Usage.Close()
	m.Vectors.Close()
	return m.Backend.Close()
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must Close the result when done.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	uploads, err := NewUploadRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chat, err := NewChatRepository(backend)
	if err != nil {
		uploads.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Uploads: uploads,
		Chat:    chat,
		Usage:   NewUsageRepository(backend),
		Vectors: NewVectorIndex(backend),
		Backend: backend,
	}, nil
}
