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


// Package ai provides abstractions for the AI services used in askdocs.
//
// This package defines interfaces for text embeddings, answer generation and
// speech-to-text transcription. The ingestion pipeline and the query composer
// depend on these abstractions rather than concrete implementations, so the
// whole pipeline can be tested with substitutable fakes.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Completer: generates answers from a chat model
//   - Transcriber: converts audio to text
//   - Provider: aggregates the three for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, ...) return
// interface types to enforce abstraction. The mock constructors return
// concrete types so tests can inject behavior and assert call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithToken(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Hello world")
package ai
