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


package askdocs

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/luminai/askdocs/ai"
	"github.com/luminai/askdocs/ai/openai"
	"github.com/luminai/askdocs/blob"
	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/extract"
	"github.com/luminai/askdocs/ingest"
	"github.com/luminai/askdocs/query"
	"github.com/luminai/askdocs/reindex"
	"github.com/luminai/askdocs/storage"
	"github.com/luminai/askdocs/storage/badger"
)

// Service wires storage, blob store, AI provider, ingestion pipeline, and
// query composer into one document question-answering system.
type Service struct {
	backend  *badger.Backend
	uploads  storage.UploadRepository
	chat     storage.ChatRepository
	usage    storage.UsageRepository
	index    *badger.VectorIndex
	blobs    blob.Store
	provider ai.Provider
	pipeline *ingest.Pipeline
	composer *query.Composer
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig     *ai.Config
	provider     ai.Provider
	knowledge    ingest.KnowledgeSurface
	pipelineOpts []ingest.Option
	composerOpts []query.ComposerOption
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing WithAIConfig.
func WithProvider(provider ai.Provider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithKnowledgeSurface attaches an optional downstream knowledge consumer.
func WithKnowledgeSurface(surface ingest.KnowledgeSurface) ServiceOption {
	return func(o *serviceOptions) {
		o.knowledge = surface
	}
}

// WithPipelineOptions passes options through to the ingestion pipeline.
func WithPipelineOptions(opts ...ingest.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
	}
}

// WithComposerOptions passes options through to the query composer.
func WithComposerOptions(opts ...query.ComposerOption) ServiceOption {
	return func(o *serviceOptions) {
		o.composerOpts = append(o.composerOpts, opts...)
	}
}

// NewService opens the database at filePath and assembles the system around
// it. The blob store holds raw uploads; pass an fsstore for local use or a
// minio store for object storage.
func NewService(filePath string, blobs blob.Store, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}
	return newService(backend, blobs, options)
}

// NewMemoryService assembles the system over an in-memory database.
// Intended for tests and experimentation.
func NewMemoryService(blobs blob.Store, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return newService(backend, blobs, options)
}

func newService(backend *badger.Backend, blobs blob.Store, options *serviceOptions) (*Service, error) {
	uploads, err := badger.NewUploadRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chat, err := badger.NewChatRepository(backend)
	if err != nil {
		uploads.Close()
		backend.Close()
		return nil, err
	}

	usage := badger.NewUsageRepository(backend)
	index := badger.NewVectorIndex(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			chat.Close()
			uploads.Close()
			backend.Close()
			return nil, err
		}
	}

	extractor := extract.New(provider.Transcriber())

	pipelineOpts := options.pipelineOpts
	if options.knowledge != nil {
		pipelineOpts = append(pipelineOpts, ingest.WithKnowledgeSurface(options.knowledge))
	}
	pipeline, err := ingest.NewPipeline(uploads, blobs, extractor, provider.Embedder(), index, pipelineOpts...)
	if err != nil {
		provider.Close()
		chat.Close()
		uploads.Close()
		backend.Close()
		return nil, err
	}

	composer, err := query.NewComposer(provider.Embedder(), provider.Completer(), index, chat,
		query.NewPlanGate(usage), options.composerOpts...)
	if err != nil {
		pipeline.Release()
		provider.Close()
		chat.Close()
		uploads.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:  backend,
		uploads:  uploads,
		chat:     chat,
		usage:    usage,
		index:    index,
		blobs:    blobs,
		provider: provider,
		pipeline: pipeline,
		composer: composer,
		logger:   slog.Default(),
	}, nil
}

// Close releases the pipeline, AI provider, repositories, and database.
func (s *Service) Close() error {
	s.pipeline.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.chat.Close(); err != nil {
		s.logger.Error("error closing chat repository", "err", err)
		return err
	}
	if err := s.uploads.Close(); err != nil {
		s.logger.Error("error closing upload repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// IngestFile accepts a document for asynchronous processing: the bytes go to
// the blob store, a pending upload record is created, and the pipeline is
// handed the record. The returned record is in status pending; poll Status
// for the outcome.
func (s *Service) IngestFile(ctx context.Context, identity core.Identity, name string, r io.Reader, size int64, category string) (*core.UploadRecord, error) {
	key := blob.MakeStorageKey(name)

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := s.blobs.Upload(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}

	record, err := s.uploads.CreateUpload(ctx, &core.UploadRecord{
		OwnerRole:    identity.Role,
		OriginalName: name,
		StorageKey:   key,
		Category:     category,
	})
	if err != nil {
		return nil, err
	}

	if err := s.pipeline.Submit(record.Id); err != nil {
		return nil, err
	}
	return record, nil
}

// Process runs the ingestion pipeline synchronously for one record.
func (s *Service) Process(ctx context.Context, id core.ID) error {
	return s.pipeline.Process(ctx, id)
}

// Status returns the upload record for a document.
func (s *Service) Status(ctx context.Context, id core.ID) (*core.UploadRecord, error) {
	return s.uploads.GetUpload(ctx, id)
}

// Uploads lists upload records, most recent first. limit <= 0 means all.
func (s *Service) Uploads(ctx context.Context, limit int) ([]*core.UploadRecord, error) {
	return s.uploads.ListUploads(ctx, limit)
}

// Ask answers a question over the ingested corpus. A zero sessionID starts a
// new session; the returned session id carries the conversation forward.
func (s *Service) Ask(ctx context.Context, identity core.Identity, question string, sessionID core.ID) (string, core.ID, error) {
	return s.composer.Answer(ctx, identity, question, sessionID)
}

// History returns the caller's exchanges for a session, oldest first.
func (s *Service) History(ctx context.Context, identity core.Identity, sessionID core.ID) ([]*core.Exchange, error) {
	return s.composer.History(ctx, identity, sessionID)
}

// PresignUpload returns a time-limited download URL for a stored document.
func (s *Service) PresignUpload(ctx context.Context, id core.ID, ttl time.Duration) (string, error) {
	record, err := s.uploads.GetUpload(ctx, id)
	if err != nil {
		return "", err
	}
	return s.blobs.Presign(ctx, record.StorageKey, ttl)
}

// NewReindexer builds a reindexer over the service's vector index.
// progress: where to write progress output (typically os.Stderr)
func (s *Service) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(s.index, s.index, s.provider.Embedder(), config, progress)
}
