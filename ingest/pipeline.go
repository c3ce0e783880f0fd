package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/luminai/askdocs/ai"
	"github.com/luminai/askdocs/blob"
	"github.com/luminai/askdocs/core"
	"github.com/luminai/askdocs/extract"
	"github.com/luminai/askdocs/storage"
	"github.com/luminai/askdocs/vector"
)

const (
	// DefaultProcessTimeout bounds one document's whole pipeline run.
	DefaultProcessTimeout = 10 * time.Minute
	// DefaultCallTimeout bounds a single external call within a run.
	DefaultCallTimeout = 60 * time.Second
)

// Pipeline orchestrates the ingestion of uploaded documents: download,
// extract, chunk, embed, index. Work runs asynchronously on a worker pool;
// the upload record's status is the only progress surface callers see.
type Pipeline struct {
	uploads        storage.UploadRepository
	blobs          blob.Store
	extractor      *extract.Extractor
	embedder       ai.Embedder
	index          vector.Index
	chunker        *Chunker
	knowledge      KnowledgeSurface
	pool           *ants.Pool
	embeddingDim   int
	processTimeout time.Duration
	callTimeout    time.Duration
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunker sets a custom chunker. Default is NewChunker defaults.
func WithChunker(chunker *Chunker) Option {
	return func(p *Pipeline) error {
		if chunker == nil {
			return ErrInvalidChunkConfig
		}
		p.chunker = chunker
		return nil
	}
}

// WithKnowledgeSurface attaches an optional downstream knowledge consumer.
func WithKnowledgeSurface(surface KnowledgeSurface) Option {
	return func(p *Pipeline) error {
		p.knowledge = surface
		return nil
	}
}

// WithEmbeddingDim sets the vector dimension used when ensuring the index.
// Default is 1536.
func WithEmbeddingDim(dim int) Option {
	return func(p *Pipeline) error {
		p.embeddingDim = dim
		return nil
	}
}

// WithTimeouts overrides the per-run and per-call timeouts.
func WithTimeouts(process, call time.Duration) Option {
	return func(p *Pipeline) error {
		if process > 0 {
			p.processTimeout = process
		}
		if call > 0 {
			p.callTimeout = call
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	uploads storage.UploadRepository,
	blobs blob.Store,
	extractor *extract.Extractor,
	embedder ai.Embedder,
	index vector.Index,
	opts ...Option,
) (*Pipeline, error) {
	if uploads == nil {
		return nil, ErrUploadRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	chunker, err := NewChunker()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		uploads:        uploads,
		blobs:          blobs,
		extractor:      extractor,
		embedder:       embedder,
		index:          index,
		chunker:        chunker,
		pool:           pool,
		embeddingDim:   1536,
		processTimeout: DefaultProcessTimeout,
		callTimeout:    DefaultCallTimeout,
		logger:         slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Submit schedules a document for asynchronous processing. It returns once
// the work is queued; processing errors land on the upload record, not here.
func (p *Pipeline) Submit(id core.ID) error {
	return p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.processTimeout)
		defer cancel()
		if err := p.Process(ctx, id); err != nil {
			p.logger.Error("document processing failed", "id", id, "err", err)
		}
	})
}

// Process runs the full pipeline for one document synchronously. Exactly one
// caller wins the pending->processing claim; everyone else returns an
// invalid-transition error, which makes redelivery harmless.
func (p *Pipeline) Process(ctx context.Context, id core.ID) (err error) {
	record, err := p.uploads.MarkProcessing(ctx, id)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("document processing panicked: %v", r)
			p.fail(record.Id, err.Error())
		}
	}()

	text, err := p.extractText(ctx, record)
	if err != nil {
		p.fail(record.Id, err.Error())
		return err
	}

	chunks := p.chunker.Chunk(core.Document{Text: text, Source: record.StorageKey})
	if len(chunks) == 0 {
		p.fail(record.Id, ErrNoText.Error())
		return ErrNoText
	}

	embedded, err := p.embedChunks(ctx, chunks)
	if err != nil {
		p.fail(record.Id, err.Error())
		return err
	}

	stored, err := p.indexChunks(ctx, record, embedded)
	if err != nil {
		p.fail(record.Id, err.Error())
		return err
	}

	// Knowledge enrichment runs before the record goes terminal; it is
	// best-effort and cannot fail the document.
	p.updateKnowledge(ctx, record, text)

	if _, err := p.uploads.SetStatus(ctx, record.Id, core.StatusCompleted, "", stored); err != nil {
		return err
	}
	p.logger.Info("document processed", "id", record.Id, "name", record.OriginalName, "chunks", stored)
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// extractText downloads the raw bytes and runs format extraction.
func (p *Pipeline) extractText(ctx context.Context, record *core.UploadRecord) (string, error) {
	downloadCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	path, err := p.blobs.Download(downloadCtx, record.StorageKey)
	cancel()
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", record.StorageKey, err)
	}
	defer os.Remove(path)

	docs, err := p.extractor.Extract(ctx, path, record.StorageKey)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", record.StorageKey, err)
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) != "" {
			parts = append(parts, doc.Text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoText
	}
	return strings.Join(parts, "\n\n"), nil
}

// embedChunks embeds the chunk batch, falling back to per-chunk embedding so
// one bad chunk doesn't sink the document. Zero survivors is a failure.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []core.Chunk) ([]core.EmbeddedChunk, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	batchCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	vectors, err := p.embedder.EmbedTexts(batchCtx, texts)
	cancel()
	if err == nil && len(vectors) == len(chunks) {
		embedded := make([]core.EmbeddedChunk, len(chunks))
		for i, chunk := range chunks {
			embedded[i] = core.EmbeddedChunk{Chunk: chunk, Vector: vectors[i]}
		}
		return embedded, nil
	}
	if err != nil {
		p.logger.Warn("batch embedding failed, retrying per chunk", "chunks", len(chunks), "err", err)
	}

	var embedded []core.EmbeddedChunk
	for _, chunk := range chunks {
		chunkCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
		vec, err := p.embedder.EmbedText(chunkCtx, chunk.Text)
		cancel()
		if err != nil {
			p.logger.Warn("chunk embedding failed", "source", chunk.Source, "ordinal", chunk.Ordinal, "err", err)
			continue
		}
		embedded = append(embedded, core.EmbeddedChunk{Chunk: chunk, Vector: vec})
	}
	if len(embedded) == 0 {
		return nil, ErrNoChunksEmbedded
	}
	return embedded, nil
}

// indexChunks writes embedded chunks to the vector index. Record ids are
// storage key plus chunk ordinal, so re-processing the same document
// overwrites instead of duplicating.
func (p *Pipeline) indexChunks(ctx context.Context, record *core.UploadRecord, embedded []core.EmbeddedChunk) (int, error) {
	if err := p.index.Ensure(ctx, p.embeddingDim, vector.MetricCosine); err != nil {
		return 0, fmt.Errorf("ensuring index: %w", err)
	}

	records := make([]core.VectorRecord, len(embedded))
	for i, chunk := range embedded {
		records[i] = core.VectorRecord{
			Id:     fmt.Sprintf("%s-%d", record.StorageKey, chunk.Ordinal),
			Vector: chunk.Vector,
			Text:   chunk.Text,
			Source: record.StorageKey,
		}
	}

	stored, err := p.index.Upsert(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("indexing chunks: %w", err)
	}
	return stored, nil
}

// updateKnowledge pushes the text to the optional knowledge surface.
func (p *Pipeline) updateKnowledge(ctx context.Context, record *core.UploadRecord, text string) {
	if p.knowledge == nil {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()
	if err := p.knowledge.AttachDocument(callCtx, record.OriginalName, text); err != nil {
		p.logger.Warn("knowledge surface update failed", "id", record.Id, "err", err)
	}
}

// fail marks the record failed, logging if even that doesn't stick.
func (p *Pipeline) fail(id core.ID, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.callTimeout)
	defer cancel()
	if _, err := p.uploads.SetStatus(ctx, id, core.StatusFailed, msg, 0); err != nil {
		p.logger.Error("could not mark document failed", "id", id, "err", err)
	}
}
