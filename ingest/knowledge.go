package ingest

import "context"

// KnowledgeSurface is an optional downstream consumer of ingested text, such
// as a hosted agent knowledge base. Updates are best-effort: the pipeline
// logs failures and moves on, a document is never failed over them.
type KnowledgeSurface interface {
	// AttachDocument pushes the extracted text of a completed document.
	AttachDocument(ctx context.Context, name, text string) error
}
