package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luminai/askdocs/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder turns text into vectors through an OpenAI-compatible
// embeddings endpoint. Chunk batches and single query strings go
// through the same model so their vectors share a space.
type Embedder struct {
	client embeddings.Embedder
	logger *slog.Logger
}

func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.Token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("creating embedding client: %w", err)
	}

	client, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	return &Embedder{
		client: client,
		logger: slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates an embedder from the provided configuration.
//
// Returns the ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText embeds one string, typically a user query.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		e.logger.Warn("embedding endpoint returned no vectors", "length", len(text))
		return []float32{}, nil
	}
	return vectors[0], nil
}

// EmbedTexts embeds a batch of strings in one API call. The result
// is index-aligned with the input.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	e.logger.Debug("embedding batch", "count", len(texts))

	vectors, err := e.client.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("embedding batch failed", "count", len(texts), "err", err)
		return nil, err
	}
	return vectors, nil
}
