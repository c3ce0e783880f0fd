package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
//
// The same embedder (model and dimension) must be used for ingestion and
// querying: vectors from different models share no similarity space.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates answers from a generative chat model.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends a system persona and a user prompt to the model and
	// returns the generated reply. maxTokens bounds the reply length and
	// temperature controls sampling.
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

// Transcriber converts spoken audio into text.
// Implementations must be thread-safe for concurrent use.
type Transcriber interface {
	// Transcribe runs speech-to-text over the audio file at the given path
	// and returns the full transcript.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages the Embedder, Completer and
// Transcriber instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the answer generation service.
	Completer() Completer

	// Transcriber returns the speech-to-text service.
	Transcriber() Transcriber

	// Close releases resources held by the provider and its services.
	Close() error
}
