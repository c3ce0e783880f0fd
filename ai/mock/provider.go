package mock

import "github.com/luminai/askdocs/ai"

// MockProvider is a test double for ai.Provider aggregating the mock services.
type MockProvider struct {
	embedder    *MockEmbedder
	completer   *MockCompleter
	transcriber *MockTranscriber
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider backed by default mock services.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder:    NewMockEmbedder(),
		completer:   NewMockCompleter(),
		transcriber: NewMockTranscriber(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Completer returns the mock answer generation service.
func (p *MockProvider) Completer() ai.Completer {
	return p.completer
}

// Transcriber returns the mock speech-to-text service.
func (p *MockProvider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockCompleter returns the concrete mock completer for test assertions.
func (p *MockProvider) GetMockCompleter() *MockCompleter {
	return p.completer
}

// GetMockTranscriber returns the concrete mock transcriber for test assertions.
func (p *MockProvider) GetMockTranscriber() *MockTranscriber {
	return p.transcriber
}
