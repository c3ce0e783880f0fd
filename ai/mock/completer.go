package mock

import "context"

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns the canned Answer.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)

	// Answer is the canned reply returned when CompleteFunc is nil.
	Answer string

	callCount        int
	lastSystemPrompt string
	lastUserPrompt   string
}

// NewMockCompleter creates a mock completer with a canned default answer.
// Note: returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Answer: "mock answer"}
}

// Complete records the prompts and returns the injected or canned answer.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	m.callCount++
	m.lastSystemPrompt = systemPrompt
	m.lastUserPrompt = userPrompt

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt, maxTokens, temperature)
	}

	return m.Answer, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastUserPrompt returns the user prompt from the most recent call.
func (m *MockCompleter) LastUserPrompt() string {
	return m.lastUserPrompt
}

// LastSystemPrompt returns the system prompt from the most recent call.
func (m *MockCompleter) LastSystemPrompt() string {
	return m.lastSystemPrompt
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.lastSystemPrompt = ""
	m.lastUserPrompt = ""
	m.CompleteFunc = nil
}
