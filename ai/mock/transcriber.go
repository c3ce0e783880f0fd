package mock

import "context"

// MockTranscriber is a test double for ai.Transcriber.
// It allows custom behavior injection via function fields.
type MockTranscriber struct {
	// TranscribeFunc is called by Transcribe if set.
	// If nil, returns the canned Transcript.
	TranscribeFunc func(ctx context.Context, audioPath string) (string, error)

	// Transcript is the canned text returned when TranscribeFunc is nil.
	Transcript string

	callCount int
}

// NewMockTranscriber creates a mock transcriber with a canned default transcript.
// Note: returns concrete type to allow test assertions.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{Transcript: "mock transcript"}
}

// Transcribe returns the injected or canned transcript.
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	m.callCount++

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath)
	}

	return m.Transcript, nil
}

// CallCount returns the number of times Transcribe was called.
func (m *MockTranscriber) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockTranscriber) Reset() {
	m.callCount = 0
	m.TranscribeFunc = nil
}
