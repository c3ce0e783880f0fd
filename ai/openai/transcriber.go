package openai

import (
	"context"
	"log/slog"

	"github.com/luminai/askdocs/ai"
	goopenai "github.com/sashabaranov/go-openai"
)

// Transcriber implements ai.Transcriber using the OpenAI audio transcription
// API (Whisper). langchaingo has no transcription surface, so this one client
// is built on go-openai directly.
type Transcriber struct {
	client *goopenai.Client
	model  string
	logger *slog.Logger
}

// newTranscriber is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTranscriber(config *ai.Config) (*Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientConfig := goopenai.DefaultConfig(config.Token)
	clientConfig.BaseURL = config.ChatHost

	return &Transcriber{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  config.TranscriptionModel,
		logger: slog.Default().With("component", "openai-transcriber"),
	}, nil
}

// NewTranscriber creates a new transcriber using the provided configuration.
//
// Returns ai.Transcriber interface to enforce abstraction.
func NewTranscriber(config *ai.Config) (ai.Transcriber, error) {
	return newTranscriber(config)
}

// Transcribe runs speech-to-text over the audio file at the given path.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	t.logger.Debug("transcribing audio", "path", audioPath, "model", t.model)

	response, err := t.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
	})
	if err != nil {
		t.logger.Error("failed to transcribe audio", "path", audioPath, "err", err)
		return "", err
	}

	return response.Text, nil
}
