package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1536, cfg.EmbeddingDim)
	assert.Equal(t, "whisper-1", cfg.TranscriptionModel)
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://localhost:11434"),
		WithEmbeddingModel("embeddinggemma"),
		WithChatModel("qwen2.5:3b"),
		WithEmbeddingDim(768),
		WithToken("secret"),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	assert.Equal(t, 768, cfg.EmbeddingDim)
	assert.Equal(t, "secret", cfg.Token)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:8080", "http://localhost:8080/v1"},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080/v1"},
		{"already normalized", "http://localhost:8080/v1", "http://localhost:8080/v1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tc.host))
			cfg.Normalize()
			assert.Equal(t, tc.want, cfg.EmbeddingHost)
			assert.Equal(t, tc.want, cfg.ChatHost)
		})
	}
}

func TestConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"empty chat model", func(c *Config) { c.ChatModel = "" }},
		{"empty transcription model", func(c *Config) { c.TranscriptionModel = "" }},
		{"zero dimension", func(c *Config) { c.EmbeddingDim = 0 }},
		{"negative dimension", func(c *Config) { c.EmbeddingDim = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
