package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminai/askdocs/core"
)

func TestChunkEmptyInput(t *testing.T) {
	chunker, err := NewChunker()
	require.NoError(t, err)

	assert.Nil(t, chunker.Chunk(core.Document{Text: ""}))
	assert.Nil(t, chunker.Chunk(core.Document{Text: "   \n\t  "}))
}

func TestChunkShortInputSingleChunk(t *testing.T) {
	chunker, err := NewChunker()
	require.NoError(t, err)

	chunks := chunker.Chunk(core.Document{Text: "a short note", Source: "uploads/note.txt"})
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short note", chunks[0].Text)
	assert.Equal(t, "uploads/note.txt", chunks[0].Source)
	assert.Equal(t, 0, chunks[0].Ordinal)
}

func TestChunkRespectsSizeLimit(t *testing.T) {
	chunker, err := NewChunker(WithChunkSize(100), WithChunkOverlap(20))
	require.NoError(t, err)

	text := strings.Repeat("lorem ipsum dolor sit amet. ", 50)
	chunks := chunker.Chunk(core.Document{Text: text, Source: "uploads/long.txt"})
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk.Text)), 100)
	}
}

func TestChunkOrdinalsSequential(t *testing.T) {
	chunker, err := NewChunker(WithChunkSize(50), WithChunkOverlap(10))
	require.NoError(t, err)

	text := strings.Repeat("words and more words filling space. ", 20)
	chunks := chunker.Chunk(core.Document{Text: text})
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Ordinal)
	}
}

func TestChunkPrefersSentenceBoundary(t *testing.T) {
	chunker, err := NewChunker(WithChunkSize(60), WithChunkOverlap(10))
	require.NoError(t, err)

	text := "This is the first sentence here. This is the second sentence that continues well past the window."
	chunks := chunker.Chunk(core.Document{Text: text})
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, "This is the first sentence here.", chunks[0].Text)
}

func TestChunkHardCutWithoutBoundaries(t *testing.T) {
	chunker, err := NewChunker(WithChunkSize(40), WithChunkOverlap(8))
	require.NoError(t, err)

	text := strings.Repeat("x", 200)
	chunks := chunker.Chunk(core.Document{Text: text})
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk.Text)), 40)
	}

	// Full coverage: total unique content survives the overlap arithmetic.
	assert.Equal(t, "x", string(chunks[0].Text[0]))
	lastChunk := chunks[len(chunks)-1]
	assert.NotEmpty(t, lastChunk.Text)
}

func TestChunkOverlapCarried(t *testing.T) {
	chunker, err := NewChunker(WithChunkSize(40), WithChunkOverlap(8))
	require.NoError(t, err)

	text := strings.Repeat("abcdefghij", 20)
	chunks := chunker.Chunk(core.Document{Text: text})
	require.Greater(t, len(chunks), 1)

	first := []rune(chunks[0].Text)
	second := []rune(chunks[1].Text)
	// The second chunk starts with the last 8 runes of the first.
	assert.Equal(t, string(first[len(first)-8:]), string(second[:8]))
}

func TestChunkMultibyteSafe(t *testing.T) {
	chunker, err := NewChunker(WithChunkSize(10), WithChunkOverlap(2))
	require.NoError(t, err)

	text := strings.Repeat("héllo wörld ", 10)
	chunks := chunker.Chunk(core.Document{Text: text})
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.True(t, strings.ToValidUTF8(chunk.Text, "") == chunk.Text)
	}
}

func TestNewChunkerRejectsBadConfig(t *testing.T) {
	_, err := NewChunker(WithChunkSize(0))
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)

	_, err = NewChunker(WithChunkOverlap(-1))
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)

	_, err = NewChunker(WithChunkSize(100), WithChunkOverlap(100))
	assert.ErrorIs(t, err, ErrInvalidChunkConfig)
}
