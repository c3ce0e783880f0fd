package ingest

import (
	"strings"

	"github.com/luminai/askdocs/core"
)

const (
	// DefaultChunkSize is the maximum chunk length in runes.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many trailing runes each chunk shares with
	// the next one.
	DefaultChunkOverlap = 200
)

// Chunker splits extracted documents into bounded, overlapping windows.
// Boundaries are measured in runes so multibyte text never splits mid-character.
type Chunker struct {
	size    int
	overlap int
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker) error

// WithChunkSize sets the maximum chunk length in runes.
func WithChunkSize(size int) ChunkerOption {
	return func(c *Chunker) error {
		if size < 1 {
			return ErrInvalidChunkConfig
		}
		c.size = size
		return nil
	}
}

// WithChunkOverlap sets the overlap carried into the next chunk.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *Chunker) error {
		if overlap < 0 {
			return ErrInvalidChunkConfig
		}
		c.overlap = overlap
		return nil
	}
}

// NewChunker creates a Chunker. Overlap must be smaller than chunk size.
func NewChunker(opts ...ChunkerOption) (*Chunker, error) {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.overlap >= c.size {
		return nil, ErrInvalidChunkConfig
	}
	return c, nil
}

// Chunk splits a document into overlapping windows of at most the configured
// size. Each window ends at a paragraph, sentence, or word boundary when one
// falls in its tail; otherwise it is a hard cut. The next window starts
// exactly overlap runes before the previous end. Whitespace-only input
// produces no chunks.
func (c *Chunker) Chunk(doc core.Document) []core.Chunk {
	runes := []rune(doc.Text)
	if len(strings.TrimSpace(doc.Text)) == 0 {
		return nil
	}

	var chunks []core.Chunk
	start := 0
	ordinal := 0
	for start < len(runes) {
		end := start + c.size
		last := false
		if end >= len(runes) {
			end = len(runes)
			last = true
		} else {
			end = c.cutPoint(runes, start, end)
		}

		text := strings.TrimSpace(string(runes[start:end]))
		if text != "" {
			chunks = append(chunks, core.Chunk{
				Text:    text,
				Source:  doc.Source,
				Ordinal: ordinal,
			})
			ordinal++
		}

		if last {
			break
		}
		start = end - c.overlap
	}
	return chunks
}

// cutPoint pulls the window end back to the best boundary in its tail.
// The search floor guarantees forward progress: the next window always
// starts after this one did.
func (c *Chunker) cutPoint(runes []rune, start, end int) int {
	floor := start + c.overlap + 1
	tail := end - c.size/2
	if tail < floor {
		tail = floor
	}

	// Paragraph break first, then sentence end, then any whitespace.
	if p := lastParagraphBreak(runes, tail, end); p >= 0 {
		return p
	}
	if p := lastSentenceEnd(runes, tail, end); p >= 0 {
		return p
	}
	if p := lastWhitespace(runes, tail, end); p >= 0 {
		return p
	}
	return end
}

// lastParagraphBreak returns the index just past the last blank line in
// [from, to), or -1.
func lastParagraphBreak(runes []rune, from, to int) int {
	for i := to - 1; i > from; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	return -1
}

// lastSentenceEnd returns the index just past the last terminator followed by
// a space in [from, to), or -1.
func lastSentenceEnd(runes []rune, from, to int) int {
	for i := to - 1; i > from; i-- {
		if !isSpace(runes[i]) {
			continue
		}
		switch runes[i-1] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}

// lastWhitespace returns the index of the last whitespace rune in [from, to),
// or -1.
func lastWhitespace(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if isSpace(runes[i]) {
			return i
		}
	}
	return -1
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
