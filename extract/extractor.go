// Copyright 2025 Luminai Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/luminai/askdocs/ai"
	"github.com/luminai/askdocs/core"
)

// minPDFTextLen is the threshold below which direct PDF text extraction is
// considered empty and the OCR fallback kicks in.
const minPDFTextLen = 8

// Extractor converts a raw file of any supported format into plain text
// documents. A failure in a single extraction attempt degrades the result to
// whatever partial text was obtained; only a totally empty outcome is
// reported as such, and even that is not an error.
type Extractor struct {
	runner      CommandRunner
	transcriber ai.Transcriber
	logger      *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner sets a custom command runner. Used by tests to avoid the
// external tools.
func WithRunner(runner CommandRunner) Option {
	return func(e *Extractor) {
		if runner != nil {
			e.runner = runner
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an extractor. The transcriber may be nil if audio and video
// formats are never submitted.
func New(transcriber ai.Transcriber, opts ...Option) *Extractor {
	e := &Extractor{
		runner:      execRunner{},
		transcriber: transcriber,
		logger:      slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract converts the file at path into a sequence of text documents.
// sourceKey carries the original name (and therefore the format suffix) and
// is propagated as the Source of every produced document.
//
// An unrecognized binary file yields an empty sequence, not an error.
func (e *Extractor) Extract(ctx context.Context, path, sourceKey string) ([]core.Document, error) {
	kind := KindForFile(sourceKey)
	e.logger.Info("extracting text", "source", sourceKey, "kind", kind.String())

	switch kind {
	case KindPDF:
		return e.extractPDF(ctx, path, sourceKey)
	case KindDocx:
		return e.extractDocx(path, sourceKey)
	case KindImage:
		return e.extractImage(ctx, path, sourceKey)
	case KindAudio:
		return e.extractAudio(ctx, path, sourceKey)
	case KindVideo:
		return e.extractVideo(ctx, path, sourceKey)
	case KindText:
		return e.extractText(path, sourceKey)
	default:
		return e.extractUnknown(path, sourceKey)
	}
}

// extractPDF extracts text per page with pdftotext. When the result is empty
// or near-empty the pages are rendered to images and OCRed in page order.
func (e *Extractor) extractPDF(ctx context.Context, path, sourceKey string) ([]core.Document, error) {
	var text string

	out, err := e.runner.Run(ctx, pdfToTextTool, path, "-")
	if err != nil {
		e.logger.Warn("pdftotext failed, will try OCR fallback", "source", sourceKey, "err", err)
	} else {
		text = string(out)
	}

	if len(strings.TrimSpace(text)) < minPDFTextLen {
		ocrText, err := e.ocrPDFPages(ctx, path, sourceKey)
		if err != nil {
			e.logger.Warn("OCR fallback failed", "source", sourceKey, "err", err)
		} else {
			text = ocrText
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []core.Document{{Text: text, Source: sourceKey}}, nil
}

// ocrPDFPages renders each PDF page to an image and runs OCR over them,
// concatenating per-page text in page order. A failed page degrades to
// whatever the other pages produced.
func (e *Extractor) ocrPDFPages(ctx context.Context, path, sourceKey string) (string, error) {
	dir, err := os.MkdirTemp("", "askdocs-ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if _, err := e.runner.Run(ctx, pdfToImageTool, "-png", "-r", "150", path, prefix); err != nil {
		return "", fmt.Errorf("rendering pages: %w", err)
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", err
	}
	sort.Strings(pages)

	var text strings.Builder
	for i, page := range pages {
		out, err := e.runner.Run(ctx, ocrTool, page, "stdout")
		if err != nil {
			e.logger.Warn("OCR failed on page", "source", sourceKey, "page", i+1, "err", err)
			continue
		}
		text.Write(out)
	}

	return text.String(), nil
}

// extractDocx concatenates paragraph text in document order.
func (e *Extractor) extractDocx(path, sourceKey string) ([]core.Document, error) {
	text, err := readDocxText(path)
	if err != nil {
		e.logger.Warn("docx extraction failed", "source", sourceKey, "err", err)
		return nil, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []core.Document{{Text: text, Source: sourceKey}}, nil
}

// extractImage runs OCR directly on the image.
func (e *Extractor) extractImage(ctx context.Context, path, sourceKey string) ([]core.Document, error) {
	out, err := e.runner.Run(ctx, ocrTool, path, "stdout")
	if err != nil {
		e.logger.Warn("image OCR failed", "source", sourceKey, "err", err)
		return nil, nil
	}
	text := string(out)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []core.Document{{Text: text, Source: sourceKey}}, nil
}

// extractAudio transcribes the full audio file.
func (e *Extractor) extractAudio(ctx context.Context, path, sourceKey string) ([]core.Document, error) {
	if e.transcriber == nil {
		return nil, ErrTranscriberRequired
	}

	transcript, err := e.transcriber.Transcribe(ctx, path)
	if err != nil {
		e.logger.Warn("transcription failed", "source", sourceKey, "err", err)
		return nil, nil
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, nil
	}
	return []core.Document{{Text: transcript, Source: sourceKey}}, nil
}

// extractVideo pulls the audio track into a temporary file and transcribes
// it. The temporary artifact is removed regardless of the outcome.
func (e *Extractor) extractVideo(ctx context.Context, path, sourceKey string) ([]core.Document, error) {
	if e.transcriber == nil {
		return nil, ErrTranscriberRequired
	}

	audio, err := os.CreateTemp("", "askdocs-audio-*.wav")
	if err != nil {
		return nil, err
	}
	audioPath := audio.Name()
	audio.Close()
	defer os.Remove(audioPath)

	if _, err := e.runner.Run(ctx, ffmpegTool, "-i", path, "-vn", "-acodec", "pcm_s16le", "-y", audioPath); err != nil {
		e.logger.Warn("audio track extraction failed", "source", sourceKey, "err", err)
		return nil, nil
	}

	transcript, err := e.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		e.logger.Warn("transcription failed", "source", sourceKey, "err", err)
		return nil, nil
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, nil
	}
	return []core.Document{{Text: transcript, Source: sourceKey}}, nil
}

// extractText reads the file verbatim as one document.
func (e *Extractor) extractText(path, sourceKey string) ([]core.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("text read failed", "source", sourceKey, "err", err)
		return nil, nil
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	return []core.Document{{Text: string(content), Source: sourceKey}}, nil
}

// extractUnknown reads the file verbatim if it decodes as text; an
// unrecognized binary yields an empty sequence.
func (e *Extractor) extractUnknown(path, sourceKey string) ([]core.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		e.logger.Warn("read failed", "source", sourceKey, "err", err)
		return nil, nil
	}
	if !utf8.Valid(content) || bytes.ContainsRune(content, 0) {
		e.logger.Info("unsupported binary format", "source", sourceKey)
		return nil, nil
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	return []core.Document{{Text: string(content), Source: sourceKey}}, nil
}
