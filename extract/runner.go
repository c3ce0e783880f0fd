package extract

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner executes an external tool and returns its stdout.
// The indirection exists so extraction logic can be tested without the
// tools installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands through os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// External tools the extractor shells out to. PDF text extraction and
// page rendering come from poppler-utils, OCR from tesseract, and audio
// track extraction from ffmpeg.
const (
	pdfToTextTool  = "pdftotext"
	pdfToImageTool = "pdftoppm"
	ocrTool        = "tesseract"
	ffmpegTool     = "ffmpeg"
)

// CheckTool reports whether the named external tool is on PATH.
func CheckTool(name string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return nil
}

// InstallInstructions returns a human-readable hint for installing the
// external tools the extractor depends on.
func InstallInstructions() string {
	return `The extractor shells out to external tools for some formats:
  pdftotext, pdftoppm (PDF):  brew install poppler  |  apt install poppler-utils
  tesseract (image OCR):      brew install tesseract |  apt install tesseract-ocr
  ffmpeg (video audio track): brew install ffmpeg    |  apt install ffmpeg`
}
