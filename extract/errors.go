package extract

import "errors"

var (
	// ErrToolNotFound indicates a required external tool is not on PATH.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrTranscriberRequired is returned when an audio or video file is
	// submitted but no transcriber was configured.
	ErrTranscriberRequired = errors.New("transcriber required")
)
