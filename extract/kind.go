package extract

import (
	"path/filepath"
	"strings"
)

// Kind is a closed enumeration of the file formats the extractor understands.
// Unknown kinds fall through to a text-decode attempt and then to an empty
// result, never to an error.
type Kind int

const (
	// KindUnknown is any format without a dedicated extraction strategy.
	KindUnknown Kind = iota
	// KindPDF is a PDF document.
	KindPDF
	// KindDocx is a word-processor document (OOXML).
	KindDocx
	// KindImage is a raster image handled via OCR.
	KindImage
	// KindAudio is an audio file handled via transcription.
	KindAudio
	// KindVideo is a video file whose audio track is transcribed.
	KindVideo
	// KindText is a plain text file read verbatim.
	KindText
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindDocx:
		return "docx"
	case KindImage:
		return "image"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

var kindBySuffix = map[string]Kind{
	".pdf":  KindPDF,
	".docx": KindDocx,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".bmp":  KindImage,
	".tiff": KindImage,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".mp4":  KindVideo,
	".mkv":  KindVideo,
	".avi":  KindVideo,
	".mov":  KindVideo,
	".txt":  KindText,
	".md":   KindText,
	".csv":  KindText,
}

// KindForFile determines the format kind from the file name suffix.
// The match is case-insensitive; unrecognized suffixes map to KindUnknown.
func KindForFile(name string) Kind {
	suffix := strings.ToLower(filepath.Ext(name))
	if kind, ok := kindBySuffix[suffix]; ok {
		return kind
	}
	return KindUnknown
}
