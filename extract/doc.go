// Package extract converts uploaded files of heterogeneous formats into
// plain text documents.
//
// Dispatch is by file suffix over a closed set of format kinds: PDF (with an
// OCR fallback for scanned documents), DOCX, images via OCR, audio and video
// via speech-to-text, and plain text. Unknown formats are attempted as text
// and otherwise yield an empty result rather than an error.
//
// PDF handling, page rendering and OCR shell out to pdftotext, pdftoppm and
// tesseract through an injectable CommandRunner; video audio tracks are
// pulled with ffmpeg. See InstallInstructions for the tool list.
package extract
