package driven

import "context"

// TextExtractor converts an uploaded file into clean plain text.
// PDF parsing and text cleaning live behind this boundary; the core only
// consumes the extracted string.
type TextExtractor interface {
	// Extract returns the plain text content of the file. An upload
	// from which no text can be extracted is reported as an error.
	Extract(ctx context.Context, content []byte, filename string) (string, error)

	// Supports reports whether the extractor handles files with the
	// given name (by extension).
	Supports(filename string) bool
}
