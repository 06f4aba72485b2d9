// Package plaintext provides a TextExtractor for plain text uploads.
// It normalizes line endings, strips control characters, and collapses
// runs of blank lines so downstream chunking sees clean paragraphs.
package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// supportedExtensions are the file types handled as raw text.
var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	"":     true,
}

// Extractor handles plain text files.
type Extractor struct{}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether the filename looks like a text file.
func (e *Extractor) Supports(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract returns the cleaned text content of the file.
func (e *Extractor) Extract(_ context.Context, content []byte, filename string) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: %q is not valid UTF-8 text", domain.ErrInvalidInput, filename)
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 0x20 && r != 0x7f {
			b.WriteRune(r)
		}
	}
	text = b.String()

	// Collapse runs of blank lines to a single paragraph break.
	lines := strings.Split(text, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, trimmed)
	}

	cleaned := strings.Join(out, "\n")
	if cleaned == "" {
		return "", fmt.Errorf("%w: no text content in %q", domain.ErrInvalidInput, filename)
	}
	return cleaned, nil
}
