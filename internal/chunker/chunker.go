// Package chunker splits long documents into overlapping windows for
// embedding granularity.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 400

// DefaultOverlap is the default number of overlapping characters
// between adjacent chunks.
const DefaultOverlap = 100

// defaultSeparators is the prioritized split list: paragraph, line,
// sentence enders, space, then hard split.
var defaultSeparators = []string{"\n\n", "\n", ".", "?", "!", " ", ""}

// Splitter splits text on a prioritized separator list. For each window
// it prefers a cut at the earliest-listed separator present, falling
// back progressively to finer-grained ones, and finally hard-splits at
// the chunk size. Output is deterministic for identical input and
// configuration.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator priority list. An empty string
// entry marks the hard-split fallback.
func WithSeparators(seps []string) Option {
	return func(s *Splitter) {
		if len(seps) > 0 {
			s.separators = seps
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: defaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave forward progress per window.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured window size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the ordered chunk texts for text.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	n := len(text)
	if n <= s.chunkSize {
		return []string{text}
	}

	estimated := n/(s.chunkSize-s.overlap) + 1
	out := make([]string, 0, estimated)

	start := 0
	for start < n {
		if start+s.chunkSize >= n {
			out = append(out, text[start:])
			break
		}
		// Window end never lands inside a multi-byte rune.
		end := runeStart(text, start+s.chunkSize)
		if end <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}

		// Cut at the highest-priority separator inside the window,
		// keeping the separator with the left chunk.
		cut := end
		for _, sep := range s.separators {
			if sep == "" {
				break
			}
			if i := strings.LastIndex(text[start:end], sep); i >= 0 {
				if c := start + i + len(sep); c > start {
					cut = c
					break
				}
			}
		}

		out = append(out, text[start:cut])

		next := runeStart(text, cut-s.overlap)
		if next <= start {
			next = cut
		}
		start = next
	}

	return out
}

// runeStart backs i off to the nearest rune boundary at or before it.
func runeStart(text string, i int) int {
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// Chunks splits text and wraps the pieces as domain.Chunk records with
// ids derived deterministically from the parent id and chunk index.
// Each chunk inherits a copy of the parent metadata.
func (s *Splitter) Chunks(parentID, text string, metadata map[string]any) []domain.Chunk {
	pieces := s.Split(text)
	chunks := make([]domain.Chunk, len(pieces))
	for i, piece := range pieces {
		meta := make(map[string]any, len(metadata))
		for k, v := range metadata {
			meta[k] = v
		}
		chunks[i] = domain.Chunk{
			ID:       ChunkID(parentID, i),
			Text:     piece,
			Index:    i,
			Metadata: meta,
		}
	}
	return chunks
}

// ChunkID derives the deterministic id for the index-th chunk of parent.
func ChunkID(parentID string, index int) string {
	return fmt.Sprintf("%s_%d", parentID, index)
}
