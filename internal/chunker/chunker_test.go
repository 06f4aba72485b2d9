package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))
	chunks := s.Split("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	s := New()
	assert.Nil(t, s.Split(""))
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	text := strings.Repeat("a", 30) + "\n\n" + strings.Repeat("b", 60)
	s := New(WithChunkSize(50), WithOverlap(0))

	chunks := s.Split(text)
	require.GreaterOrEqual(t, len(chunks), 2)
	// First cut lands on the paragraph break, not at the hard limit.
	assert.Equal(t, strings.Repeat("a", 30)+"\n\n", chunks[0])
}

func TestSplitFallsBackToSentenceEnder(t *testing.T) {
	text := "First sentence here. Second sentence follows and keeps on going for a while"
	s := New(WithChunkSize(40), WithOverlap(0))

	chunks := s.Split(text)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0], "."),
		"expected sentence-boundary cut, got %q", chunks[0])
}

func TestSplitHardSplitWithoutSeparators(t *testing.T) {
	text := strings.Repeat("x", 95)
	s := New(WithChunkSize(40), WithOverlap(0))

	chunks := s.Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 40), chunks[0])
	assert.Equal(t, strings.Repeat("x", 40), chunks[1])
	assert.Equal(t, strings.Repeat("x", 15), chunks[2])
}

func TestSplitMultiByteTextStaysValidUTF8(t *testing.T) {
	// No separators at all, so every cut is a hard split; 10 is not a
	// multiple of the 3-byte rune width.
	text := strings.Repeat("日本語", 40)
	s := New(WithChunkSize(10), WithOverlap(4))

	chunks := s.Split(text)
	require.GreaterOrEqual(t, len(chunks), 2)
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid UTF-8: %q", i, c)
		assert.NotEmpty(t, c)
	}
}

func TestSplitOverlapPreservesContext(t *testing.T) {
	text := strings.Repeat("y", 100)
	s := New(WithChunkSize(40), WithOverlap(10))

	chunks := s.Split(text)
	require.GreaterOrEqual(t, len(chunks), 2)
	// Each window after the first restarts overlap characters early.
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.Greater(t, total, len(text))
}

func TestSplitReproducible(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon zeta.\n\nEta theta iota kappa lambda mu. " +
		strings.Repeat("nu xi omicron pi. ", 20)
	s := New(WithChunkSize(64), WithOverlap(16))

	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)
}

func TestChunksDeterministicIDs(t *testing.T) {
	text := strings.Repeat("sentence one. ", 30)
	s := New(WithChunkSize(50), WithOverlap(10))

	first := s.Chunks("paper.pdf", text, map[string]any{"source": "upload"})
	second := s.Chunks("paper.pdf", text, map[string]any{"source": "upload"})

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, ChunkID("paper.pdf", i), first[i].ID)
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Text, second[i].Text)
		assert.Equal(t, i, first[i].Index)
	}
}

func TestChunksMetadataIsolated(t *testing.T) {
	meta := map[string]any{"page": 1}
	s := New(WithChunkSize(20), WithOverlap(0))
	chunks := s.Chunks("doc", strings.Repeat("word ", 20), meta)
	require.NotEmpty(t, chunks)

	chunks[0].Metadata["page"] = 99
	assert.Equal(t, 1, meta["page"])
	if len(chunks) > 1 {
		assert.Equal(t, 1, chunks[1].Metadata["page"])
	}
}

func TestNewClampsExcessiveOverlap(t *testing.T) {
	s := New(WithChunkSize(40), WithOverlap(40))
	assert.Less(t, s.Overlap(), s.ChunkSize())
}
