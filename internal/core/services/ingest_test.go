package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-labs/paperdesk/internal/adapters/driven/storage/memory"
	"github.com/quill-labs/paperdesk/internal/chunker"
	"github.com/quill-labs/paperdesk/internal/core/domain"
)

func newTestIngest(t *testing.T) (*IngestService, *RegistryService, *memory.Store) {
	t.Helper()
	store := memory.New()
	reg := NewRegistryService(store)
	return NewIngestService(reg, nil, chunker.New(chunker.WithChunkSize(50), chunker.WithOverlap(10))), reg, store
}

func TestIngestStoresDocumentAndChunks(t *testing.T) {
	svc, reg, _ := newTestIngest(t)
	ctx := context.Background()

	text := strings.Repeat("Attention mechanisms weigh token relevance. ", 10)
	res, err := svc.Ingest(ctx, []byte(text), "attention.txt")
	require.NoError(t, err)

	assert.Equal(t, "attention", res.DocID)
	assert.True(t, res.IsNew)
	assert.Greater(t, res.Chunks, 1)

	doc, err := reg.Retrieve(ctx, "attention")
	require.NoError(t, err)
	assert.Equal(t, "attention.txt", doc.Metadata[domain.MetaOriginalFilename])
	assert.Equal(t, res.Chunks, doc.Metadata[domain.MetaChunks])

	// Chunk ids follow "{doc}_{index}".
	for i := 0; i < res.Chunks; i++ {
		chunk, err := reg.Retrieve(ctx, fmt.Sprintf("attention_%d", i))
		require.NoError(t, err)
		assert.NotEmpty(t, chunk.Text)
	}
}

func TestIngestDuplicateContentIsNoOp(t *testing.T) {
	svc, _, store := newTestIngest(t)
	ctx := context.Background()

	text := strings.Repeat("Reproducible uploads should not duplicate. ", 5)
	first, err := svc.Ingest(ctx, []byte(text), "paper.txt")
	require.NoError(t, err)

	before, err := store.Count(ctx)
	require.NoError(t, err)

	second, err := svc.Ingest(ctx, []byte(text), "renamed.txt")
	require.NoError(t, err)
	assert.False(t, second.IsNew)
	assert.Equal(t, first.DocID, second.DocID)
	assert.Equal(t, first.Chunks, second.Chunks)

	after, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIngestCollidingNameGetsSuffix(t *testing.T) {
	svc, _, _ := newTestIngest(t)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, []byte("first upload body"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes", first.DocID)

	// The suffixed id is not the requested one, so the result reports
	// IsNew false, but the document was still stored and chunked.
	second, err := svc.Ingest(ctx, []byte("a different second body"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes_1", second.DocID)
	assert.False(t, second.IsNew)
	assert.GreaterOrEqual(t, second.Chunks, 1)
}

func TestIngestRejectsEmptyUpload(t *testing.T) {
	svc, _, _ := newTestIngest(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, nil, "empty.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, []byte("   \n\t  "), "blank.txt")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, []byte("content"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
