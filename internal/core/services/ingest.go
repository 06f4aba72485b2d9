package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quill-labs/paperdesk/internal/chunker"
	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
	"github.com/quill-labs/paperdesk/internal/logger"
)

// IngestService turns uploaded files into indexed, chunked documents.
type IngestService struct {
	registry  driving.DocumentRegistry
	extractor driven.TextExtractor
	splitter  *chunker.Splitter
}

// NewIngestService creates the ingestion service.
func NewIngestService(registry driving.DocumentRegistry, extractor driven.TextExtractor, splitter *chunker.Splitter) *IngestService {
	if splitter == nil {
		splitter = chunker.New()
	}
	return &IngestService{registry: registry, extractor: extractor, splitter: splitter}
}

// Ingest extracts text from content, stores it under a name derived
// from filename, splits it into chunks, and batch-stores the chunks.
// Re-uploading byte-identical content returns the existing document
// without writing anything.
func (s *IngestService) Ingest(ctx context.Context, content []byte, filename string) (*driving.IngestResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: filename must be non-empty", domain.ErrInvalidInput)
	}
	if s.extractor != nil && !s.extractor.Supports(filename) {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, filepath.Ext(filename))
	}

	text := string(content)
	if s.extractor != nil {
		var err error
		text, err = s.extractor.Extract(ctx, content, filename)
		if err != nil {
			return nil, fmt.Errorf("extracting %q: %w", filename, err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text could be extracted from %q", domain.ErrInvalidInput, filename)
	}

	baseID := docIDFromFilename(filename)

	docID, isNew, doc, err := s.registry.Store(ctx, text, baseID, map[string]any{
		domain.MetaOriginalFilename: filename,
	})
	if err != nil {
		return nil, err
	}
	// A dedup hit returns the already-chunked document. A fresh write,
	// whether under baseID or a collision suffix, has no chunks yet.
	if n := chunkCount(doc); !isNew && n > 0 {
		logger.Info("upload %q already indexed as %q", filename, docID)
		return &driving.IngestResult{DocID: docID, IsNew: false, Chunks: n}, nil
	}

	chunks := s.splitter.Chunks(docID, text, doc.Metadata)
	texts := make([]string, len(chunks))
	ids := make([]string, len(chunks))
	metadatas := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
		ids[i] = c.ID
		metadatas[i] = c.Metadata
	}
	if err := s.registry.BatchStore(ctx, texts, ids, metadatas); err != nil {
		return nil, fmt.Errorf("storing chunks of %q: %w", docID, err)
	}

	if err := s.registry.UpdateMetadata(ctx, docID, map[string]any{domain.MetaChunks: len(chunks)}); err != nil {
		return nil, err
	}

	logger.Info("ingested %q as %q (%d chunk(s))", filename, docID, len(chunks))
	return &driving.IngestResult{DocID: docID, IsNew: isNew, Chunks: len(chunks)}, nil
}

// docIDFromFilename derives the base document id by stripping the
// extension and replacing path separators.
func docIDFromFilename(filename string) string {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// chunkCount reads the recorded chunk count off a document's metadata.
func chunkCount(doc *domain.Document) int {
	if doc == nil || doc.Metadata == nil {
		return 0
	}
	switch v := doc.Metadata[domain.MetaChunks].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

var _ driving.IngestService = (*IngestService)(nil)
