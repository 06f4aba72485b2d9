package driving

import "context"

// IngestResult reports the outcome of an upload.
type IngestResult struct {
	// DocID is the id the document is stored under.
	DocID string

	// IsNew is true only when the document was stored under the id
	// derived from the filename itself. It is false both for a
	// byte-identical re-upload (no write) and for a name collision
	// resolved with a suffixed id (stored and chunked).
	IsNew bool

	// Chunks is the number of chunks derived from the document.
	Chunks int
}

// IngestService turns uploaded files into indexed, chunked documents.
type IngestService interface {
	// Ingest extracts text from content, stores it dedup-aware under a
	// name derived from filename, chunks it, and batch-stores the chunks.
	Ingest(ctx context.Context, content []byte, filename string) (*IngestResult, error)
}
