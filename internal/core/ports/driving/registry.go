package driving

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// DocumentRegistry is the content-addressed document layer over the
// vector store: content-hash dedup, unique-id allocation, metadata
// patching, batch writes, and a read-through TTL cache.
type DocumentRegistry interface {
	// Store writes text under an id derived from baseID, deduplicating
	// by content hash. Storing identical text twice returns the existing
	// id with isNew false and performs no write. A baseID collision with
	// different content allocates "{baseID}_1", "{baseID}_2", ... until a
	// free id is found. isNew is true only when a write occurred under
	// baseID itself; a suffixed id and a dedup hit both report false.
	Store(ctx context.Context, text, baseID string, metadata map[string]any) (id string, isNew bool, doc *domain.Document, err error)

	// Retrieve returns the document by id, cache-first.
	// Returns domain.ErrNotFound on absence.
	Retrieve(ctx context.Context, id string) (*domain.Document, error)

	// UpdateMetadata merge-patches metadata: patch keys overwrite,
	// other keys are preserved. Fails with domain.ErrNotFound if the
	// document is absent.
	UpdateMetadata(ctx context.Context, id string, patch map[string]any) error

	// Search delegates to the vector store's similarity search.
	Search(ctx context.Context, query string, n int, where map[string]any) ([]domain.Document, error)

	// BatchStore writes texts in windows of the configured batch size.
	// Failure of batch N does not roll back batches 1..N-1 and is
	// reported as a *domain.BatchError carrying the offending index.
	BatchStore(ctx context.Context, texts, ids []string, metadatas []map[string]any) error

	// Delete removes a document and evicts it from the cache.
	Delete(ctx context.Context, id string) error

	// ClearAll removes every document and empties the cache.
	ClearAll(ctx context.Context) error

	// Exists reports whether a document with the id exists. A cache hit
	// answers true without touching the store.
	Exists(ctx context.Context, id string) (bool, error)

	// List returns all document ids in insertion order.
	List(ctx context.Context) ([]string, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)
}
