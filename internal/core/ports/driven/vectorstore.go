package driven

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// VectorStore is the durable collection holding all documents and chunks,
// keyed by string id, with embedding-backed similarity search.
//
// Implementations delegate embedding computation to the configured
// EmbeddingService; this port specifies only the usage contract. Every
// query produces one normalized result shape: an ordered slice of
// domain.Document.
type VectorStore interface {
	// Add inserts or replaces documents. Embeddings are computed for
	// each document's text on the way in.
	Add(ctx context.Context, docs []domain.Document) error

	// Get retrieves a document by id, including its metadata.
	// Returns domain.ErrNotFound on absence.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// First returns the first live document whose metadata matches all
	// key-value pairs in where, or domain.ErrNotFound. Used for the
	// content-hash dedup lookup, which must always consult the durable
	// store, never a cache.
	First(ctx context.Context, where map[string]any) (*domain.Document, error)

	// Query performs similarity search against text and returns up to n
	// documents in descending similarity order. The engine's ordering is
	// authoritative; ties keep insertion order. An optional where filter
	// restricts candidates by metadata equality.
	Query(ctx context.Context, text string, n int, where map[string]any) ([]domain.Document, error)

	// UpdateMetadata replaces the stored metadata record for id.
	// Merge semantics belong to the registry, not the store.
	// Returns domain.ErrNotFound if the document is absent.
	UpdateMetadata(ctx context.Context, id string, metadata map[string]any) error

	// Delete removes documents by id. Missing ids are ignored.
	Delete(ctx context.Context, ids []string) error

	// ListIDs returns all document ids in the collection.
	ListIDs(ctx context.Context) ([]string, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
