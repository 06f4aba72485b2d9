package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quill-labs/paperdesk/internal/contenthash"
	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
	"github.com/quill-labs/paperdesk/internal/logger"
)

const (
	// defaultCacheSize bounds the read cache entry count.
	defaultCacheSize = 1000

	// defaultCacheTTL is how long a cached document stays fresh.
	defaultCacheTTL = time.Hour

	// defaultBatchSize is the window for bulk writes.
	defaultBatchSize = 1000

	// hashLockShards is the number of stripes guarding the dedup
	// check-then-write. Two concurrent stores of the same content map
	// to the same stripe and serialize.
	hashLockShards = 64
)

// RegistryService is the content-addressed document layer over the
// vector store.
type RegistryService struct {
	store     driven.VectorStore
	cache     *expirable.LRU[string, *domain.Document]
	batchSize int

	hashLocks [hashLockShards]sync.Mutex
}

// RegistryOption configures a RegistryService.
type RegistryOption func(*RegistryService)

// WithBatchSize overrides the bulk write window.
func WithBatchSize(n int) RegistryOption {
	return func(r *RegistryService) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithCacheTTL overrides the read cache TTL.
func WithCacheTTL(ttl time.Duration) RegistryOption {
	return func(r *RegistryService) {
		r.cache = expirable.NewLRU[string, *domain.Document](defaultCacheSize, nil, ttl)
	}
}

// NewRegistryService creates the registry over the given store.
func NewRegistryService(store driven.VectorStore, opts ...RegistryOption) *RegistryService {
	r := &RegistryService{
		store:     store,
		cache:     expirable.NewLRU[string, *domain.Document](defaultCacheSize, nil, defaultCacheTTL),
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// hashLock returns the stripe guarding the given content hash.
func (r *RegistryService) hashLock(hash string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(hash))
	return &r.hashLocks[h.Sum32()%hashLockShards]
}

// Store writes text under an id derived from baseID, deduplicating by
// content hash. See driving.DocumentRegistry for the full contract.
func (r *RegistryService) Store(ctx context.Context, text, baseID string, metadata map[string]any) (string, bool, *domain.Document, error) {
	if text == "" || baseID == "" {
		return "", false, nil, fmt.Errorf("%w: text and id must be non-empty", domain.ErrInvalidInput)
	}

	hash := contenthash.Sum(text)

	lock := r.hashLock(hash)
	lock.Lock()
	defer lock.Unlock()

	// Dedup lookup always goes to the durable store.
	existing, err := r.store.First(ctx, map[string]any{domain.MetaContentHash: hash})
	if err == nil {
		logger.Debug("store: content already indexed as %q (hash %s)", existing.ID, contenthash.Short(text))
		r.cache.Add(existing.ID, existing)
		return existing.ID, false, existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", false, nil, &domain.StorageError{Op: "first", Err: err}
	}

	id, err := r.allocateID(ctx, baseID)
	if err != nil {
		return "", false, nil, err
	}

	doc := &domain.Document{
		ID:   id,
		Text: text,
		Metadata: mergeMetadata(map[string]any{
			domain.MetaContentHash:      hash,
			domain.MetaOriginalFilename: baseID,
		}, metadata),
	}

	if err := r.store.Add(ctx, []domain.Document{*doc}); err != nil {
		return "", false, nil, &domain.StorageError{Op: "add", ID: id, Err: err}
	}

	r.cache.Add(id, doc)
	logger.Debug("store: indexed %q (hash %s)", id, contenthash.Short(text))
	return id, id == baseID, doc, nil
}

// allocateID finds a free id starting from baseID, suffixing "_1",
// "_2", ... on collision with different content.
func (r *RegistryService) allocateID(ctx context.Context, baseID string) (string, error) {
	id := baseID
	for n := 1; ; n++ {
		_, err := r.store.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", &domain.StorageError{Op: "get", ID: id, Err: err}
		}
		id = fmt.Sprintf("%s_%d", baseID, n)
	}
}

// Retrieve returns the document by id, cache-first.
func (r *RegistryService) Retrieve(ctx context.Context, id string) (*domain.Document, error) {
	if doc, ok := r.cache.Get(id); ok {
		return doc, nil
	}
	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, &domain.StorageError{Op: "get", ID: id, Err: err}
	}
	r.cache.Add(id, doc)
	return doc, nil
}

// UpdateMetadata merge-patches the document's metadata. Patch keys
// overwrite, other keys are preserved.
func (r *RegistryService) UpdateMetadata(ctx context.Context, id string, patch map[string]any) error {
	doc, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return &domain.StorageError{Op: "get", ID: id, Err: err}
	}

	merged := mergeMetadata(doc.Metadata, patch)
	if err := r.store.UpdateMetadata(ctx, id, merged); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return &domain.StorageError{Op: "update_metadata", ID: id, Err: err}
	}

	doc.Metadata = merged
	r.cache.Add(id, doc)
	return nil
}

// Search delegates to the vector store's similarity search.
func (r *RegistryService) Search(ctx context.Context, query string, n int, where map[string]any) ([]domain.Document, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: result count must be positive", domain.ErrInvalidInput)
	}
	docs, err := r.store.Query(ctx, query, n, where)
	if err != nil {
		return nil, &domain.StorageError{Op: "query", Err: err}
	}
	return docs, nil
}

// BatchStore writes texts in windows of the configured batch size.
// A failing window aborts the remainder; committed windows stay.
func (r *RegistryService) BatchStore(ctx context.Context, texts, ids []string, metadatas []map[string]any) error {
	if len(texts) != len(ids) {
		return fmt.Errorf("%w: %d texts for %d ids", domain.ErrInvalidInput, len(texts), len(ids))
	}
	if metadatas != nil && len(metadatas) != len(texts) {
		return fmt.Errorf("%w: %d metadata records for %d texts", domain.ErrInvalidInput, len(metadatas), len(texts))
	}

	for batch := 0; batch*r.batchSize < len(texts); batch++ {
		lo := batch * r.batchSize
		hi := min(lo+r.batchSize, len(texts))

		docs := make([]domain.Document, 0, hi-lo)
		for i := lo; i < hi; i++ {
			var extra map[string]any
			if metadatas != nil {
				extra = metadatas[i]
			}
			// The item's own digest wins over anything inherited.
			meta := mergeMetadata(extra, map[string]any{
				domain.MetaContentHash: contenthash.Sum(texts[i]),
			})
			docs = append(docs, domain.Document{
				ID:       ids[i],
				Text:     texts[i],
				Metadata: meta,
			})
		}

		if err := r.store.Add(ctx, docs); err != nil {
			return &domain.BatchError{Batch: batch, Err: err}
		}
		for i := range docs {
			r.cache.Add(docs[i].ID, &docs[i])
		}
	}
	return nil
}

// Delete removes a document and evicts it from the cache.
func (r *RegistryService) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, []string{id}); err != nil {
		return &domain.StorageError{Op: "delete", ID: id, Err: err}
	}
	r.cache.Remove(id)
	return nil
}

// ClearAll removes every document and empties the cache.
func (r *RegistryService) ClearAll(ctx context.Context) error {
	ids, err := r.store.ListIDs(ctx)
	if err != nil {
		return &domain.StorageError{Op: "list", Err: err}
	}
	if len(ids) > 0 {
		if err := r.store.Delete(ctx, ids); err != nil {
			return &domain.StorageError{Op: "delete", Err: err}
		}
	}
	r.cache.Purge()
	logger.Info("cleared %d document(s)", len(ids))
	return nil
}

// Exists reports whether a document with the id exists.
func (r *RegistryService) Exists(ctx context.Context, id string) (bool, error) {
	if _, ok := r.cache.Get(id); ok {
		return true, nil
	}
	_, err := r.store.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "get", ID: id, Err: err}
	}
	return true, nil
}

// List returns all document ids in insertion order.
func (r *RegistryService) List(ctx context.Context) ([]string, error) {
	ids, err := r.store.ListIDs(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	return ids, nil
}

// Count returns the number of documents in the collection.
func (r *RegistryService) Count(ctx context.Context) (int, error) {
	n, err := r.store.Count(ctx)
	if err != nil {
		return 0, &domain.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// mergeMetadata overlays patch onto base without mutating either.
func mergeMetadata(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

var _ driving.DocumentRegistry = (*RegistryService)(nil)
