// Package memory provides an in-memory VectorStore.
//
// It keeps documents in a map guarded by a RWMutex and ranks queries by
// naive term overlap. Useful for tests and for running without a
// persistent database; production setups use the sqlite store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// Store is an in-memory document collection.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]domain.Document
	order []string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[string]domain.Document)}
}

// Add inserts or replaces documents.
func (s *Store) Add(_ context.Context, docs []domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		if _, exists := s.docs[doc.ID]; !exists {
			s.order = append(s.order, doc.ID)
		}
		s.docs[doc.ID] = cloneDoc(doc)
	}
	return nil
}

// Get retrieves a document by id.
func (s *Store) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneDoc(doc)
	return &out, nil
}

// First returns the first stored document whose metadata matches all
// pairs in where, in insertion order.
func (s *Store) First(_ context.Context, where map[string]any) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		doc, ok := s.docs[id]
		if !ok {
			continue
		}
		if matches(doc.Metadata, where) {
			out := cloneDoc(doc)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Query ranks documents by the number of query terms present in their
// text and returns up to n hits. Ties keep insertion order.
func (s *Store) Query(_ context.Context, text string, n int, where map[string]any) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(text))

	type scored struct {
		doc   domain.Document
		score int
		pos   int
	}
	var hits []scored
	for pos, id := range s.order {
		doc, ok := s.docs[id]
		if !ok {
			continue
		}
		if !matches(doc.Metadata, where) {
			continue
		}
		lower := strings.ToLower(doc.Text)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{doc: doc, score: score, pos: pos})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	if n < len(hits) {
		hits = hits[:n]
	}
	out := make([]domain.Document, len(hits))
	for i, h := range hits {
		out[i] = cloneDoc(h.doc)
	}
	return out, nil
}

// UpdateMetadata replaces the metadata record for id.
func (s *Store) UpdateMetadata(_ context.Context, id string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Metadata = cloneMeta(metadata)
	s.docs[id] = doc
	return nil
}

// Delete removes documents by id. Missing ids are ignored.
func (s *Store) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.docs[id]; !ok {
			continue
		}
		delete(s.docs, id)
		for i, oid := range s.order {
			if oid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

// ListIDs returns all ids in insertion order.
func (s *Store) ListIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func matches(metadata, where map[string]any) bool {
	for k, v := range where {
		if metadata == nil || metadata[k] != v {
			return false
		}
	}
	return true
}

func cloneDoc(doc domain.Document) domain.Document {
	doc.Metadata = cloneMeta(doc.Metadata)
	return doc
}

func cloneMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
