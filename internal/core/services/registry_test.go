package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-labs/paperdesk/internal/adapters/driven/storage/memory"
	"github.com/quill-labs/paperdesk/internal/core/domain"
)

func newTestRegistry(t *testing.T) (*RegistryService, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewRegistryService(store), store
}

func TestStoreRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	id, isNew, doc, err := reg.Store(ctx, "Hello world.", "greeting", map[string]any{"source": "test"})
	require.NoError(t, err)
	assert.Equal(t, "greeting", id)
	assert.True(t, isNew)
	require.NotNil(t, doc)
	assert.Equal(t, "Hello world.", doc.Text)
	assert.Equal(t, "test", doc.Metadata["source"])
	assert.NotEmpty(t, doc.Metadata[domain.MetaContentHash])
	assert.Equal(t, "greeting", doc.Metadata[domain.MetaOriginalFilename])

	got, err := reg.Retrieve(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", got.Text)
}

func TestStoreDeduplicatesIdenticalContent(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	id1, isNew, _, err := reg.Store(ctx, "same text", "a", nil)
	require.NoError(t, err)
	assert.True(t, isNew)

	// Same content, different base id: no write, existing id returned.
	id2, isNew, _, err := reg.Store(ctx, "same text", "b", nil)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, id1, id2)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreAllocatesSuffixOnIDCollision(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	id, isNew, _, err := reg.Store(ctx, "first body", "paper", nil)
	require.NoError(t, err)
	assert.Equal(t, "paper", id)
	assert.True(t, isNew)

	// A write under a collision suffix reports isNew false: the id is
	// not the one the caller asked for.
	id, isNew, _, err = reg.Store(ctx, "second body", "paper", nil)
	require.NoError(t, err)
	assert.Equal(t, "paper_1", id)
	assert.False(t, isNew)

	id, _, _, err = reg.Store(ctx, "third body", "paper", nil)
	require.NoError(t, err)
	assert.Equal(t, "paper_2", id)
}

func TestStoreRejectsEmptyInput(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, _, _, err := reg.Store(ctx, "", "id", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, _, err = reg.Store(ctx, "text", "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConcurrentStoresOfSameContent(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	const workers = 16
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _, _, err := reg.Store(ctx, "contested content", fmt.Sprintf("doc_%d", i), nil)
			if assert.NoError(t, err) {
				ids[i] = id
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRetrieveMissing(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Retrieve(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRetrieveServesFromCache(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	_, _, _, err := reg.Store(ctx, "cached body", "cached", nil)
	require.NoError(t, err)

	// Remove from the durable store behind the registry's back; the
	// cache still answers within the TTL.
	require.NoError(t, store.Delete(ctx, []string{"cached"}))

	doc, err := reg.Retrieve(ctx, "cached")
	require.NoError(t, err)
	assert.Equal(t, "cached body", doc.Text)
}

func TestUpdateMetadataMergePatch(t *testing.T) {
	reg, store := newTestRegistry(t)
	ctx := context.Background()

	_, _, _, err := reg.Store(ctx, "body", "doc", map[string]any{"author": "smith", "year": 2021})
	require.NoError(t, err)

	err = reg.UpdateMetadata(ctx, "doc", map[string]any{"year": 2022, "venue": "NeurIPS"})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "smith", doc.Metadata["author"])
	assert.Equal(t, 2022, doc.Metadata["year"])
	assert.Equal(t, "NeurIPS", doc.Metadata["venue"])
	assert.NotEmpty(t, doc.Metadata[domain.MetaContentHash])
}

func TestUpdateMetadataMissing(t *testing.T) {
	reg, _ := newTestRegistry(t)
	err := reg.UpdateMetadata(context.Background(), "absent", map[string]any{"k": "v"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBatchStoreWindows(t *testing.T) {
	store := memory.New()
	reg := NewRegistryService(store, WithBatchSize(2))
	ctx := context.Background()

	texts := []string{"one", "two", "three", "four", "five"}
	ids := []string{"c_0", "c_1", "c_2", "c_3", "c_4"}

	require.NoError(t, reg.BatchStore(ctx, texts, ids, nil))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestBatchStoreLengthMismatch(t *testing.T) {
	reg, _ := newTestRegistry(t)
	err := reg.BatchStore(context.Background(), []string{"a", "b"}, []string{"x"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBatchStoreReportsFailingBatch(t *testing.T) {
	inner := memory.New()
	store := &failingStore{Store: inner, failAfter: 1}
	reg := NewRegistryService(store, WithBatchSize(2))
	ctx := context.Background()

	texts := []string{"one", "two", "three", "four"}
	ids := []string{"c_0", "c_1", "c_2", "c_3"}

	err := reg.BatchStore(ctx, texts, ids, nil)
	var batchErr *domain.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Batch)

	// The committed first window stays.
	n, err := inner.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDeleteEvictsCache(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	_, _, _, err := reg.Store(ctx, "to delete", "victim", nil)
	require.NoError(t, err)

	require.NoError(t, reg.Delete(ctx, "victim"))

	_, err = reg.Retrieve(ctx, "victim")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := reg.Exists(ctx, "victim")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearAll(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, _, err := reg.Store(ctx, fmt.Sprintf("body %d", i), fmt.Sprintf("doc_%d", i), nil)
		require.NoError(t, err)
	}

	require.NoError(t, reg.ClearAll(ctx))

	n, err := reg.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = reg.Retrieve(ctx, "doc_0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchRejectsNonPositiveN(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Search(context.Background(), "query", 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// failingStore fails Add after failAfter successful calls.
type failingStore struct {
	*memory.Store
	failAfter int
	calls     int
}

func (f *failingStore) Add(ctx context.Context, docs []domain.Document) error {
	if f.calls >= f.failAfter {
		return errors.New("disk full")
	}
	f.calls++
	return f.Store.Add(ctx, docs)
}
