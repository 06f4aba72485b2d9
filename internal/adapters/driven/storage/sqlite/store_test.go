package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// letterEmbedder maps text to a 26-dim letter frequency vector. Texts
// sharing vocabulary get high cosine similarity, which is enough to
// exercise ranking deterministically.
type letterEmbedder struct{}

func (letterEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 26)
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
		if r >= 'A' && r <= 'Z' {
			vec[r-'A']++
		}
	}
	return vec, nil
}

func (e letterEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (letterEmbedder) Dimensions() int                { return 26 }
func (letterEmbedder) ModelName() string              { return "letters" }
func (letterEmbedder) Ping(_ context.Context) error   { return nil }
func (letterEmbedder) Close() error                   { return nil }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), letterEmbedder{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := domain.Document{
		ID:   "doc1",
		Text: "document body",
		Metadata: map[string]any{
			domain.MetaContentHash: "abc123",
			"source":               "test",
		},
	}
	require.NoError(t, store.Add(ctx, []domain.Document{doc}))

	got, err := store.Get(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "document body", got.Text)
	assert.Equal(t, "abc123", got.Metadata[domain.MetaContentHash])
	assert.Equal(t, "test", got.Metadata["source"])
}

func TestGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddUpsertsExistingID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []domain.Document{{ID: "d", Text: "old", Metadata: map[string]any{}}}))
	require.NoError(t, store.Add(ctx, []domain.Document{{ID: "d", Text: "new", Metadata: map[string]any{}}}))

	got, err := store.Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFirstByContentHash(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "a", Text: "alpha", Metadata: map[string]any{domain.MetaContentHash: "h1"}},
		{ID: "b", Text: "beta", Metadata: map[string]any{domain.MetaContentHash: "h2"}},
	}
	require.NoError(t, store.Add(ctx, docs))

	got, err := store.First(ctx, map[string]any{domain.MetaContentHash: "h2"})
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	_, err = store.First(ctx, map[string]any{domain.MetaContentHash: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFirstByArbitraryMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "a", Text: "alpha", Metadata: map[string]any{"kind": "note"}},
		{ID: "b", Text: "beta", Metadata: map[string]any{"kind": "paper"}},
		{ID: "c", Text: "gamma", Metadata: map[string]any{"kind": "paper"}},
	}
	require.NoError(t, store.Add(ctx, docs))

	got, err := store.First(ctx, map[string]any{"kind": "paper"})
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
}

func TestQueryRanksBySimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "zz", Text: "zzzz zzzz zzzz", Metadata: map[string]any{}},
		{ID: "ab", Text: "abab abab", Metadata: map[string]any{}},
		{ID: "ab2", Text: "ababab", Metadata: map[string]any{}},
	}
	require.NoError(t, store.Add(ctx, docs))

	hits, err := store.Query(ctx, "abababab", 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.NotEqual(t, "zz", hits[0].ID)
	assert.NotEqual(t, "zz", hits[1].ID)
}

func TestQueryWhereFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "a", Text: "shared words here", Metadata: map[string]any{"group": "x"}},
		{ID: "b", Text: "shared words here", Metadata: map[string]any{"group": "y"}},
	}
	require.NoError(t, store.Add(ctx, docs))

	hits, err := store.Query(ctx, "shared words", 10, map[string]any{"group": "y"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ID)
}

func TestUpdateMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []domain.Document{
		{ID: "d", Text: "text", Metadata: map[string]any{domain.MetaContentHash: "h", "a": "1"}},
	}))

	err := store.UpdateMetadata(ctx, "d", map[string]any{domain.MetaContentHash: "h", "b": "2"})
	require.NoError(t, err)

	got, err := store.Get(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "2", got.Metadata["b"])
	// Replacement semantics: the old key is gone.
	_, hasOld := got.Metadata["a"]
	assert.False(t, hasOld)

	err = store.UpdateMetadata(ctx, "absent", map[string]any{"x": "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAndListIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []domain.Document{
		{ID: "a", Text: "one", Metadata: map[string]any{}},
		{ID: "b", Text: "two", Metadata: map[string]any{}},
		{ID: "c", Text: "three", Metadata: map[string]any{}},
	}
	require.NoError(t, store.Add(ctx, docs))

	require.NoError(t, store.Delete(ctx, []string{"b", "nonexistent"}))

	ids, err := store.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids)
}

func TestReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir, letterEmbedder{})
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, []domain.Document{{ID: "persist", Text: "kept", Metadata: map[string]any{}}}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir, letterEmbedder{})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Text)
}
