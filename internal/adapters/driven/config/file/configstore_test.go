package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("server.port", 8000))
	require.NoError(t, store.Set("verbose", true))

	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
	assert.Equal(t, 8000, store.GetInt("server.port"))
	assert.True(t, store.GetBool("verbose"))

	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestTypeMismatchesReturnZeroValues(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("num", 42))
	assert.Equal(t, "", store.GetString("num"))
	assert.False(t, store.GetBool("num"))
	assert.Nil(t, store.GetStringSlice("num"))
}

func TestPersistenceAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.base_url", "http://localhost:11434"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", reopened.GetString("llm.base_url"))
}

func TestLoadFlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	raw := "[retrieval]\ncandidates = 10\ntop_k = 3\n\n[paper_sources]\nenabled = [\"arxiv\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(raw), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 10, store.GetInt("retrieval.candidates"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.Equal(t, []string{"arxiv"}, store.GetStringSlice("paper_sources.enabled"))
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "", store.GetString("anything"))
}
