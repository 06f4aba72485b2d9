package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

const searchFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Attention Is
 All You Need</title>
    <summary>We propose the Transformer.</summary>
    <published>2017-06-12T00:00:00Z</published>
    <author><name>Ashish Vaswani</name></author>
  </entry>
  <entry>
    <title>BERT: Pre-training of Deep Bidirectional Transformers</title>
    <summary>We introduce BERT.</summary>
    <published>2018-10-11T00:00:00Z</published>
    <author><name>Jacob Devlin</name></author>
  </entry>
</feed>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"></feed>`

func newTestSource(t *testing.T, body string, capture *map[string]string) *Source {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			params := map[string]string{}
			for k := range r.URL.Query() {
				params[k] = r.URL.Query().Get(k)
			}
			*capture = params
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL})
}

func TestSearchPapers(t *testing.T) {
	var params map[string]string
	src := newTestSource(t, searchFeed, &params)

	titles, err := src.SearchPapers(context.Background(), "transformers", 5)
	require.NoError(t, err)

	// Wrapped title whitespace is collapsed.
	assert.Equal(t, []string{
		"Attention Is All You Need",
		"BERT: Pre-training of Deep Bidirectional Transformers",
	}, titles)

	assert.Equal(t, "all:transformers", params["search_query"])
	assert.Equal(t, "5", params["max_results"])
}

func TestSearchAuthor(t *testing.T) {
	var params map[string]string
	src := newTestSource(t, searchFeed, &params)

	profile, err := src.SearchAuthor(context.Background(), "Ashish Vaswani")
	require.NoError(t, err)

	assert.Equal(t, "Ashish Vaswani", profile.Name)
	assert.Len(t, profile.RecentPapers, 2)
	assert.Equal(t, `au:"Ashish Vaswani"`, params["search_query"])
}

func TestSearchAuthorNotFound(t *testing.T) {
	src := newTestSource(t, emptyFeed, nil)

	_, err := src.SearchAuthor(context.Background(), "Nobody Atall")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearchPapersServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "throttled", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	src := New(Config{BaseURL: srv.URL})

	_, err := src.SearchPapers(context.Background(), "anything", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
