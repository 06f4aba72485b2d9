package driving

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// PaperSearchResult reports an external search whose hits were ingested
// into the registry. Individual storage failures do not abort the batch;
// their indexes are reported here.
type PaperSearchResult struct {
	// Titles are the fetched paper titles, in source order.
	Titles []string

	// FailedIndexes are positions in Titles whose storage failed.
	FailedIndexes []int

	// Partial carries the per-index storage errors behind FailedIndexes,
	// nil when every hit was stored.
	Partial *domain.PartialFailure
}

// AuthorSearchResult bundles an author profile with an optional
// level-tailored summary.
type AuthorSearchResult struct {
	Profile *domain.AuthorProfile

	// Summary is set only when summarization was requested.
	Summary string
}

// PaperService searches external paper databases and captures the
// results as ordinary documents.
type PaperService interface {
	// SearchPapers queries all configured sources and stores each hit
	// under "search_result_{query}_{index}".
	SearchPapers(ctx context.Context, query string) (*PaperSearchResult, error)

	// SearchAuthor fetches an author profile and stores it under
	// "author_{name}". An unknown author is domain.ErrNotFound and
	// nothing is written.
	SearchAuthor(ctx context.Context, name string, summarize bool, level domain.Level) (*AuthorSearchResult, error)
}
