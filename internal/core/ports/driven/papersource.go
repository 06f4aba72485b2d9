package driven

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// PaperSource fetches results from an external paper database such as
// arXiv. Results are plain titles; the paper service feeds them into the
// registry as ordinary documents.
type PaperSource interface {
	// Name identifies the source for logging.
	Name() string

	// SearchPapers returns up to limit paper titles matching query.
	SearchPapers(ctx context.Context, query string, limit int) ([]string, error)

	// SearchAuthor returns the author's profile, or domain.ErrNotFound
	// if the source knows no such author.
	SearchAuthor(ctx context.Context, name string) (*domain.AuthorProfile, error)
}
