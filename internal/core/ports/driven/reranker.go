package driven

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// Reranker scores (query, passage) pairs jointly and returns the top-k
// passages in descending score order. This is the second retrieval stage,
// refining the candidate set produced by similarity search.
type Reranker interface {
	// Rank scores each passage against the query and returns at most
	// topK hits, ordered by score descending. Returned indices are
	// positions in the passages slice, without duplicates.
	Rank(ctx context.Context, query string, passages []string, topK int) ([]domain.RankHit, error)
}
