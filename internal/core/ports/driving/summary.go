package driving

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// SummaryMetrics exposes counters for observability of the summary
// pipeline.
type SummaryMetrics struct {
	// Summarizations is the total number of summary requests served.
	Summarizations int64

	// CacheHits is the number served from the summary cache.
	CacheHits int64
}

// SummaryService produces multi-level summaries of indexed documents
// through the external analysis capability, bounded by a timeout.
type SummaryService interface {
	// SummarizeDocument fetches the document text and summarizes it at
	// the given level. domain.ErrNotFound if the document is absent;
	// domain.ErrInvalidInput for an unknown level; domain.ErrTimeout if
	// the capability exceeds its deadline.
	SummarizeDocument(ctx context.Context, docID string, level domain.Level) (string, error)

	// SummarizeText summarizes raw text at the given level, memoized by
	// (content hash, level).
	SummarizeText(ctx context.Context, text string, level domain.Level) (string, error)

	// Metrics returns current pipeline counters.
	Metrics() SummaryMetrics
}
