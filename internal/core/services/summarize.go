package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quill-labs/paperdesk/internal/contenthash"
	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
	"github.com/quill-labs/paperdesk/internal/logger"
	"github.com/quill-labs/paperdesk/internal/workerpool"
)

// defaultSummaryTimeout bounds a single summarization run.
const defaultSummaryTimeout = 60 * time.Second

// SummaryService produces multi-level summaries through the analysis
// capability, memoized by content hash and level.
type SummaryService struct {
	registry driving.DocumentRegistry
	analysis driven.AnalysisService
	pool     *workerpool.Pool

	cache   *expirable.LRU[string, string]
	timeout time.Duration

	summarizations atomic.Int64
	cacheHits      atomic.Int64
}

// SummaryOption configures a SummaryService.
type SummaryOption func(*SummaryService)

// WithSummaryTimeout overrides the summarization deadline.
func WithSummaryTimeout(d time.Duration) SummaryOption {
	return func(s *SummaryService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewSummaryService creates the summarization service.
func NewSummaryService(registry driving.DocumentRegistry, analysis driven.AnalysisService, pool *workerpool.Pool, opts ...SummaryOption) *SummaryService {
	s := &SummaryService{
		registry: registry,
		analysis: analysis,
		pool:     pool,
		cache:    expirable.NewLRU[string, string](defaultCacheSize, nil, defaultCacheTTL),
		timeout:  defaultSummaryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SummarizeDocument fetches the document and summarizes its text.
func (s *SummaryService) SummarizeDocument(ctx context.Context, docID string, level domain.Level) (string, error) {
	if docID == "" {
		return "", fmt.Errorf("%w: document id must be non-empty", domain.ErrInvalidInput)
	}
	doc, err := s.registry.Retrieve(ctx, docID)
	if err != nil {
		return "", err
	}
	return s.SummarizeText(ctx, doc.Text, level)
}

// SummarizeText summarizes raw text at the given level, memoized by
// (content hash, level).
func (s *SummaryService) SummarizeText(ctx context.Context, text string, level domain.Level) (string, error) {
	if text == "" {
		return "", fmt.Errorf("%w: text must be non-empty", domain.ErrInvalidInput)
	}
	if level == "" {
		level = domain.DefaultLevel
	}
	if !level.Valid() {
		return "", fmt.Errorf("%w: unknown summarization level %q", domain.ErrInvalidInput, level)
	}
	if s.analysis == nil {
		return "", domain.ErrLLMUnavailable
	}

	s.summarizations.Add(1)

	key := contenthash.Sum(text) + "_" + string(level)
	if summary, ok := s.cache.Get(key); ok {
		s.cacheHits.Add(1)
		return summary, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	run := func(ctx context.Context) (string, error) {
		return s.analysis.Summarize(ctx, text, level)
	}

	var summary string
	var err error
	if s.pool != nil {
		summary, err = workerpool.Do(ctx, s.pool, run)
	} else {
		summary, err = run(ctx)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: summarization exceeded %s", domain.ErrTimeout, s.timeout)
		}
		return "", err
	}

	s.cache.Add(key, summary)
	logger.Debug("summarized %s at level %s", contenthash.Short(text), level)
	return summary, nil
}

// Metrics returns current pipeline counters.
func (s *SummaryService) Metrics() driving.SummaryMetrics {
	return driving.SummaryMetrics{
		Summarizations: s.summarizations.Load(),
		CacheHits:      s.cacheHits.Load(),
	}
}

var _ driving.SummaryService = (*SummaryService)(nil)
