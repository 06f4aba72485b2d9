package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
	"github.com/quill-labs/paperdesk/internal/logger"
)

// defaultSearchLimit is how many results each source is asked for.
const defaultSearchLimit = 5

// PaperService searches external paper databases and captures the
// results as ordinary documents in the registry.
type PaperService struct {
	registry driving.DocumentRegistry
	sources  []driven.PaperSource
	analysis driven.AnalysisService
	limit    int
}

// PaperOption configures a PaperService.
type PaperOption func(*PaperService)

// WithSearchLimit overrides the per-source result limit.
func WithSearchLimit(n int) PaperOption {
	return func(s *PaperService) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewPaperService creates the paper search service.
func NewPaperService(registry driving.DocumentRegistry, sources []driven.PaperSource, analysis driven.AnalysisService, opts ...PaperOption) *PaperService {
	s := &PaperService{
		registry: registry,
		sources:  sources,
		analysis: analysis,
		limit:    defaultSearchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchPapers queries all configured sources and stores each hit under
// "search_result_{query}_{index}". A hit whose storage fails does not
// abort the rest; its index is reported in the result.
func (s *PaperService) SearchPapers(ctx context.Context, query string) (*driving.PaperSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must be non-empty", domain.ErrInvalidInput)
	}
	if len(s.sources) == 0 {
		return nil, errors.New("no paper sources configured")
	}

	var titles []string
	var srcErrs []error
	for _, src := range s.sources {
		hits, err := src.SearchPapers(ctx, query, s.limit)
		if err != nil {
			logger.Warn("paper source %s failed: %v", src.Name(), err)
			srcErrs = append(srcErrs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		titles = append(titles, hits...)
	}
	if len(titles) == 0 && len(srcErrs) > 0 {
		return nil, errors.Join(srcErrs...)
	}

	result := &driving.PaperSearchResult{Titles: titles}
	var failures []domain.BatchError
	for i, title := range titles {
		id := fmt.Sprintf("search_result_%s_%d", query, i)
		if _, _, _, err := s.registry.Store(ctx, title, id, map[string]any{"query": query}); err != nil {
			failures = append(failures, domain.BatchError{Batch: i, Err: err})
		}
	}
	if len(failures) > 0 {
		result.Partial = &domain.PartialFailure{Op: "search ingestion", Failures: failures}
		result.FailedIndexes = result.Partial.FailedIndexes()
		logger.Warn("search %q: %v", query, result.Partial)
	}
	return result, nil
}

// SearchAuthor fetches an author profile from the first source that
// knows the name and stores it under "author_{name}". An unknown author
// is domain.ErrNotFound and nothing is written.
func (s *PaperService) SearchAuthor(ctx context.Context, name string, summarize bool, level domain.Level) (*driving.AuthorSearchResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: author name must be non-empty", domain.ErrInvalidInput)
	}
	if len(s.sources) == 0 {
		return nil, errors.New("no paper sources configured")
	}

	var profile *domain.AuthorProfile
	var srcErrs []error
	for _, src := range s.sources {
		p, err := src.SearchAuthor(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			logger.Warn("paper source %s failed for author %q: %v", src.Name(), name, err)
			srcErrs = append(srcErrs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		profile = p
		break
	}
	if profile == nil {
		if len(srcErrs) > 0 {
			return nil, errors.Join(srcErrs...)
		}
		return nil, fmt.Errorf("author %q: %w", name, domain.ErrNotFound)
	}

	text := profile.Text()
	id := "author_" + name
	if _, _, _, err := s.registry.Store(ctx, text, id, map[string]any{"author": profile.Name}); err != nil {
		return nil, err
	}

	result := &driving.AuthorSearchResult{Profile: profile}
	if summarize {
		if s.analysis == nil {
			return nil, domain.ErrLLMUnavailable
		}
		summary, err := s.analysis.Summarize(ctx, text, level)
		if err != nil {
			return nil, fmt.Errorf("summarizing author %q: %w", name, err)
		}
		result.Summary = summary
	}
	return result, nil
}

var _ driving.PaperService = (*PaperService)(nil)
