package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
	"github.com/quill-labs/paperdesk/internal/logger"
	"github.com/quill-labs/paperdesk/internal/workerpool"
)

const (
	// defaultCandidates is the stage-one similarity search width.
	defaultCandidates = 10

	// defaultTopK is how many passages re-ranking keeps.
	defaultTopK = 3

	// defaultAnswerTimeout bounds the generation step.
	defaultAnswerTimeout = 60 * time.Second
)

// answerSystemPrompt frames the analyst step for question answering.
const answerSystemPrompt = "You are a research assistant. Answer the question using only the provided context. " +
	"If the context does not contain the answer, say so plainly. Be concise and cite the context where possible."

// QnAService answers questions over the indexed collection using
// similarity search followed by cross-encoder re-ranking.
type QnAService struct {
	registry driving.DocumentRegistry
	reranker driven.Reranker
	analysis driven.AnalysisService
	pool     *workerpool.Pool

	answerCache *expirable.LRU[string, *domain.Answer]
	queryCache  *expirable.LRU[string, []string]

	candidates    int
	topK          int
	answerTimeout time.Duration
}

// QnAOption configures a QnAService.
type QnAOption func(*QnAService)

// WithTopK overrides how many passages re-ranking keeps.
func WithTopK(k int) QnAOption {
	return func(s *QnAService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithCandidates overrides the stage-one search width.
func WithCandidates(n int) QnAOption {
	return func(s *QnAService) {
		if n > 0 {
			s.candidates = n
		}
	}
}

// WithAnswerTimeout overrides the generation deadline.
func WithAnswerTimeout(d time.Duration) QnAOption {
	return func(s *QnAService) {
		if d > 0 {
			s.answerTimeout = d
		}
	}
}

// NewQnAService creates the question-answering service.
func NewQnAService(registry driving.DocumentRegistry, reranker driven.Reranker, analysis driven.AnalysisService, pool *workerpool.Pool, opts ...QnAOption) *QnAService {
	s := &QnAService{
		registry:      registry,
		reranker:      reranker,
		analysis:      analysis,
		pool:          pool,
		answerCache:   expirable.NewLRU[string, *domain.Answer](defaultCacheSize, nil, defaultCacheTTL),
		queryCache:    expirable.NewLRU[string, []string](defaultCacheSize, nil, defaultCacheTTL),
		candidates:    defaultCandidates,
		topK:          defaultTopK,
		answerTimeout: defaultAnswerTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryCollection returns the stage-one candidate passages for prompt,
// memoized per (prompt, n).
func (s *QnAService) QueryCollection(ctx context.Context, prompt string, n int) ([]string, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must be non-empty", domain.ErrInvalidInput)
	}
	if n <= 0 {
		n = s.candidates
	}

	key := fmt.Sprintf("query_%s_%d", prompt, n)
	if texts, ok := s.queryCache.Get(key); ok {
		return texts, nil
	}

	docs, err := s.registry.Search(ctx, prompt, n, nil)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	// An empty result is not memoized; the next call sees whatever has
	// been ingested since.
	if len(texts) > 0 {
		s.queryCache.Add(key, texts)
	}
	return texts, nil
}

// AnswerQuestion runs the full pipeline for prompt. A non-empty docID
// bypasses retrieval and answers over that document alone.
func (s *QnAService) AnswerQuestion(ctx context.Context, prompt, docID string) (*domain.Answer, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must be non-empty", domain.ErrInvalidInput)
	}

	key := fmt.Sprintf("answer_%s_%s", prompt, docID)
	if ans, ok := s.answerCache.Get(key); ok {
		return ans, nil
	}

	var candidates []string
	if docID != "" {
		doc, err := s.registry.Retrieve(ctx, docID)
		if errors.Is(err, domain.ErrNotFound) {
			// A missing document is an answer, not a failure. Left out of
			// the cache so the question works as soon as the document
			// is ingested.
			return &domain.Answer{
				Answer: fmt.Sprintf("I'm sorry, but I couldn't find any document with the ID %s.", docID),
			}, nil
		}
		if err != nil {
			return nil, err
		}
		candidates = []string{doc.Text}
	} else {
		var err error
		candidates, err = s.QueryCollection(ctx, prompt, s.candidates)
		if err != nil {
			return nil, err
		}
	}

	// Canned answers are never cached: the collection may gain relevant
	// content at any moment.
	if len(candidates) == 0 {
		return &domain.Answer{Answer: domain.NoRelevantInformation, FullResults: candidates}, nil
	}

	hits, err := s.reranker.Rank(ctx, prompt, candidates, s.topK)
	if err != nil {
		return nil, fmt.Errorf("re-ranking: %w", err)
	}
	if len(hits) == 0 {
		return &domain.Answer{Answer: domain.NoRelevantInformation, FullResults: candidates}, nil
	}

	indices := make([]int, len(hits))
	selected := make([]string, len(hits))
	for i, hit := range hits {
		indices[i] = hit.Index
		selected[i] = candidates[hit.Index]
	}
	relevant := strings.TrimSpace(strings.Join(selected, "\n\n"))
	if relevant == "" {
		return &domain.Answer{Answer: domain.NoRelevantInformation, FullResults: candidates}, nil
	}

	logger.Debug("answering %q over %d passage(s)", prompt, len(selected))

	generated, err := s.generate(ctx, prompt, relevant)
	if err != nil {
		return nil, err
	}

	ans := &domain.Answer{
		Answer:          generated,
		RelevantTextIDs: indices,
		RelevantText:    relevant,
		FullResults:     candidates,
	}
	s.answerCache.Add(key, ans)
	return ans, nil
}

// generate runs the analyst step on the worker pool under the answer
// deadline.
func (s *QnAService) generate(ctx context.Context, prompt, passages string) (string, error) {
	if s.analysis == nil {
		return "", domain.ErrLLMUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.answerTimeout)
	defer cancel()

	userPrompt := "Context:\n" + passages + "\n\nQuestion: " + prompt

	run := func(ctx context.Context) (string, error) {
		return s.analysis.Analyze(ctx, answerSystemPrompt, userPrompt)
	}

	var answer string
	var err error
	if s.pool != nil {
		answer, err = workerpool.Do(ctx, s.pool, run)
	} else {
		answer, err = run(ctx)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: answer generation exceeded %s", domain.ErrTimeout, s.answerTimeout)
		}
		return "", err
	}
	return answer, nil
}

var _ driving.QnAService = (*QnAService)(nil)
