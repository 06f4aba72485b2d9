package driving

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// QnAService answers natural-language questions against indexed content
// using two-stage retrieval: similarity search, then cross-encoder
// re-ranking, then answer generation.
type QnAService interface {
	// AnswerQuestion runs the full pipeline for prompt. When docID is
	// non-empty, retrieval is bypassed and that document's text is the
	// sole candidate. A missing docID produces an apologetic answer, not
	// an error. Results are memoized per (prompt, docID) within the TTL.
	AnswerQuestion(ctx context.Context, prompt, docID string) (*domain.Answer, error)

	// QueryCollection returns the stage-one candidate passages for
	// prompt, memoized per (prompt, n).
	QueryCollection(ctx context.Context, prompt string, n int) ([]string, error)
}
