// Package lexical provides a Reranker that scores (query, passage)
// pairs jointly using TF-IDF weighted term overlap. It refines the
// candidate set from similarity search without any model dependency.
package lexical

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// Reranker scores passages against a query by weighted term overlap.
// Terms rare across the candidate set weigh more than common ones, so
// a passage matching the query's distinctive vocabulary outranks one
// matching only stopword-like terms.
type Reranker struct{}

// New creates a lexical reranker.
func New() *Reranker {
	return &Reranker{}
}

// Rank scores each passage against the query and returns at most topK
// hits in descending score order. Ties keep candidate order.
func (r *Reranker) Rank(_ context.Context, query string, passages []string, topK int) ([]domain.RankHit, error) {
	if len(passages) == 0 || topK <= 0 {
		return nil, nil
	}

	queryTerms := tokenize(query)
	if len(queryTerms) == 0 {
		return nil, nil
	}

	// Term frequencies per passage and document frequencies across the
	// candidate set.
	freqs := make([]map[string]int, len(passages))
	lengths := make([]int, len(passages))
	docFreq := make(map[string]int)
	for i, passage := range passages {
		terms := tokenize(passage)
		tf := make(map[string]int, len(terms))
		for _, term := range terms {
			tf[term]++
		}
		for term := range tf {
			docFreq[term]++
		}
		freqs[i] = tf
		lengths[i] = len(terms)
	}

	n := float64(len(passages))
	hits := make([]domain.RankHit, len(passages))
	for i := range passages {
		score := 0.0
		if lengths[i] > 0 {
			for _, term := range queryTerms {
				tf := float64(freqs[i][term]) / float64(lengths[i])
				if tf == 0 {
					continue
				}
				idf := math.Log(1 + n/float64(docFreq[term]))
				score += tf * idf
			}
		}
		hits[i] = domain.RankHit{Index: i, Score: score}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

// tokenize lowercases and splits on non-alphanumeric runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
