package domain

// NoRelevantInformation is the canned answer returned when retrieval
// produces no usable context. It short-circuits the pipeline before any
// LLM call.
const NoRelevantInformation = "I'm sorry, but I couldn't find any relevant information to answer your question."

// Answer is the full payload produced by the two-stage question-answering
// pipeline. It is cached as a unit so a repeated question skips retrieval,
// re-ranking, and the LLM call entirely.
type Answer struct {
	// Answer is the generated response text.
	Answer string

	// RelevantTextIDs are the indices into FullResults of the passages
	// selected by re-ranking, in rank order.
	RelevantTextIDs []int

	// RelevantText is the selected passages concatenated in rank order,
	// separated by a blank line.
	RelevantText string

	// FullResults is the stage-one candidate set.
	FullResults []string
}

// RankHit pairs a candidate passage index with its cross-encoder
// relevance score.
type RankHit struct {
	// Index is the position of the passage in the candidate set.
	Index int

	// Score is the relevance score; higher is more relevant.
	Score float64
}
