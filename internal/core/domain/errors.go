package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document or id does not exist.
	// Benign absence: callers receive this as a typed result, never as
	// a wrapped storage failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as an
	// unknown summarization level or a missing required field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates the external analysis capability exceeded its
	// deadline. Distinct from generic failures so callers can retry or
	// degrade to a templated response.
	ErrTimeout = errors.New("operation timed out")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question answering and summarization are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Similarity search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// StorageError wraps a durable-store I/O failure with the operation and
// the id that was being accessed. Benign absence is ErrNotFound, never a
// StorageError.
type StorageError struct {
	// Op is the store operation that failed (e.g. "add", "query").
	Op string

	// ID is the document id involved, if any.
	ID string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// BatchError reports the failure of one batch within a bulk write.
// Batches committed before the failing one remain committed.
type BatchError struct {
	// Batch is the zero-based index of the failing batch.
	Batch int

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d: %v", e.Batch, e.Err)
}

// Unwrap returns the underlying error.
func (e *BatchError) Unwrap() error {
	return e.Err
}

// PartialFailure reports an operation where some items failed while the
// rest succeeded. The succeeded subset is never discarded.
type PartialFailure struct {
	// Op names the overall operation (e.g. "search ingestion").
	Op string

	// Failures holds the per-item errors, keyed by item index.
	Failures []BatchError
}

// Error implements the error interface.
func (e *PartialFailure) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%s: %d item(s) failed: %s", e.Op, len(e.Failures), strings.Join(parts, "; "))
}

// FailedIndexes returns the indexes of the items that failed.
func (e *PartialFailure) FailedIndexes() []int {
	idx := make([]int, len(e.Failures))
	for i, f := range e.Failures {
		idx[i] = f.Batch
	}
	return idx
}
