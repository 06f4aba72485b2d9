// Package domain defines the core business entities for Paperdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an indexed research document with metadata
//   - Chunk: an overlapping slice of a document, the unit of embedding
//   - Answer: the payload produced by the question-answering pipeline
//   - AuthorProfile: a captured external author record
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
