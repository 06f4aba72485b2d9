// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - VectorStore: the durable, embedding-backed document collection
//   - EmbeddingService: text-to-vector generation
//
// # Optional Interfaces
//
//   - LLMService: language model completion and chat
//   - AnalysisService: analysis/summarization built on the LLM
//   - Reranker: cross scoring of (query, passage) pairs
//   - TextExtractor: raw upload bytes to plain text
//   - PaperSource: external paper database lookup
//   - ConfigStore: application configuration
package driven
