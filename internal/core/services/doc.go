// Package services implements the application's use cases over the
// driven ports: the document registry, question answering, ingestion,
// paper search, and summarization.
package services
