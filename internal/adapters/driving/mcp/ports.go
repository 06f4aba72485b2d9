package mcp

import (
	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// QnA answers questions over the indexed collection.
	QnA driving.QnAService

	// Registry provides document lookup and listing.
	Registry driving.DocumentRegistry

	// Summary produces multi-level document summaries.
	Summary driving.SummaryService

	// Papers searches external paper databases.
	Papers driving.PaperService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.QnA == nil {
		return ErrMissingQnAService
	}
	if p.Registry == nil {
		return ErrMissingRegistryService
	}
	// Summary and Papers are optional; their tools are not registered
	// when absent.
	return nil
}
