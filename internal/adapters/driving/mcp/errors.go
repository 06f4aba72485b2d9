// Package mcp provides an MCP (Model Context Protocol) server adapter
// for PaperDesk. It lets AI assistants query the indexed paper
// collection, run summaries, and search external paper databases.
package mcp

import "errors"

// Errors returned when required services are not provided.
var (
	ErrMissingQnAService      = errors.New("mcp: question answering service is required")
	ErrMissingRegistryService = errors.New("mcp: document registry is required")
)
