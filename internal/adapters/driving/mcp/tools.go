package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to answer from the indexed papers"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"restrict answering to this document instead of searching the collection"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer       string `json:"answer"`
	RelevantText string `json:"relevant_text,omitempty"`
	PassageCount int    `json:"passage_count"`
}

// QueryInput is the input schema for the query_collection tool.
type QueryInput struct {
	Query string `json:"query" jsonschema:"the similarity search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 10)"`
}

// QueryOutput is the output schema for the query_collection tool.
type QueryOutput struct {
	Passages []string `json:"passages"`
	Count    int      `json:"count"`
}

// SummarizeInput is the input schema for the summarize_document tool.
type SummarizeInput struct {
	DocumentID string `json:"document_id" jsonschema:"the id of the document to summarize"`
	Level      string `json:"level,omitempty" jsonschema:"expertise level: beginner, intermediate, or expert (default intermediate)"`
}

// SummarizeOutput is the output schema for the summarize_document tool.
type SummarizeOutput struct {
	Summary string `json:"summary"`
	Level   string `json:"level"`
}

// PaperSearchInput is the input schema for the search_papers tool.
type PaperSearchInput struct {
	Query string `json:"query" jsonschema:"the topic to search external paper databases for"`
}

// PaperSearchOutput is the output schema for the search_papers tool.
type PaperSearchOutput struct {
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// AuthorSearchInput is the input schema for the search_author tool.
type AuthorSearchInput struct {
	Name      string `json:"name" jsonschema:"the author name to look up"`
	Summarize bool   `json:"summarize,omitempty" jsonschema:"also produce a summary of the author profile"`
	Level     string `json:"level,omitempty" jsonschema:"expertise level for the summary (default intermediate)"`
}

// AuthorSearchOutput is the output schema for the search_author tool.
type AuthorSearchOutput struct {
	Name         string   `json:"name"`
	Affiliation  string   `json:"affiliation,omitempty"`
	RecentPapers []string `json:"recent_papers,omitempty"`
	Summary      string   `json:"summary,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from the indexed research papers",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_collection",
		Description: "Run a similarity search over the indexed collection",
	}, s.handleQuery)

	if s.ports.Summary != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "summarize_document",
			Description: "Summarize an indexed document at a chosen expertise level",
		}, s.handleSummarize)
	}

	if s.ports.Papers != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_papers",
			Description: "Search external paper databases and index the results",
		}, s.handleSearchPapers)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "search_author",
			Description: "Look up an author profile and index it",
		}, s.handleSearchAuthor)
	}
}

// handleAsk handles the ask_question tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.QnA.AnswerQuestion(ctx, input.Question, input.DocumentID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:       answer.Answer,
		RelevantText: answer.RelevantText,
		PassageCount: len(answer.RelevantTextIDs),
	}, nil
}

// handleQuery handles the query_collection tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	passages, err := s.ports.QnA.QueryCollection(ctx, input.Query, limit)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	return nil, QueryOutput{Passages: passages, Count: len(passages)}, nil
}

// handleSummarize handles the summarize_document tool invocation.
func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummarizeInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	level, err := domain.ParseLevel(input.Level)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}

	summary, err := s.ports.Summary.SummarizeDocument(ctx, input.DocumentID, level)
	if err != nil {
		return nil, SummarizeOutput{}, err
	}

	return nil, SummarizeOutput{Summary: summary, Level: string(level)}, nil
}

// handleSearchPapers handles the search_papers tool invocation.
func (s *Server) handleSearchPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PaperSearchInput,
) (*mcp.CallToolResult, PaperSearchOutput, error) {
	result, err := s.ports.Papers.SearchPapers(ctx, input.Query)
	if err != nil {
		return nil, PaperSearchOutput{}, err
	}

	return nil, PaperSearchOutput{Titles: result.Titles, Count: len(result.Titles)}, nil
}

// handleSearchAuthor handles the search_author tool invocation.
func (s *Server) handleSearchAuthor(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AuthorSearchInput,
) (*mcp.CallToolResult, AuthorSearchOutput, error) {
	level, err := domain.ParseLevel(input.Level)
	if err != nil {
		return nil, AuthorSearchOutput{}, err
	}

	result, err := s.ports.Papers.SearchAuthor(ctx, input.Name, input.Summarize, level)
	if err != nil {
		return nil, AuthorSearchOutput{}, err
	}

	return nil, AuthorSearchOutput{
		Name:         result.Profile.Name,
		Affiliation:  result.Profile.Affiliation,
		RecentPapers: result.Profile.RecentPapers,
		Summary:      result.Summary,
	}, nil
}
