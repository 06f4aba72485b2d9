package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadResponse is the /upload response shape.
type uploadResponse struct {
	DocID  string `json:"doc_id"`
	IsNew  bool   `json:"is_new"`
	Chunks int    `json:"chunks"`
}

// handleUpload ingests a multipart file upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: missing file field", domain.ErrInvalidInput))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("%w: reading upload: %v", domain.ErrInvalidInput, err))
		return
	}

	result, err := s.ingest.Ingest(r.Context(), content, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if !result.IsNew {
		status = http.StatusOK
	}
	writeJSON(w, status, uploadResponse{
		DocID:  result.DocID,
		IsNew:  result.IsNew,
		Chunks: result.Chunks,
	})
}

// askRequest is the /ask_question request shape.
type askRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
}

// askResponse is the /ask_question response shape.
type askResponse struct {
	Answer          string   `json:"answer"`
	RelevantTextIDs []int    `json:"relevant_text_ids,omitempty"`
	RelevantText    string   `json:"relevant_text,omitempty"`
	FullResults     []string `json:"full_results,omitempty"`
}

// handleAskQuestion answers a question over the collection or one
// document.
func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	answer, err := s.qna.AnswerQuestion(r.Context(), req.Question, req.DocumentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:          answer.Answer,
		RelevantTextIDs: answer.RelevantTextIDs,
		RelevantText:    answer.RelevantText,
		FullResults:     answer.FullResults,
	})
}

// summarizeRequest is the /summarize request shape. Exactly one of
// document_id and text must be set.
type summarizeRequest struct {
	DocumentID string `json:"document_id,omitempty"`
	Text       string `json:"text,omitempty"`
	Level      string `json:"level,omitempty"`
}

// summarizeResponse is the /summarize response shape.
type summarizeResponse struct {
	Summary string `json:"summary"`
	Level   string `json:"level"`
}

// handleSummarize summarizes a stored document or raw text.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		writeError(w, err)
		return
	}

	var summary string
	switch {
	case req.DocumentID != "" && req.Text != "":
		writeError(w, fmt.Errorf("%w: set either document_id or text, not both", domain.ErrInvalidInput))
		return
	case req.DocumentID != "":
		summary, err = s.summary.SummarizeDocument(r.Context(), req.DocumentID, level)
	case req.Text != "":
		summary, err = s.summary.SummarizeText(r.Context(), req.Text, level)
	default:
		writeError(w, fmt.Errorf("%w: document_id or text is required", domain.ErrInvalidInput))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary, Level: string(level)})
}

// summarizeSearchRequest is the /summarize_search request shape.
type summarizeSearchRequest struct {
	SearchID string `json:"search_id"`
	Level    string `json:"level,omitempty"`
}

// handleSummarizeSearch summarizes a previously stored search result.
func (s *Server) handleSummarizeSearch(w http.ResponseWriter, r *http.Request) {
	var req summarizeSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SearchID == "" {
		writeError(w, fmt.Errorf("%w: search_id is required", domain.ErrInvalidInput))
		return
	}

	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.summary.SummarizeDocument(r.Context(), req.SearchID, level)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary, Level: string(level)})
}

// paperSearchRequest is the /search_papers request shape.
type paperSearchRequest struct {
	Query string `json:"query"`
}

// paperSearchResponse is the /search_papers response shape.
type paperSearchResponse struct {
	Titles        []string `json:"titles"`
	FailedIndexes []int    `json:"failed_indexes,omitempty"`
}

// handleSearchPapers searches external databases and indexes the hits.
func (s *Server) handleSearchPapers(w http.ResponseWriter, r *http.Request) {
	var req paperSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.papers.SearchPapers(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paperSearchResponse{
		Titles:        result.Titles,
		FailedIndexes: result.FailedIndexes,
	})
}

// authorSearchRequest is the /search_author request shape.
type authorSearchRequest struct {
	Name      string `json:"name"`
	Summarize bool   `json:"summarize,omitempty"`
	Level     string `json:"level,omitempty"`
}

// authorSearchResponse is the /search_author response shape.
type authorSearchResponse struct {
	Name         string   `json:"name"`
	Affiliation  string   `json:"affiliation,omitempty"`
	TopCited     []string `json:"top_cited,omitempty"`
	RecentPapers []string `json:"recent_papers,omitempty"`
	Summary      string   `json:"summary,omitempty"`
}

// handleSearchAuthor looks up and indexes an author profile.
func (s *Server) handleSearchAuthor(w http.ResponseWriter, r *http.Request) {
	var req authorSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	level, err := domain.ParseLevel(req.Level)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.papers.SearchAuthor(r.Context(), req.Name, req.Summarize, level)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authorSearchResponse{
		Name:         result.Profile.Name,
		Affiliation:  result.Profile.Affiliation,
		TopCited:     result.Profile.TopCited,
		RecentPapers: result.Profile.RecentPapers,
		Summary:      result.Summary,
	})
}

// listDocumentsResponse is the /documents response shape.
type listDocumentsResponse struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
}

// handleListDocuments lists all indexed document ids.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids, err := s.registry.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listDocumentsResponse{IDs: ids, Count: len(ids)})
}

// documentResponse is the /documents/{id} response shape.
type documentResponse struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// handleGetDocument returns one document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.registry.Retrieve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse{
		ID:       doc.ID,
		Text:     doc.Text,
		Metadata: doc.Metadata,
	})
}

// handleDeleteDocument removes one document.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
