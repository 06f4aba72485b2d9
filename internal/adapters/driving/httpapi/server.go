// Package httpapi exposes the application's use cases over a JSON HTTP
// API. Every response carries the request id assigned on the way in;
// errors are reported as {"error_kind": ..., "message": ...} payloads
// with a status derived from the domain error.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
	"github.com/quill-labs/paperdesk/internal/logger"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8000"

// maxUploadBytes bounds upload request bodies.
const maxUploadBytes = 32 << 20 // 32 MiB

// Server is the HTTP API server.
type Server struct {
	registry driving.DocumentRegistry
	ingest   driving.IngestService
	qna      driving.QnAService
	summary  driving.SummaryService
	papers   driving.PaperService

	addr string
}

// Config holds server configuration.
type Config struct {
	// Addr is the listen address (default :8000).
	Addr string
}

// NewServer creates the HTTP API server over the given services.
func NewServer(cfg Config, registry driving.DocumentRegistry, ingest driving.IngestService, qna driving.QnAService, summary driving.SummaryService, papers driving.PaperService) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return &Server{
		registry: registry,
		ingest:   ingest,
		qna:      qna,
		summary:  summary,
		papers:   papers,
		addr:     cfg.Addr,
	}
}

// Handler returns the routed handler, wrapped with request id
// assignment and logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /ask_question", s.handleAskQuestion)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("POST /summarize_search", s.handleSummarizeSearch)
	mux.HandleFunc("POST /search_papers", s.handleSearchPapers)
	mux.HandleFunc("POST /search_author", s.handleSearchAuthor)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	return s.withRequestID(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("http api listening on %s", s.addr)
	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// requestIDHeader carries the per-request id in responses.
const requestIDHeader = "X-Request-ID"

// withRequestID assigns a uuid to each request and logs completion.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("%s %s [%s] in %s", r.Method, r.URL.Path, id, time.Since(start))
	})
}
