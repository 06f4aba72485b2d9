package cli

import (
	"github.com/spf13/cobra"

	"github.com/quill-labs/paperdesk/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the JSON HTTP API.

Endpoints:
  POST /upload          multipart file ingestion
  POST /ask_question    question answering over the collection
  POST /summarize       document or raw text summarization
  POST /summarize_search summarize a stored search result
  POST /search_papers   external paper search
  POST /search_author   author profile lookup
  GET  /documents       list indexed document ids
  GET  /healthz         liveness probe`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", httpapi.DefaultAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server := httpapi.NewServer(httpapi.Config{Addr: serveAddr},
		registryService, ingestService, qnaService, summaryService, paperService)
	return server.Run(cmd.Context())
}
