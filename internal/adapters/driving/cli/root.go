// Package cli implements the paperdesk command line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/quill-labs/paperdesk/internal/core/ports/driven"
	"github.com/quill-labs/paperdesk/internal/core/ports/driving"
	"github.com/quill-labs/paperdesk/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands, injected through Execute.
var (
	registryService driving.DocumentRegistry
	ingestService   driving.IngestService
	qnaService      driving.QnAService
	summaryService  driving.SummaryService
	paperService    driving.PaperService
	configStore     driven.ConfigStore
)

// Deps bundles everything the commands need.
type Deps struct {
	Registry driving.DocumentRegistry
	Ingest   driving.IngestService
	QnA      driving.QnAService
	Summary  driving.SummaryService
	Papers   driving.PaperService
	Config   driven.ConfigStore
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "paperdesk",
	Short: "Research paper assistant",
	Long: `PaperDesk indexes research papers into a local vector store and
answers questions about them, produces multi-level summaries, and
searches external paper databases.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute wires dependencies and runs the root command.
func Execute(ctx context.Context, deps Deps) error {
	registryService = deps.Registry
	ingestService = deps.Ingest
	qnaService = deps.QnA
	summaryService = deps.Summary
	paperService = deps.Papers
	configStore = deps.Config

	return rootCmd.ExecuteContext(ctx)
}
