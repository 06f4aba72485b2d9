package cli

import (
	"github.com/spf13/cobra"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// summarizeLevel selects the target expertise level.
var summarizeLevel string

var summarizeCmd = &cobra.Command{
	Use:   "summarize [doc-id]",
	Short: "Summarize an indexed document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeLevel, "level", "l", "", "expertise level: beginner, intermediate, or expert")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	level, err := domain.ParseLevel(summarizeLevel)
	if err != nil {
		return err
	}

	summary, err := summaryService.SummarizeDocument(cmd.Context(), args[0], level)
	if err != nil {
		return err
	}

	cmd.Println(summary)
	return nil
}
