package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// askDocID restricts answering to a single document.
var askDocID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed papers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocID, "document", "d", "", "answer from this document only")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	answer, err := qnaService.AnswerQuestion(cmd.Context(), question, askDocID)
	if err != nil {
		return err
	}

	cmd.Println(answer.Answer)
	if verbose && answer.RelevantText != "" {
		cmd.Println("\n--- Supporting passages ---")
		cmd.Println(answer.RelevantText)
	}
	return nil
}
