package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Search external paper databases",
}

var papersSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for papers by topic and index the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPapersSearch,
}

var papersAuthorCmd = &cobra.Command{
	Use:   "author [name]",
	Short: "Look up an author profile and index it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPapersAuthor,
}

// Author command flags.
var (
	authorSummarize bool
	authorLevel     string
)

func init() {
	papersAuthorCmd.Flags().BoolVarP(&authorSummarize, "summarize", "s", false, "also summarize the profile")
	papersAuthorCmd.Flags().StringVarP(&authorLevel, "level", "l", "", "expertise level for the summary")

	papersCmd.AddCommand(papersSearchCmd)
	papersCmd.AddCommand(papersAuthorCmd)
	rootCmd.AddCommand(papersCmd)
}

func runPapersSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	result, err := paperService.SearchPapers(cmd.Context(), query)
	if err != nil {
		return err
	}

	if len(result.Titles) == 0 {
		cmd.Println("No papers found.")
		return nil
	}
	for i, title := range result.Titles {
		cmd.Printf("%d. %s\n", i+1, title)
	}
	if len(result.FailedIndexes) > 0 {
		cmd.Printf("Warning: %d result(s) could not be indexed.\n", len(result.FailedIndexes))
	}
	return nil
}

func runPapersAuthor(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	level, err := domain.ParseLevel(authorLevel)
	if err != nil {
		return err
	}

	result, err := paperService.SearchAuthor(cmd.Context(), name, authorSummarize, level)
	if err != nil {
		return err
	}

	cmd.Println(result.Profile.Text())
	if result.Summary != "" {
		cmd.Println("\n--- Summary ---")
		cmd.Println(result.Summary)
	}
	return nil
}
