package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `Upload, list, view, or remove indexed documents.`,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Ingest a file into the collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentUpload,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed document ids",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentClear,
}

// clearConfirmed is a flag for the clear command.
var clearConfirmed bool

func init() {
	documentClearCmd.Flags().BoolVarP(&clearConfirmed, "yes", "y", false, "confirm clearing the whole collection")

	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentClearCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := ingestService.Ingest(cmd.Context(), content, filepath.Base(path))
	if err != nil {
		return err
	}

	if !result.IsNew {
		cmd.Printf("Already indexed as %s (%d chunks)\n", result.DocID, result.Chunks)
		return nil
	}
	cmd.Printf("Indexed %s (%d chunks)\n", result.DocID, result.Chunks)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	ids, err := registryService.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	doc, err := registryService.Retrieve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	cmd.Println(doc.Text)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := registryService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runDocumentClear(cmd *cobra.Command, _ []string) error {
	if !clearConfirmed {
		return fmt.Errorf("refusing to clear without --yes")
	}
	if err := registryService.ClearAll(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Collection cleared.")
	return nil
}
