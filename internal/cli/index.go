// internal/cli/index.go
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var (
	indexStorageDir      string
	indexExportJSON      string
	indexLimit           int
	indexContinueOnError bool
)

// indexCmd runs the extract → chunk → embed → store pipeline over a
// Zotero storage folder.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index a Zotero storage folder into the vector store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIndex(context.Background(), getConfig(), os.Stdout, indexStorageDir, indexExportJSON, indexLimit, indexContinueOnError)
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexStorageDir, "storage-dir", "", "path to the Zotero storage/ folder")
	indexCmd.Flags().StringVar(&indexExportJSON, "export-json", "", "path to a Zotero/BetterBibTeX JSON export for metadata")
	indexCmd.Flags().IntVar(&indexLimit, "limit", 0, "index only the first N files (0 = all)")
	indexCmd.Flags().BoolVar(&indexContinueOnError, "continue-on-error", true, "continue if a file fails to index")
	_ = indexCmd.MarkFlagRequired("storage-dir")

	rootCmd.AddCommand(indexCmd)
}
