// internal/cli/scan.go
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	scanStorageDir string
	scanExportJSON string
	scanLimit      int
	scanJSONOutput bool
)

// scanCmd lists the indexable files in a Zotero storage folder,
// optionally joined with metadata from a library export.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List indexable files in a Zotero storage folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(os.Stdout, scanStorageDir, scanExportJSON, scanLimit, scanJSONOutput)
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanStorageDir, "storage-dir", "", "path to the Zotero storage/ folder")
	scanCmd.Flags().StringVar(&scanExportJSON, "export-json", "", "path to a Zotero/BetterBibTeX JSON export for metadata")
	scanCmd.Flags().IntVar(&scanLimit, "limit", 1000, "max files to print")
	scanCmd.Flags().BoolVar(&scanJSONOutput, "json", false, "output machine-readable JSON")
	_ = scanCmd.MarkFlagRequired("storage-dir")

	rootCmd.AddCommand(scanCmd)
}
