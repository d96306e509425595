// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/ragzotero/rag-zotero/internal/appconfig"
	"github.com/ragzotero/rag-zotero/internal/logging"
	"github.com/spf13/cobra"
)

var currentConfig *appconfig.Config

var rootCmd = &cobra.Command{
	Use:   "rag-zotero",
	Short: "Index a Zotero library into a local vector store and query it",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logging.Init(cfg.LogFile); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		currentConfig = cfg
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	defer func() { _ = logging.Close() }()
	if err := rootCmd.Execute(); err != nil {
		_ = logging.Close()
		os.Exit(1)
	}
}

// getConfig returns the configuration materialized by the root command.
func getConfig() *appconfig.Config {
	return currentConfig
}
