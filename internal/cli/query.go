// internal/cli/query.go
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	queryN          int
	queryJSONOutput bool
)

// queryCmd embeds the query text and prints the nearest chunks.
var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Query the vector store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(context.Background(), getConfig(), os.Stdout, strings.Join(args, " "), queryN, queryJSONOutput)
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryN, "n", 7, "number of results")
	queryCmd.Flags().BoolVar(&queryJSONOutput, "json", false, "output machine-readable JSON")

	rootCmd.AddCommand(queryCmd)
}
