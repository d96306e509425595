// internal/cli/eval.go
package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var evalN int

// evalCmd runs a query and asks an OpenRouter model to judge the
// relevance of each retrieved snippet.
var evalCmd = &cobra.Command{
	Use:   "eval <query>",
	Short: "Score retrieval results with an LLM evaluator",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEval(context.Background(), getConfig(), os.Stdout, strings.Join(args, " "), evalN)
	},
}

func init() {
	evalCmd.Flags().IntVar(&evalN, "n", 7, "number of results to evaluate")

	rootCmd.AddCommand(evalCmd)
}
