// internal/cli/doctor.go
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var doctorLive bool

// doctorCmd reports configuration and backend health.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and embedding backend health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(context.Background(), getConfig(), os.Stdout, doctorLive)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorLive, "live", false, "run a live embedding request (may call APIs)")

	rootCmd.AddCommand(doctorCmd)
}
