// internal/cli/run.go
package corebench

import "github.com/spf13/cobra"

// runCmd implements 'run', which executes the configured benchmark suite and
// reports its aggregate result.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark suite",
	Long: `The 'run' command executes every selected benchmark on the configured number
of workers for the configured iterations (or duration budget), verifies returned
values and reports per-benchmark and total scores or times.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuite(cmd, GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
