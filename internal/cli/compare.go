// internal/cli/compare.go
package corebench

import "github.com/spf13/cobra"

// compareCmd implements 'compare', which computes scalability between two
// saved runs.
var compareCmd = &cobra.Command{
	Use:   "compare <baseline> <scaled>",
	Short: "Compare two saved runs",
	Long: `The 'compare' command computes scalability ratios between two runs. Each
argument is either a path to an exported result file or a run ID from the
history store.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, GetConfig(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
