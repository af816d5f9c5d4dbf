// internal/cli/scale.go
package corebench

import "github.com/spf13/cobra"

// scaleCmd implements 'scale', which runs the suite on one worker and on many
// workers and reports how well each benchmark scales.
var scaleCmd = &cobra.Command{
	Use:   "scale",
	Short: "Measure multi-core scalability against a single-worker baseline",
	Long: `The 'scale' command runs the suite once with a single worker and once with
--workers workers (the host's logical CPU count by default), then reports the
per-benchmark and total scalability ratios.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScale(cmd, GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(scaleCmd)
}
