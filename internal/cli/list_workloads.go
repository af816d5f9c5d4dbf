// internal/cli/list_workloads.go
package corebench

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/corebench/internal/workloads"
)

// workloadsCmd implements 'list workloads', which prints the registered
// workloads with their reference times and arguments.
var workloadsCmd = &cobra.Command{
	Use:   "workloads",
	Short: "List the built-in workloads",
	Run: func(cmd *cobra.Command, args []string) {
		runListWorkloads(cmd.OutOrStdout())
	},
}

func init() {
	listCmd.AddCommand(workloadsCmd)
}

func runListWorkloads(out io.Writer) {
	fmt.Fprintf(out, "%-12s %-10s %-6s %-7s %-10s %s\n", "NAME", "REFERENCE", "QUICK", "NORMAL", "EXPECTED", "SUMMARY")
	for _, w := range workloads.All() {
		expected := "-"
		if w.Expected != nil {
			expected = fmt.Sprint(w.Expected)
		}
		fmt.Fprintf(out, "%-12s %-10s %-6s %-7s %-10s %s\n", w.Name, w.Reference, optionalInt(w.QuickArg), optionalInt(w.NormalArg), expected, w.Summary)
	}
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}
