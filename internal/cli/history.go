// internal/cli/history.go
package corebench

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd implements 'history', which lists runs saved with --save.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return errors.New("configuration not loaded")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		st, err := openStore(cfg.StorePath())
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintf(out, "No saved runs in %s.\n", cfg.StorePath())
			return nil
		}
		fmt.Fprintf(out, "%-28s %-20s %8s %10s  %s\n", "ID", "CREATED", "WORKERS", "ITERATIONS", "MODE")
		for _, r := range runs {
			fmt.Fprintf(out, "%-28s %-20s %8d %10d  %s\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Workers, r.Iterations, r.Mode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to list (0 lists all)")
}
