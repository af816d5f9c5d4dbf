// internal/cli/show_config.go
package corebench

import (
	"github.com/spf13/cobra"
)

var showConfigDump bool

// showConfigCmd implements 'show config', which prints the merged
// configuration so file values and flag overrides can be checked.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		runShowConfig(cmd.OutOrStdout(), GetConfig(), showConfigDump)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	showConfigCmd.Flags().BoolVar(&showConfigDump, "dump", false, "pretty-print the full configuration struct")
}
