// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var rootCmd = &cobra.Command{
	Use:   "rill",
	Short: "rill - optimization passes over a three-address IR",
	Long: `rill ingests a program in JSON or text form, decomposes each function
into basic blocks and a control-flow graph, and applies classical
analyses and transformations: value numbering, dead-code elimination,
reaching definitions, dominance analysis, and SSA conversion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetCount("verbose") //nolint:all
		commonlog.Configure(verbose, nil)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity")
}
