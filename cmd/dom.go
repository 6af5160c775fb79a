// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rill/internal/analysis"
	"rill/internal/cfg"
	"rill/internal/graph"
)

var domCmd = &cobra.Command{
	Use:   "dom [file]",
	Short: "Print the dominators of each block in source block order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		prog, err := loadInput(args)
		if err != nil {
			return err
		}
		for _, f := range prog.Functions {
			fmt.Printf("@%s:\n", f.Name)
			dom := analysis.Dominators(f)
			for _, name := range cfg.Names(f) {
				fmt.Printf("  %s: %s\n", name, strings.Join(graph.SortedMembers(dom[name]), " "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(domCmd)
}
