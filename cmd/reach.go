// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"rill/internal/analysis"
)

var reachCmd = &cobra.Command{
	Use:   "reach [file]",
	Short: "Print reaching definitions per block",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		prog, err := loadInput(args)
		if err != nil {
			return err
		}
		for _, f := range prog.Functions {
			fmt.Printf("@%s:\n", f.Name)
			result := analysis.ReachingDefinitions(f)

			blocks := make([]string, 0, len(result))
			for name := range result {
				blocks = append(blocks, name)
			}
			sort.Strings(blocks)

			for _, name := range blocks {
				fmt.Printf("  %s:\n", name)
				fmt.Printf("    in:  %s\n", formatDefs(result[name].In))
				fmt.Printf("    out: %s\n", formatDefs(result[name].Out))
			}
		}
		return nil
	},
}

func formatDefs(defs analysis.DefSet) string {
	names := make([]string, 0, len(defs))
	for d := range defs {
		names = append(names, d.String())
	}
	sort.Strings(names)
	return strings.Join(names, " ")
}

func init() {
	rootCmd.AddCommand(reachCmd)
}
