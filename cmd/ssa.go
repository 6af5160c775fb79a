// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rill/internal/ir"
	"rill/internal/ssa"
)

var ssaCmd = &cobra.Command{
	Use:   "ssa [file]",
	Short: "Convert every function to static single assignment form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		prog, err := loadInput(args)
		if err != nil {
			return err
		}
		out := &ir.Program{}
		for _, f := range prog.Functions {
			converted, err := ssa.Convert(f)
			if err != nil {
				return err
			}
			out.Functions = append(out.Functions, converted)
		}
		fmt.Print(ir.PrintProgram(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ssaCmd)
}
