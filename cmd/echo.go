// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rill/internal/ir"
)

var echoCmd = &cobra.Command{
	Use:   "main [file]",
	Short: "Parse a program and echo it back",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		prog, err := loadInput(args)
		if err != nil {
			return err
		}
		fmt.Print(ir.PrintProgram(prog))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(echoCmd)
}
