// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rill/internal/cfg"
)

var cfgCmd = &cobra.Command{
	Use:   "cfg [file]",
	Short: "Emit the control-flow graph of the first function as Graphviz",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		prog, err := loadInput(args)
		if err != nil {
			return err
		}
		for _, f := range prog.Functions {
			fmt.Println(cfg.Dot(f))
			break
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cfgCmd)
}
