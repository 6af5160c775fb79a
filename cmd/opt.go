// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rill/internal/ir"
	"rill/internal/opt"
)

var optCmd = &cobra.Command{
	Use:   "opt [file]",
	Short: "Value numbering, then dead-variable and dead-store elimination",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runPipeline(opt.OptPipeline(), args)
	},
}

var foldCmd = &cobra.Command{
	Use:   "fold [file]",
	Short: "Value numbering with constant folding",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runPipeline(opt.FoldPipeline(), args)
	},
}

var foldOptCmd = &cobra.Command{
	Use:   "foldopt [file]",
	Short: "Folding value numbering, then the dead-code passes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runPipeline(opt.FoldOptPipeline(), args)
	},
}

func runPipeline(pipeline *opt.Pipeline, args []string) error {
	prog, err := loadInput(args)
	if err != nil {
		return err
	}
	optimized, err := pipeline.Run(prog)
	if err != nil {
		return err
	}
	fmt.Print(ir.PrintProgram(optimized))
	return nil
}

func init() {
	rootCmd.AddCommand(optCmd)
	rootCmd.AddCommand(foldCmd)
	rootCmd.AddCommand(foldOptCmd)
}
