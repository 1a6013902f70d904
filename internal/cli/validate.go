package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/foundryflow/layoutengine/pkg/layout/load"
	"github.com/foundryflow/layoutengine/pkg/layout/validate"
)

func newValidateCmd() *cobra.Command {
	var solutionPath string
	cmd := &cobra.Command{
		Use:   "validate [graph-file]",
		Short: "Re-check a solve() result against non-overlap, adjacency, and containment invariants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := load.Graph(args[0])
			if err != nil {
				return err
			}
			sol, err := loadSolution(solutionPath)
			if err != nil {
				return err
			}
			result := validate.Solution(g, sol)
			return printValidation(cmd, result)
		},
	}
	cmd.Flags().StringVar(&solutionPath, "solution", "", "path to a solve() result JSON file")
	cmd.MarkFlagRequired("solution")
	return cmd
}

func printValidation(cmd *cobra.Command, result validate.Result) error {
	out := cmd.OutOrStdout()
	if result.OK() {
		fmt.Fprintln(out, color.GreenString("layout is valid"))
		return nil
	}
	fmt.Fprintln(out, color.RedString("layout has %d violation(s):", len(result.Violations)))
	for _, v := range result.Violations {
		fmt.Fprintf(out, "  - %s\n", v)
	}
	return fmt.Errorf("%d invariant violation(s)", len(result.Violations))
}
