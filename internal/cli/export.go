package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foundryflow/layoutengine/pkg/layout"
	"github.com/foundryflow/layoutengine/pkg/layout/export"
	"github.com/foundryflow/layoutengine/pkg/layout/load"
)

func newExportDotCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-dot [graph-file]",
		Short: "Render the production graph as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := load.Graph(args[0])
			if err != nil {
				return err
			}
			dot := export.ToDOT(g)
			return writeOutput(output, []byte(dot))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newExportSVGCmd() *cobra.Command {
	var output, solutionPath string
	cmd := &cobra.Command{
		Use:   "export-svg [graph-file]",
		Short: "Render a solved layout as an SVG tile grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := load.Graph(args[0])
			if err != nil {
				return err
			}
			if solutionPath == "" {
				return fmt.Errorf("export-svg: --solution is required")
			}
			sol, err := loadSolution(solutionPath)
			if err != nil {
				return err
			}
			return writeOutput(output, export.SVG(g, sol))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&solutionPath, "solution", "", "path to a solve() result JSON file to render")
	return cmd
}

func loadSolution(path string) (layout.LayoutSolution, error) {
	var sol layout.LayoutSolution
	data, err := os.ReadFile(path)
	if err != nil {
		return sol, err
	}
	if err := json.Unmarshal(data, &sol); err != nil {
		return sol, fmt.Errorf("export-svg: decoding %s: %w", path, err)
	}
	return sol, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
