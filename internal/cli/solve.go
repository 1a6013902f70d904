package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/foundryflow/layoutengine/pkg/layout"
	"github.com/foundryflow/layoutengine/pkg/layout/cache"
	"github.com/foundryflow/layoutengine/pkg/layout/load"
)

type solveOpts struct {
	configPath string
	format     string
	watch      bool
	cacheAddr  string
}

func newSolveCmd() *cobra.Command {
	opts := solveOpts{format: "json"}

	cmd := &cobra.Command{
		Use:   "solve [graph-file]",
		Short: "Solve a production graph into a grid layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "solver config file (json/yaml/toml)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "output format: json or msgpack")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "show a live attempt viewer instead of printing the stream")
	cmd.Flags().StringVar(&opts.cacheAddr, "cache-addr", "", "Redis address for solution caching (empty disables caching)")

	return cmd
}

func runSolve(cmd *cobra.Command, graphPath string, opts *solveOpts) error {
	ctx := layout.WithLogger(cmd.Context(), loggerFromContext(cmd.Context()))
	logger := loggerFromContext(ctx)

	g, err := load.Graph(graphPath)
	if err != nil {
		return err
	}

	config := layout.DefaultSolverConfig()
	if opts.configPath != "" {
		config, err = load.Config(opts.configPath)
		if err != nil {
			return err
		}
	}

	raw := graphToRaw(g)

	if opts.watch {
		return runWatch(ctx, raw, config)
	}

	if opts.cacheAddr != "" {
		store := cache.New(opts.cacheAddr, "layoutengine:", 0)
		defer store.Close()
		sol, err := store.Solve(ctx, raw, config)
		if err != nil {
			return err
		}
		return writeSolution(cmd, sol, opts.format)
	}

	items, errs := layout.Solve(ctx, raw, config)
	var sol layout.LayoutSolution
	for item := range items {
		switch item.Type {
		case layout.ItemAttempt:
			a := item.Data.(layout.Attempt)
			logger.Infof("attempt %d: %dx%d -> %s", a.Iteration, a.Width, a.Height, a.Status)
		case layout.ItemSolution:
			sol = item.Data.(layout.LayoutSolution)
		}
	}
	if err := <-errs; err != nil {
		return err
	}
	return writeSolution(cmd, sol, opts.format)
}

func writeSolution(cmd *cobra.Command, sol layout.LayoutSolution, format string) error {
	switch format {
	case "msgpack":
		data, err := msgpack.Marshal(sol)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	}
}

func graphToRaw(g *layout.Graph) *layout.ProductionGraph {
	raw := g.Raw()
	return &raw
}
