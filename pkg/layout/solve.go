package layout

import (
	"context"
)

// Solve validates graph, then runs the iterative bounds-expansion loop
// (C3-C7) in its own goroutine, streaming attempts and the terminal
// solution on the returned channel. The error channel receives at most one
// value, after which both channels are closed; it only fires for
// InvalidInput (synchronous, before any attempt streams) and InternalError.
// Cancelling ctx, a per-attempt timeout, solver-unknown, and iteration
// exhaustion all close the stream with a terminal solution instead (status
// unknown or unsat, see controller.run), never with an error.
func Solve(ctx context.Context, graph *ProductionGraph, config SolverConfig) (<-chan StreamItem, <-chan error) {
	items := make(chan StreamItem)
	errs := make(chan error, 1)

	go func() {
		defer close(items)
		defer close(errs)

		g, err := NewGraph(*graph)
		if err != nil {
			errs <- err
			return
		}

		config = config.withDefaults()
		if err := config.Validate(); err != nil {
			errs <- err
			return
		}

		logger := loggerFromContext(ctx).With("graphId", g.Raw().ID, "nodes", len(g.Nodes()), "edges", len(g.Edges()))
		logger.Debug("starting solve", "fixedDimensionMode", config.FixedDimensionMode, "maxIterations", config.MaxIterations)

		ctl := newController(g, config)
		sol, err := ctl.run(ctx, items)
		if err != nil {
			logger.Warn("solve aborted with an error", "err", err)
			errs <- err
			return
		}
		logger.Info("solve reached a terminal solution", "status", sol.Status, "width", sol.Bounds.Width, "height", sol.Bounds.Height, "attempts", len(sol.Attempts))
	}()

	return items, errs
}
