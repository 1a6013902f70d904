package layout

import (
	"context"

	"github.com/foundryflow/layoutengine/pkg/minikanren"
)

// fallbackCheck runs the degenerate arithmetic encoding (spec §4.4
// "Fallback: degenerate arithmetic encoding"): each machine is an integer
// anchor (x,y) with a Diffn non-overlap constraint over rectangles whose
// width and height are inflated by config.FallbackGap (trailing edges
// only), which keeps any two rectangles at least that many cells apart,
// with no routed belts. Used when config.UseFallbackEncoding is
// set, trading routing fidelity for the finite-domain solver's typically
// faster convergence on pure packing instances.
func fallbackCheck(ctx context.Context, graph *Graph, w, h int, gap int) (Status, []PlacedBuilding, error) {
	model := minikanren.NewModel()

	nodes := graph.Nodes()
	xs := make([]*minikanren.FDVariable, len(nodes))
	ys := make([]*minikanren.FDVariable, len(nodes))
	ws := make([]int, len(nodes))
	hs := make([]int, len(nodes))

	for i, n := range nodes {
		f, err := FootprintOf(n.Kind)
		if err != nil {
			return StatusUnknown, nil, newError(KindInvalidInput, err.Error(), err)
		}
		// Inflate each rectangle by gap on the trailing edge so Diffn's
		// "touching is allowed" rectangles end up gap cells apart; domain
		// values are 1-indexed per BitSetDomain convention, representing
		// x+1/y+1 so 0 is never a valid assigned value.
		inflatedW := f.Long + gap
		inflatedH := f.Short + gap
		maxX := w - f.Long + 1
		maxY := h - f.Short + 1
		if maxX < 1 || maxY < 1 {
			return StatusUnsat, nil, nil
		}
		xs[i] = model.NewVariable(minikanren.NewBitSetDomain(maxX))
		ys[i] = model.NewVariable(minikanren.NewBitSetDomain(maxY))
		ws[i] = inflatedW
		hs[i] = inflatedH
	}

	if len(nodes) > 1 {
		if _, err := minikanren.NewDiffn(model, xs, ys, ws, hs); err != nil {
			return StatusUnknown, nil, newError(KindInternal, "fallback diffn", err)
		}
	}

	// Each node's true rectangle must still fit inside the board once
	// inflated sizes are accounted for; the per-variable domain max above
	// already enforces the un-inflated footprint fits, so no extra
	// Arithmetic bound is needed here.

	solver := minikanren.NewSolver(model)
	solutions, err := solver.Solve(ctx, 1)
	if err != nil {
		if ctx.Err() != nil {
			return StatusUnknown, nil, newError(KindCancelled, "fallback solve cancelled", ctx.Err())
		}
		return StatusUnknown, nil, newError(KindSolverUnknown, "fallback solve failed", err)
	}
	if len(solutions) == 0 {
		return StatusUnsat, nil, nil
	}

	assignment := solutions[0]
	placements := make([]PlacedBuilding, len(nodes))
	for i, n := range nodes {
		f, _ := FootprintOf(n.Kind)
		placements[i] = PlacedBuilding{
			NodeID: n.ID,
			X:      assignment[xs[i].ID()] - 1,
			Y:      assignment[ys[i].ID()] - 1,
			W:      f.Long,
			H:      f.Short,
		}
	}
	return StatusSat, placements, nil
}
