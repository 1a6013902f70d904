package layout

import "math"

// schedule computes the initial rectangle and the deterministic expansion
// policy used after an unsat attempt (spec §4.3).
type schedule struct {
	config SolverConfig
}

func newSchedule(config SolverConfig) *schedule {
	return &schedule{config: config}
}

// initial returns (W0, H0): the estimated side from total footprint area
// and the maximum single-node extent, overridden per-axis by
// config.InitialWidth/InitialHeight when present.
func (s *schedule) initial(g *Graph) (w, h int) {
	area := g.TotalArea()
	maxLong, maxShort := g.MaxLongShort()

	side := int(math.Ceil(math.Sqrt(float64(area))))
	if maxLong > side {
		side = maxLong
	}
	if maxShort > side {
		side = maxShort
	}
	if side < 1 {
		side = 1
	}

	w, h = side, side
	if s.config.InitialWidth != nil {
		w = *s.config.InitialWidth
	}
	if s.config.InitialHeight != nil {
		h = *s.config.InitialHeight
	}
	return w, h
}

// next returns the rectangle to try after iteration k (1-indexed, the
// iteration that just came back unsat) fails. Strictly monotone: the
// result strictly dominates (w,h) in at least one axis.
func (s *schedule) next(w, h int, k int) (int, int) {
	step := s.config.ExpansionStep
	if step < 1 {
		step = 1
	}
	switch s.config.FixedDimensionMode {
	case FixedWidth:
		return w, h + step
	case FixedHeight:
		return w + step, h
	default:
		// Alternate axes deterministically: grow width on even k, height on
		// odd k. This choice (rather than the reverse parity) is arbitrary
		// but fixed, per spec §4.3's "whichever is chosen must be
		// deterministic and documented".
		if k%2 == 0 {
			return w + step, h
		}
		return w, h + step
	}
}
