package layout

import (
	"context"
	"errors"
	"time"
)

// controllerState names the iterative controller's coarse state (spec §5
// "Concurrency & resource model" state machine).
type controllerState int

const (
	stateIdle controllerState = iota
	stateSolving
	stateDone
)

// controller drives the bounds schedule (C3) through the encoder (C4), the
// solver driver (C5), and the extractor (C6), streaming progress as it
// goes. One controller serves exactly one Solve call.
type controller struct {
	graph  *Graph
	config SolverConfig
	sched  *schedule

	state controllerState
}

func newController(graph *Graph, config SolverConfig) *controller {
	return &controller{
		graph:  graph,
		config: config,
		sched:  newSchedule(config),
		state:  stateIdle,
	}
}

// run executes the bounds-expansion loop, emitting one ItemAttempt per
// iteration and exactly one terminal ItemSolution, then closing out.
//
// Per spec §5/§7, cancellation, a per-attempt timeout, solver-unknown, and
// iteration exhaustion are not reported on the error channel: each closes
// the stream with a terminal solution carrying the matching status
// (unknown or unsat) and no placements. Only InvalidInput (rejected before
// this runs) and InternalError end the stream with an error instead.
func (ctl *controller) run(ctx context.Context, out chan<- StreamItem) (*LayoutSolution, error) {
	ctl.state = stateSolving
	start := timeNow()

	w, h := ctl.sched.initial(ctl.graph)
	timeout := time.Duration(ctl.config.TimeoutMsPerAttempt) * time.Millisecond

	var attempts []Attempt
	for k := 1; k <= ctl.config.MaxIterations; k++ {
		if ctx.Err() != nil {
			return ctl.terminal(out, StatusUnknown, w, h, nil, nil, attempts, start), nil
		}

		status, placements, segments, attemptErr := ctl.checkOne(ctx, w, h, timeout)
		attempt := Attempt{Iteration: k, Width: w, Height: h, Status: status}
		attempts = append(attempts, attempt)
		emit(out, StreamItem{Type: ItemAttempt, Data: attempt})

		if attemptErr != nil {
			if isRecoverableStatus(attemptErr) {
				return ctl.terminal(out, StatusUnknown, w, h, nil, nil, attempts, start), nil
			}
			ctl.state = stateDone
			return nil, attemptErr
		}

		if status == StatusSat {
			return ctl.terminal(out, StatusSat, w, h, placements, segments, attempts, start), nil
		}

		if status == StatusUnknown {
			return ctl.terminal(out, StatusUnknown, w, h, nil, nil, attempts, start), nil
		}

		w, h = ctl.sched.next(w, h, k)
	}

	return ctl.terminal(out, StatusUnsat, w, h, nil, nil, attempts, start), nil
}

// terminal builds and emits the session's one terminal LayoutSolution,
// marking the controller done.
func (ctl *controller) terminal(out chan<- StreamItem, status Status, w, h int, placements []PlacedBuilding, segments []BeltSegment, attempts []Attempt, start time.Time) *LayoutSolution {
	ctl.state = stateDone
	sol := &LayoutSolution{
		Status:     status,
		Bounds:     Bounds{Width: w, Height: h},
		Placements: placements,
		Segments:   segments,
		Attempts:   attempts,
		ElapsedMs:  elapsedMs(start),
	}
	emit(out, StreamItem{Type: ItemSolution, Data: *sol})
	return sol
}

// isRecoverableStatus reports whether err represents a soft outcome (solver
// cancelled, timed out, or returned unknown for another reason) that spec
// §7 surfaces as a terminal unknown solution rather than a stream error.
func isRecoverableStatus(err error) bool {
	var le *Error
	if !errors.As(err, &le) {
		return false
	}
	switch le.Kind {
	case KindCancelled, KindSolverTimeout, KindSolverUnknown:
		return true
	default:
		return false
	}
}

func (ctl *controller) checkOne(ctx context.Context, w, h int, timeout time.Duration) (Status, []PlacedBuilding, []BeltSegment, error) {
	if ctl.config.UseFallbackEncoding {
		status, placements, err := fallbackCheck(ctx, ctl.graph, w, h, ctl.config.FallbackGap)
		if err != nil {
			return StatusUnknown, nil, nil, err
		}
		p, s := extractFallback(placements)
		return status, p, s, nil
	}

	e := newEncoder(ctl.graph, w, h)
	if err := e.build(); err != nil {
		return StatusUnknown, nil, nil, err
	}

	status, err := runSAT(ctx, e, timeout)
	if err != nil {
		return StatusUnknown, nil, nil, err
	}
	if status != StatusSat {
		return status, nil, nil, nil
	}
	placements, segments := e.extract()
	return StatusSat, placements, segments, nil
}

func emit(out chan<- StreamItem, item StreamItem) {
	if out == nil {
		return
	}
	out <- item
}
