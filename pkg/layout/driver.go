package layout

import (
	"context"
	"time"
)

// runSAT drives one encoder's CNF through gini's cancellable solve loop
// (inter.GoSolvable: GoSolve returns a handle supporting Try(dur) and
// Stop()), honoring both ctx cancellation and the per-attempt timeout.
func runSAT(ctx context.Context, e *encoder, timeout time.Duration) (Status, error) {
	handle := e.c.g.GoSolve()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	pollEvery := 50 * time.Millisecond
	if pollEvery > timeout {
		pollEvery = timeout
	}

	for {
		select {
		case <-ctx.Done():
			handle.Stop()
			return StatusUnknown, newError(KindCancelled, "solve cancelled", ctx.Err())
		case <-deadline.C:
			handle.Stop()
			return StatusUnknown, nil
		default:
		}

		switch res := handle.Try(pollEvery); res {
		case 1:
			return StatusSat, nil
		case -1:
			return StatusUnsat, nil
		default:
			// 0: unknown yet, keep polling until ctx/deadline fires.
		}
	}
}
