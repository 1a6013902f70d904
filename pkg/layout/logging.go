package layout

import (
	"context"

	"github.com/charmbracelet/log"
)

// ctxKey is a distinct type for context keys used in this package, to avoid
// collisions with keys set by other packages.
type ctxKey int

const loggerKey ctxKey = 0

// WithLogger attaches l to ctx so Solve logs through it instead of the
// package default. Callers that don't attach one get log.Default().
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
