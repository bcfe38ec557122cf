package frame

import (
	"log/slog"

	"github.com/san-kum/framesim/internal/logger"
	"github.com/san-kum/framesim/internal/solver"
)

// DefaultEvalPoints is the number of recovery stations per element.
const DefaultEvalPoints = 11

type options struct {
	evalPoints int
	snapTol    float64
	parallel   bool
	strategy   solver.Strategy
	log        *slog.Logger
}

type Option func(*options)

func defaultOptions() options {
	return options{
		evalPoints: DefaultEvalPoints,
		strategy:   solver.NewLU(solver.DefaultMaxCondition),
	}
}

// WithEvalPoints sets the number of stations used by sectional-force recovery.
func WithEvalPoints(n int) Option {
	return func(o *options) { o.evalPoints = n }
}

// WithSnapTolerance merges endpoints whose coordinates differ by at most
// tol in both x and y. Zero keeps exact equality.
func WithSnapTolerance(tol float64) Option {
	return func(o *options) { o.snapTol = tol }
}

// WithParallel computes element matrices and recovery concurrently.
// Scatter-add into the global system stays sequential.
func WithParallel(on bool) Option {
	return func(o *options) { o.parallel = on }
}

func WithStrategy(s solver.Strategy) Option {
	return func(o *options) {
		if s != nil {
			o.strategy = s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func (o *options) logger() *slog.Logger {
	if o.log != nil {
		return o.log
	}
	return logger.L()
}
