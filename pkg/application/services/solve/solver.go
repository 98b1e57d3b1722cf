package solve

import (
	"context"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
)

// Status is the solver's verdict on one solve. Statuses are data, returned as
// typed results; they are never translated into Go errors. The error return
// of Solve is reserved for adapter failures (bad binary, I/O, cancellation).
type Status int

const (
	// StatusOptimal means the solver proved optimality within the gap.
	StatusOptimal Status = iota
	// StatusFeasibleWithinLimit means the time limit expired with a feasible
	// incumbent. This is a usable, possibly suboptimal result and must never
	// be conflated with failure.
	StatusFeasibleWithinLimit
	// StatusInfeasible means the solver proved no feasible point exists.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded below.
	StatusUnbounded
	// StatusError means the solver terminated abnormally.
	StatusError
)

// String method for Status enum
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasibleWithinLimit:
		return "feasible-within-limit"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Usable reports whether the result carries a variable assignment worth
// consuming
func (s Status) Usable() bool {
	return s == StatusOptimal || s == StatusFeasibleWithinLimit
}

// Options configures one solve call
type Options struct {
	// TimeLimit bounds wall-clock time. Zero means no limit. Expiry yields
	// the best feasible point found so far, not an error.
	TimeLimit time.Duration
	// RelativeGap is the MIP gap at which the solver may stop.
	RelativeGap float64
	// WarmStart optionally seeds the search with a prior assignment. The
	// solver may reject a locally infeasible hint; rejection is reported on
	// the result, not as an error.
	WarmStart model.Assignment
}

// Result is the outcome of one solve call
type Result struct {
	Status    Status
	Objective float64
	// Gap is the achieved relative optimality gap, meaningful for
	// StatusFeasibleWithinLimit.
	Gap float64
	// Values holds per-variable values when Status.Usable().
	Values model.Assignment
	// WarmStartRejected is set when a supplied hint was ignored by the
	// solver. Non-fatal, but it silently degrades performance and must be
	// counted by callers.
	WarmStartRejected bool
	Runtime           time.Duration
}

// Solver is the external MILP oracle. Implementations run one blocking solve
// at a time; cancellation is time-limit-only.
type Solver interface {
	Solve(ctx context.Context, m *model.Model, opts Options) (*Result, error)
}
