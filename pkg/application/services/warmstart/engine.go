package warmstart

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/cohort"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/solve"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/logging"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/observability"
)

// DefaultOverlapThreshold flags cross-horizon transfers that recover less
// than this fraction of the target's date-bearing keys as low quality.
const DefaultOverlapThreshold = 0.70

// Snapshot is a read-only copy of a solved assignment together with the
// horizon it was solved over. Snapshots never alias live model variables.
type Snapshot struct {
	Values  model.Assignment
	Horizon cohort.Horizon
}

// ShiftResult is the outcome of a cross-horizon transfer
type ShiftResult struct {
	Hints model.Assignment
	// OverlapRatio is the fraction of the target model's date-bearing keys
	// recovered from the shifted snapshot.
	OverlapRatio float64
	// LowQuality is set when the ratio falls below the engine threshold. The
	// hints are still usable; callers wanting a cold start instead should
	// discard them.
	LowQuality bool
}

// RejectedError reports a hint that is locally infeasible for the target
// model. Non-fatal: callers fall back to a cold solve, but every rejection is
// logged and counted because it silently degrades performance.
type RejectedError struct {
	Violations []model.Violation
}

func (e *RejectedError) Error() string {
	if len(e.Violations) == 0 {
		return "warm start rejected"
	}
	preview := make([]string, 0, 3)
	for i, v := range e.Violations {
		if i == 3 {
			break
		}
		preview = append(preview, v.String())
	}
	return fmt.Sprintf("warm start rejected: %d violations (%s)", len(e.Violations), strings.Join(preview, "; "))
}

// IsRejected reports whether err is a warm-start rejection
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

// Engine extracts, transfers and date-shifts partial solutions between model
// phases and between successive daily solves. The engine itself carries no
// solution state; ownership of snapshots stays with the caller.
type Engine struct {
	overlapThreshold float64
	log              logging.Logger
	metrics          *observability.Collector
}

// NewEngine creates a warm-start engine. A zero threshold selects the
// default.
func NewEngine(overlapThreshold float64, log logging.Logger, metrics *observability.Collector) *Engine {
	if overlapThreshold <= 0 {
		overlapThreshold = DefaultOverlapThreshold
	}
	if log == nil {
		log = logging.Noop()
	}
	if metrics == nil {
		metrics = observability.Nop()
	}
	return &Engine{overlapThreshold: overlapThreshold, log: log, metrics: metrics}
}

// Extract copies the solved values of every declared variable into a
// read-only snapshot. Results that carry no usable assignment yield nil.
func (e *Engine) Extract(m *model.Model, res *solve.Result, horizon cohort.Horizon) *Snapshot {
	if res == nil || !res.Status.Usable() || res.Values == nil {
		return nil
	}
	values := make(model.Assignment, len(res.Values))
	for _, v := range m.Variables() {
		if x, ok := res.Values[v.Key]; ok {
			values[v.Key] = x
		}
	}
	return &Snapshot{Values: values, Horizon: horizon}
}

// ShiftAssignment moves every date-bearing key forward by days and drops
// keys whose shifted dates fall outside the horizon. Date-free keys (such as
// pattern weekday binaries) pass through unchanged. Shifting forward by D
// and back by D, intersected with the original horizon, reproduces the
// original subset.
func ShiftAssignment(values model.Assignment, days int, horizon cohort.Horizon) model.Assignment {
	out := make(model.Assignment, len(values))
	for k, v := range values {
		if !k.DateBearing() {
			out[k] = v
			continue
		}
		nk := k.Shifted(days)
		if !nk.Date.IsZero() && !horizon.Contains(nk.Date) {
			continue
		}
		if !nk.ProductionDate.IsZero() && nk.ProductionDate.After(horizon.End) {
			continue
		}
		out[nk] = v
	}
	return out
}

// ShiftForward performs a cross-horizon transfer: the snapshot's keys are
// shifted by days, intersected with the target model's declared variables,
// and scored by overlap ratio. Below-threshold transfers are flagged and
// counted but still returned; the caller decides whether to cold start.
func (e *Engine) ShiftForward(snap *Snapshot, days int, target *model.Model, targetHorizon cohort.Horizon) *ShiftResult {
	if snap == nil {
		return &ShiftResult{Hints: model.Assignment{}, OverlapRatio: 0, LowQuality: true}
	}

	shifted := ShiftAssignment(snap.Values, days, targetHorizon)

	hints := make(model.Assignment, len(shifted))
	matched := 0
	for k, v := range shifted {
		if target.Has(k) {
			hints[k] = v
			if k.DateBearing() {
				matched++
			}
		}
	}

	total := 0
	for _, v := range target.Variables() {
		if v.Key.DateBearing() {
			total++
		}
	}
	ratio := 0.0
	if total > 0 {
		ratio = float64(matched) / float64(total)
	}

	res := &ShiftResult{Hints: hints, OverlapRatio: ratio, LowQuality: ratio < e.overlapThreshold}
	if res.LowQuality {
		e.log.Warn("warm start overlap below threshold",
			"overlap", fmt.Sprintf("%.2f", ratio),
			"threshold", fmt.Sprintf("%.2f", e.overlapThreshold),
			"shift_days", days)
		e.metrics.ObserveWarmstart(observability.OutcomeLowQuality)
	} else {
		e.metrics.ObserveWarmstart(observability.OutcomeApplied)
	}
	return res
}

// TransferPattern copies a pattern-phase solution onto a flexible-phase
// model: shared structural keys transfer by exact match, per-weekday truck
// binaries expand to per-date binaries, and derived variables the pattern
// model never declared are recomputed explicitly. The resulting hint must be
// locally feasible for the flexible model; otherwise it is rejected.
func (e *Engine) TransferPattern(patternValues model.Assignment, flex *model.Model) (model.Assignment, error) {
	hints := make(model.Assignment)

	for _, v := range flex.Variables() {
		key := v.Key
		switch key.Family {
		case model.VarTruckUsed:
			// Expand the weekday binary onto each concrete date.
			pk := model.VarKey{
				Family:  model.VarTruckUsedPattern,
				Truck:   key.Truck,
				Weekday: key.Date.Weekday(),
			}
			if x, ok := patternValues[pk]; ok {
				hints[key] = x
			}
		default:
			if x, ok := patternValues[key]; ok {
				hints[key] = x
			}
		}
	}

	// Auxiliary recompute: any derived value the restricted model left unset
	// must be rebuilt before the hint is offered, or it is locally
	// infeasible and the solver will discard it.
	recomputeTruckUsage(flex, hints)
	recomputeInventoryChain(flex, hints)

	if violations := model.Evaluate(flex, hints, 0); len(violations) > 0 {
		e.log.Warn("pattern warm start rejected",
			"violations", len(violations),
			"first", violations[0].String())
		e.metrics.ObserveWarmstart(observability.OutcomeRejected)
		return nil, &RejectedError{Violations: violations}
	}

	e.metrics.ObserveWarmstart(observability.OutcomeApplied)
	return hints, nil
}

// recomputeTruckUsage forces a usage binary on wherever its truck carries
// load, covering dates the pattern solution never toggled.
func recomputeTruckUsage(m *model.Model, values model.Assignment) {
	for _, v := range m.Variables() {
		if v.Key.Family != model.VarTruckLoad {
			continue
		}
		if values[v.Key] <= model.DefaultTolerance {
			continue
		}
		usedKey := model.VarKey{Family: model.VarTruckUsed, Truck: v.Key.Truck, Date: v.Key.Date}
		if m.Has(usedKey) {
			values[usedKey] = 1
		}
	}
}

// recomputeInventoryChain rebuilds end-of-day inventory values from the
// transferred flows by walking the balance equalities in date order. Each
// balance constraint defines exactly one inventory variable with coefficient
// +1; solving for it removes any drift the transfer introduced.
func recomputeInventoryChain(m *model.Model, values model.Assignment) {
	type balanceRow struct {
		inv model.VarKey
		c   model.Constraint
	}
	var rows []balanceRow

	for _, c := range m.Constraints() {
		if !strings.HasPrefix(c.Name, "bal_") || c.Op != model.Eq {
			continue
		}
		for _, t := range c.Terms {
			if t.Key.Family == model.VarInventory && t.Coef == 1 {
				rows = append(rows, balanceRow{inv: t.Key, c: c})
				break
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].inv.Date.Before(rows[j].inv.Date)
	})

	for _, row := range rows {
		sum := 0.0
		for _, t := range row.c.Terms {
			if t.Key == row.inv {
				continue
			}
			sum += t.Coef * values[t.Key]
		}
		inv := row.c.RHS - sum
		if inv < 0 && inv > -model.DefaultTolerance {
			inv = 0
		}
		values[row.inv] = inv
	}
}
