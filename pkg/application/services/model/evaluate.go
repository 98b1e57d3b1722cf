package model

import (
	"fmt"
	"math"
)

// Assignment maps structural keys to variable values. Keys absent from the
// assignment are treated as zero, matching the structural-zero convention of
// the sparse index.
type Assignment map[VarKey]float64

// Clone returns a deep copy of the assignment
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Violation describes one constraint or bound the assignment breaks
type Violation struct {
	Constraint string
	Detail     string
	Amount     float64
}

func (v Violation) String() string {
	return fmt.Sprintf("%s violated by %g (%s)", v.Constraint, v.Amount, v.Detail)
}

// DefaultTolerance is the feasibility tolerance used when callers pass zero
const DefaultTolerance = 1e-6

// Evaluate checks an assignment against every variable bound and constraint
// of the model and returns the violations found. An empty result means the
// assignment is locally feasible at the supplied values. Warm-start hints
// must pass this check before being offered to a solver.
func Evaluate(m *Model, values Assignment, tol float64) []Violation {
	if tol <= 0 {
		tol = DefaultTolerance
	}

	var violations []Violation

	for _, v := range m.Variables() {
		x := values[v.Key]
		if x < v.Lower-tol {
			violations = append(violations, Violation{
				Constraint: v.Key.Name(),
				Detail:     fmt.Sprintf("below lower bound %g", v.Lower),
				Amount:     v.Lower - x,
			})
		}
		if !math.IsInf(v.Upper, 1) && x > v.Upper+tol {
			violations = append(violations, Violation{
				Constraint: v.Key.Name(),
				Detail:     fmt.Sprintf("above upper bound %g", v.Upper),
				Amount:     x - v.Upper,
			})
		}
		if v.Kind == Binary || v.Kind == Integer {
			if frac := math.Abs(x - math.Round(x)); frac > tol {
				violations = append(violations, Violation{
					Constraint: v.Key.Name(),
					Detail:     "fractional value for integral variable",
					Amount:     frac,
				})
			}
		}
	}

	for _, c := range m.Constraints() {
		lhs := 0.0
		for _, t := range c.Terms {
			lhs += t.Coef * values[t.Key]
		}
		switch c.Op {
		case Eq:
			if diff := math.Abs(lhs - c.RHS); diff > tol {
				violations = append(violations, Violation{Constraint: c.Name, Detail: "equality off", Amount: diff})
			}
		case Le:
			if lhs > c.RHS+tol {
				violations = append(violations, Violation{Constraint: c.Name, Detail: "above upper limit", Amount: lhs - c.RHS})
			}
		case Ge:
			if lhs < c.RHS-tol {
				violations = append(violations, Violation{Constraint: c.Name, Detail: "below lower limit", Amount: c.RHS - lhs})
			}
		}
	}

	return violations
}

// ObjectiveValue computes the objective at the supplied assignment
func ObjectiveValue(m *Model, values Assignment) float64 {
	obj := m.GetObjective()
	total := obj.Offset
	for _, t := range obj.Terms {
		total += t.Coef * values[t.Key]
	}
	return total
}
