package model

import (
	"fmt"
	"math"
)

// Relation is the comparison operator of a linear constraint
type Relation int

const (
	Eq Relation = iota
	Le
	Ge
)

// String method for Relation enum
func (r Relation) String() string {
	switch r {
	case Le:
		return "<="
	case Ge:
		return ">="
	default:
		return "="
	}
}

// Term is one linear coefficient on a variable
type Term struct {
	Key  VarKey
	Coef float64
}

// Constraint is one linear constraint: Σ terms Op RHS
type Constraint struct {
	Name  string
	Terms []Term
	Op    Relation
	RHS   float64
}

// Objective is the linear cost expression to minimize
type Objective struct {
	Terms  []Term
	Offset float64
}

// Model is one assembled MILP instance. A model owns its variable space; the
// cohort index it was assembled from must not be mutated while the model is
// alive.
type Model struct {
	Name  string
	Phase Phase

	vars        []Variable
	byKey       map[VarKey]int
	constraints []Constraint
	objective   Objective
}

// Phase selects the assembly variant
type Phase int

const (
	// FlexiblePhase declares one truck-usage binary per (truck, date).
	FlexiblePhase Phase = iota
	// PatternPhase collapses truck-usage binaries to one per (truck,
	// weekday), repeated across all weeks of the horizon.
	PatternPhase
)

// String method for Phase enum
func (p Phase) String() string {
	if p == PatternPhase {
		return "pattern"
	}
	return "flexible"
}

// New creates an empty model
func New(name string, phase Phase) *Model {
	return &Model{
		Name:  name,
		Phase: phase,
		byKey: make(map[VarKey]int),
	}
}

// AddVariable declares a variable. Declaring the same structural key twice is
// a programming error and fails.
func (m *Model) AddVariable(v Variable) error {
	if _, dup := m.byKey[v.Key]; dup {
		return fmt.Errorf("variable %s declared twice", v.Key.Name())
	}
	if v.Upper < v.Lower {
		return fmt.Errorf("variable %s has upper bound %g below lower bound %g", v.Key.Name(), v.Upper, v.Lower)
	}
	m.byKey[v.Key] = len(m.vars)
	m.vars = append(m.vars, v)
	return nil
}

// Var returns the declared variable for a structural key
func (m *Model) Var(key VarKey) (Variable, bool) {
	i, ok := m.byKey[key]
	if !ok {
		return Variable{}, false
	}
	return m.vars[i], true
}

// Has reports whether a structural key is declared
func (m *Model) Has(key VarKey) bool {
	_, ok := m.byKey[key]
	return ok
}

// Variables returns all declared variables in declaration order
func (m *Model) Variables() []Variable {
	return m.vars
}

// NumVariables returns the variable count
func (m *Model) NumVariables() int {
	return len(m.vars)
}

// AddConstraint appends a constraint. Terms referencing undeclared keys are a
// programming error and fail, preserving the structural-zero rule: absent
// tuples have no variable rather than a variable fixed to zero.
func (m *Model) AddConstraint(c Constraint) error {
	for _, t := range c.Terms {
		if _, ok := m.byKey[t.Key]; !ok {
			return fmt.Errorf("constraint %s references undeclared variable %s", c.Name, t.Key.Name())
		}
	}
	m.constraints = append(m.constraints, c)
	return nil
}

// Constraints returns all constraints in insertion order
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// NumConstraints returns the constraint count
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// SetObjective replaces the objective
func (m *Model) SetObjective(obj Objective) error {
	for _, t := range obj.Terms {
		if _, ok := m.byKey[t.Key]; !ok {
			return fmt.Errorf("objective references undeclared variable %s", t.Key.Name())
		}
	}
	m.objective = obj
	return nil
}

// GetObjective returns the objective
func (m *Model) GetObjective() Objective {
	return m.objective
}

// Unbounded is the upper bound for variables with no ceiling
func Unbounded() float64 {
	return math.Inf(1)
}
