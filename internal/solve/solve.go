// Package solve defines a narrow integer-programming contract and a default
// exact solver behind it. The optimization engine depends only on the Oracle
// interface, so any external MIP library can be adapted without touching the
// model-building code.
package solve

import "fmt"

// Status indicates the outcome of a solve.
type Status int

const (
	StatusOptimal    Status = iota // Values holds a proven-optimal assignment
	StatusInfeasible               // no assignment satisfies the constraints
	StatusUnbounded                // the objective can decrease without limit
	StatusError                    // the solver gave up (bad model, budget exhausted)
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "error"
	}
}

// Term is one coefficient of a linear expression.
type Term struct {
	Var   int // variable index
	Coeff int
}

// Constraint bounds a linear expression: Lower <= Σ Coeff·x <= Upper.
// Either bound may be absent.
type Constraint struct {
	Terms    []Term
	Lower    int
	Upper    int
	HasLower bool
	HasUpper bool
}

// Model is an integer minimization program over non-negative variables with
// finite upper bounds.
type Model struct {
	Upper       []int // inclusive upper bound per variable; lower bound is 0
	Constraints []Constraint
	Objective   []Term // minimized; variables absent from it cost nothing
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// AddVar adds a variable with domain 0..upper and returns its index.
func (m *Model) AddVar(upper int) int {
	m.Upper = append(m.Upper, upper)
	return len(m.Upper) - 1
}

// AddConstraint appends a constraint to the model.
func (m *Model) AddConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int {
	return len(m.Upper)
}

// Validate checks the model is well formed: non-negative variable bounds and
// in-range term indices.
func (m *Model) Validate() error {
	for i, ub := range m.Upper {
		if ub < 0 {
			return fmt.Errorf("variable %d: negative upper bound %d", i, ub)
		}
	}
	check := func(terms []Term, where string) error {
		for _, t := range terms {
			if t.Var < 0 || t.Var >= len(m.Upper) {
				return fmt.Errorf("%s references unknown variable %d", where, t.Var)
			}
		}
		return nil
	}
	if err := check(m.Objective, "objective"); err != nil {
		return err
	}
	for i, c := range m.Constraints {
		if err := check(c.Terms, fmt.Sprintf("constraint %d", i)); err != nil {
			return err
		}
	}
	return nil
}

// Result holds the outcome of a solve. Values is populated only for
// StatusOptimal.
type Result struct {
	Status    Status
	Values    []int
	Objective int
	Nodes     int // search nodes expanded, for diagnostics
}

// HasSolution reports whether the result carries a usable assignment.
func (r Result) HasSolution() bool {
	return r.Status == StatusOptimal
}

// Oracle solves integer minimization programs. Implementations return
// StatusOptimal with one value per variable, or a non-optimal status with
// no values. A solve is a single atomic step: no partial results.
type Oracle interface {
	Solve(m *Model) Result
}
