package engine

import "errors"

// Sentinel errors for the optimization run. Callers match them with
// errors.Is; the wrapped text carries run diagnostics (pattern count,
// variable count, solver status).
var (
	// ErrInvalidInput marks items or stocks that violate their invariants.
	// Detected before enumeration; the solver is never invoked.
	ErrInvalidInput = errors.New("cutting: invalid input")

	// ErrEmptyPatternSpace marks runs where no feasible pattern exists at
	// all (e.g. every item is longer than every stock). Distinct from
	// solver infeasibility: the model could not even be built.
	ErrEmptyPatternSpace = errors.New("cutting: no feasible pattern")

	// ErrInfeasible marks runs where patterns exist but the solver proved
	// that no assignment satisfies demand and supply together.
	ErrInfeasible = errors.New("cutting: no feasible solution")

	// ErrSolver marks solver failures other than infeasibility (malformed
	// model, node budget exhausted). Fatal for the run, never retried.
	ErrSolver = errors.New("cutting: solver failure")

	// ErrInternalConsistency marks a produced plan that violates its own
	// declared invariants. Always a bug, never downgraded.
	ErrInternalConsistency = errors.New("cutting: internal consistency violation")
)
