// Package milp implements component E (the MILP Builder) and the
// solver-agnostic interface the actual branch-and-cut engine sits behind:
// add variables, add linear constraints, set the objective, optimize, and
// query the solution. The interface has no conflict-set operation;
// internal/whatif extracts conflicts by re-solving trial models.
package milp

import (
	"context"
	"time"
)

// Sense is a linear constraint's comparison operator.
type Sense int

const (
	LessThanOrEqual Sense = iota
	GreaterThanOrEqual
	Equal
)

// Var is an opaque decision-variable handle. Concrete adapters embed
// whatever their backend needs; callers never type-assert it.
type Var interface {
	isVar()
}

// Constraint accumulates terms of one linear row.
type Constraint interface {
	NewTerm(coef float64, v Var)
}

// Objective accumulates terms of the (always-minimized) objective row.
type Objective interface {
	NewTerm(coef float64, v Var)
}

// Model is the black-box modeling surface component E and component G build
// against. A concrete backend (see nextmv.go) wraps a real solver's API.
type Model interface {
	NewBinary() Var
	NewFloat(lb, hi float64) Var
	NewConstraint(sense Sense, rhs float64) Constraint
	Objective() Objective
}

// Status distinguishes how a solve terminated: proved optimal, stopped at
// the time limit with or without an incumbent, infeasible, or errored.
type Status int

const (
	StatusOptimal Status = iota
	StatusTimeLimitFeasible
	StatusInfeasible
	StatusTimeLimitNoSolution
	StatusError
)

// Solution is a solved (or exhausted) model's result set.
type Solution interface {
	Value(v Var) float64
	ObjectiveValue() float64
	Status() Status
}

// SolveOptions is the solver invocation contract: time limit and thread
// count. Presolve and a MIP-focus hint are not in this contract — the
// nextmv-sdk solve options this adapter wraps (mip.NewSolveOptions's
// SetDuration/SetMaximumThreads) expose neither knob; see DESIGN.md "Open
// decisions", item 6.
type SolveOptions struct {
	TimeLimit time.Duration
	Threads   int
}

// Solver runs one model to completion or exhaustion of the time limit.
type Solver interface {
	Solve(ctx context.Context, opts SolveOptions) (Solution, error)
}
