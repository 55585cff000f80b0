package milp

import (
	"context"

	"github.com/pkg/errors"

	nextmip "github.com/nextmv-io/sdk/mip"
)

// NewNextmvModel constructs the HiGHS-backed concrete Model, grounded on the
// nextmv-io-community-apps shift-scheduling template's newMIPModel: m :=
// mip.NewModel(); m.Objective().SetMinimize(); m.NewBool()/m.NewFloat();
// m.NewConstraint(...).NewTerm(...).
func NewNextmvModel() Model {
	m := nextmip.NewModel()
	m.Objective().SetMinimize()
	return &nextmvModel{raw: m}
}

type nextmvModel struct {
	raw nextmip.Model
}

func (m *nextmvModel) NewBinary() Var {
	return nextmvVar{v: m.raw.NewBool()}
}

func (m *nextmvModel) NewFloat(lb, hi float64) Var {
	return nextmvVar{v: m.raw.NewFloat(lb, hi)}
}

func (m *nextmvModel) NewConstraint(sense Sense, rhs float64) Constraint {
	return nextmvConstraint{c: m.raw.NewConstraint(toNextmvSense(sense), rhs)}
}

func (m *nextmvModel) Objective() Objective {
	return nextmvObjective{o: m.raw.Objective()}
}

func toNextmvSense(s Sense) nextmip.Sense {
	switch s {
	case LessThanOrEqual:
		return nextmip.LessThanOrEqual
	case GreaterThanOrEqual:
		return nextmip.GreaterThanOrEqual
	default:
		return nextmip.Equal
	}
}

// nextmvVar wraps whichever of mip.Bool/mip.Float the model produced behind
// the single mip.Var interface they both satisfy.
type nextmvVar struct {
	v nextmip.Var
}

func (nextmvVar) isVar() {}

type nextmvConstraint struct {
	c nextmip.Constraint
}

func (c nextmvConstraint) NewTerm(coef float64, v Var) {
	c.c.NewTerm(coef, v.(nextmvVar).v)
}

type nextmvObjective struct {
	o nextmip.Objective
}

func (o nextmvObjective) NewTerm(coef float64, v Var) {
	o.o.NewTerm(coef, v.(nextmvVar).v)
}

// NewNextmvSolver wraps mip.NewSolver(mip.Highs, raw), the way the template
// does it.
func NewNextmvSolver(m Model) (Solver, error) {
	nm, ok := m.(*nextmvModel)
	if !ok {
		return nil, errors.New("milp: NewNextmvSolver requires a model built by NewNextmvModel")
	}
	solver, err := nextmip.NewSolver(nextmip.Highs, nm.raw)
	if err != nil {
		return nil, errors.Wrap(err, "construct HiGHS solver")
	}
	return &nextmvSolver{solver: solver}, nil
}

type nextmvSolver struct {
	solver nextmip.Solver
}

func (s *nextmvSolver) Solve(ctx context.Context, opts SolveOptions) (Solution, error) {
	solveOpts := nextmip.NewSolveOptions()
	if err := solveOpts.SetDuration(opts.TimeLimit); err != nil {
		return nil, errors.Wrap(err, "set solver time limit")
	}
	if opts.Threads > 0 {
		if err := solveOpts.SetMaximumThreads(opts.Threads); err != nil {
			return nil, errors.Wrap(err, "set solver thread count")
		}
	}

	solution, err := s.solver.Solve(solveOpts)
	if err != nil {
		return nil, errors.Wrap(err, "solve")
	}
	return &nextmvSolution{sol: solution}, nil
}

type nextmvSolution struct {
	sol nextmip.Solution
}

func (s *nextmvSolution) Value(v Var) float64 {
	return s.sol.Value(v.(nextmvVar).v)
}

func (s *nextmvSolution) ObjectiveValue() float64 {
	return s.sol.ObjectiveValue()
}

func (s *nextmvSolution) Status() Status {
	switch {
	case s.sol.IsOptimal():
		return StatusOptimal
	case s.sol.IsSubOptimal():
		return StatusTimeLimitFeasible
	default:
		return StatusInfeasible
	}
}
