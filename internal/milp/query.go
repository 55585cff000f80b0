package milp

import (
	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/pruner"
)

// QueryKind enumerates the what-if query types a user can pose: pin a
// course to a slot or room, veto a slot or day, or bound it before/after a
// given period.
type QueryKind int

const (
	EnforceTimeSlot QueryKind = iota
	VetoTimeSlot
	VetoDay
	EnforceRoom
	EnforceBeforeTime
	EnforceAfterTime
)

// Query is one typed user constraint to append to the rebuilt model. Week
// is 0-based and only meaningful for EnforceTimeSlot/VetoTimeSlot; -1 means
// "omitted" (veto_time_slot without a week applies across all weeks).
type Query struct {
	Kind        QueryKind
	Course      int // course index
	Week        int // 0-based, -1 if omitted
	Day         int // day index
	PeriodStart int // 1-based internal period
	Room        int // room index, EnforceRoom only
}

// Apply appends the linear constraint for one tagged query to m, using the
// variable maps vars built by Build. It returns the Constraint so deletion-
// filter IIS extraction can omit it on a later rebuild.
func Apply(m Model, p *model.ProblemInstance, idx *pruner.Index, vars *Vars, q Query) Constraint {
	switch q.Kind {
	case EnforceTimeSlot:
		block := p.BlockOfWeek(q.Week + 1)
		c := m.NewConstraint(Equal, 1.0)
		addSum(c, 1.0, tuplesAtAnyRoom(idx, vars, q.Course, block, q.Day, q.PeriodStart))
		return c

	case VetoTimeSlot:
		c := m.NewConstraint(Equal, 0.0)
		if q.Week >= 0 {
			block := p.BlockOfWeek(q.Week + 1)
			addSum(c, 1.0, tuplesAtAnyRoom(idx, vars, q.Course, block, q.Day, q.PeriodStart))
		} else {
			for block := 1; block <= model.NumBlocks; block++ {
				addSum(c, 1.0, tuplesAtAnyRoom(idx, vars, q.Course, block, q.Day, q.PeriodStart))
			}
		}
		return c

	case VetoDay:
		c := m.NewConstraint(Equal, 0.0)
		for block := 1; block <= model.NumBlocks; block++ {
			for _, t := range idx.ByCourseBlockDay[[3]int{q.Course, block, q.Day}] {
				c.NewTerm(1.0, vars.X[t])
			}
		}
		return c

	case EnforceRoom:
		c := m.NewConstraint(GreaterThanOrEqual, 1.0)
		for _, t := range idx.ByCourse[q.Course] {
			if t.Room == q.Room {
				c.NewTerm(1.0, vars.X[t])
			}
		}
		return c

	case EnforceBeforeTime:
		dur := p.Courses[q.Course].PeriodsPerSession
		c := m.NewConstraint(GreaterThanOrEqual, float64(p.Courses[q.Course].TotalSessions))
		for _, t := range idx.ByCourse[q.Course] {
			if t.Period+dur-1 <= q.PeriodStart {
				c.NewTerm(1.0, vars.X[t])
			}
		}
		return c

	case EnforceAfterTime:
		c := m.NewConstraint(GreaterThanOrEqual, float64(p.Courses[q.Course].TotalSessions))
		for _, t := range idx.ByCourse[q.Course] {
			if t.Period >= q.PeriodStart {
				c.NewTerm(1.0, vars.X[t])
			}
		}
		return c
	}
	return nil
}

func tuplesAtAnyRoom(idx *pruner.Index, vars *Vars, c, block, day, period int) []Var {
	var out []Var
	for _, t := range idx.ByCourseBlockDay[[3]int{c, block, day}] {
		if t.Period == period {
			out = append(out, vars.X[t])
		}
	}
	return out
}

// Minimality appends the what-if minimality bound:
// S1+S2+S3 <= bound, where callers pass originalObjective + epsilon as
// bound. It re-adds each weighted term the builder recorded in
// Vars.ObjectiveTerms to one plain upper-bound constraint, so the bound
// covers the same objective expression the builder assembled.
func Minimality(m Model, terms []ObjectiveTerm, bound float64) Constraint {
	c := m.NewConstraint(LessThanOrEqual, bound)
	for _, t := range terms {
		c.NewTerm(t.Coef, t.Var)
	}
	return c
}

// ObjectiveTerm is one (coefficient, variable) pair of the assembled
// objective, recorded by the builder so the minimality bound can reuse it
// as a plain constraint's terms (solvers generally don't expose "read back
// the objective as a constraint" directly).
type ObjectiveTerm struct {
	Coef float64
	Var  Var
}
