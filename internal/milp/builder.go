package milp

import (
	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/pruner"
)

// hKey indexes the h[i,b,d,p] "instructor i teaching at p" indicator.
type hKey struct{ instructor, block, day, period int }

// phiKey indexes the φ[c1,c2,b,d,p] student-conflict indicator. c1 < c2 by
// course index to avoid building the symmetric pair twice.
type phiKey struct {
	c1, c2, block, day, period int
}

// piKey indexes the π[c,b,d,p] lunch-occupancy indicator.
type piKey struct{ course, block, day, period int }

// htKey indexes the has_teaching[i,b,d] indicator.
type htKey struct{ instructor, block, day int }

// Vars is every decision/auxiliary variable the builder created, keyed the
// way the Output Formatter (component F) and the What-If Analyzer
// (component G) need to read back or extend the model.
type Vars struct {
	X           map[pruner.Tuple]Var
	H           map[hKey]Var
	Phi         map[phiKey]Var
	Pi          map[piKey]Var
	HasTeaching map[htKey]Var

	// ObjectiveTerms mirrors every term added to the model's objective, so
	// the what-if analyzer can restate "objective <= bound" as a plain
	// constraint.
	ObjectiveTerms []ObjectiveTerm
}

// Build declares every hard constraint (H1-H5) and soft-constraint
// linearization (S1-S3) against m, returning the variable maps so callers
// can read the solution or append more constraints (the what-if analyzer
// does both).
func Build(m Model, p *model.ProblemInstance, idx *pruner.Index) *Vars {
	b := &buildCtx{m: m, p: p, idx: idx, vars: &Vars{
		X:           make(map[pruner.Tuple]Var, len(idx.All)),
		H:           make(map[hKey]Var),
		Phi:         make(map[phiKey]Var),
		Pi:          make(map[piKey]Var),
		HasTeaching: make(map[htKey]Var),
	}}
	b.declareX()
	b.buildRoomIndex()

	b.h1InstructorConflict()
	b.h2RoomConflict()
	b.h3RequiredSessions()
	b.h4OnePerCourseDay()
	b.h5FullTermConsistency()

	b.s1StudentConflict()
	b.s2InstructorCompactness()
	b.s3Lunch()

	return b.vars
}

type buildCtx struct {
	m    Model
	p    *model.ProblemInstance
	idx  *pruner.Index
	vars *Vars

	// byRoomBlockDay[(r,b,d)] lists every tuple in that room/block/day,
	// built once for H2.
	byRoomBlockDay map[[3]int][]pruner.Tuple
}

func (b *buildCtx) declareX() {
	for _, t := range b.idx.All {
		b.vars.X[t] = b.m.NewBinary()
	}
}

func (b *buildCtx) buildRoomIndex() {
	b.byRoomBlockDay = make(map[[3]int][]pruner.Tuple)
	for _, t := range b.idx.All {
		key := [3]int{t.Room, t.Block, t.Day}
		b.byRoomBlockDay[key] = append(b.byRoomBlockDay[key], t)
	}
}

// occVars returns the x-variables whose session spans period p of (c,b,d) —
// the occ(c,b,d,p) expression — as a list of terms each with coefficient 1.
func (b *buildCtx) occVars(c, block, day, period int) []Var {
	dur := b.p.Courses[c].PeriodsPerSession
	var out []Var
	for _, t := range b.idx.ByCourseBlockDay[[3]int{c, block, day}] {
		if t.Period <= period && period <= t.Period+dur-1 {
			out = append(out, b.vars.X[t])
		}
	}
	return out
}

func addSum(c Constraint, coef float64, vars []Var) {
	for _, v := range vars {
		c.NewTerm(coef, v)
	}
}

// addObjTerm adds one term to the live objective and records it so the
// what-if analyzer can later restate the assembled objective as a plain
// constraint for the minimality bound.
func (b *buildCtx) addObjTerm(obj Objective, coef float64, v Var) {
	obj.NewTerm(coef, v)
	b.vars.ObjectiveTerms = append(b.vars.ObjectiveTerms, ObjectiveTerm{Coef: coef, Var: v})
}

// h1InstructorConflict implements H1: at most one session per instructor per
// period, and links h[i,b,d,p] to that occupancy sum.
func (b *buildCtx) h1InstructorConflict() {
	for i := range b.p.Instructors {
		courses := coursesOf(b.p, i)
		for block := 1; block <= model.NumBlocks; block++ {
			for day := range b.p.Term.Days {
				for period := 1; period <= b.p.Term.NumPeriods; period++ {
					var occ []Var
					for _, c := range courses {
						if !b.p.Courses[c].Active(block) {
							continue
						}
						occ = append(occ, b.occVars(c, block, day, period)...)
					}
					if len(occ) == 0 {
						continue
					}
					conflict := b.m.NewConstraint(LessThanOrEqual, 1.0)
					addSum(conflict, 1.0, occ)

					h := b.m.NewBinary()
					b.vars.H[hKey{i, block, day, period}] = h
					link := b.m.NewConstraint(Equal, 0.0)
					link.NewTerm(1.0, h)
					addSum(link, -1.0, occ)
				}
			}
		}
	}
}

// h2RoomConflict implements H2: at most one session per room per period.
func (b *buildCtx) h2RoomConflict() {
	for _, tuples := range b.byRoomBlockDay {
		for period := 1; period <= b.p.Term.NumPeriods; period++ {
			var occ []Var
			for _, t := range tuples {
				dur := b.p.Courses[t.Course].PeriodsPerSession
				if t.Period <= period && period <= t.Period+dur-1 {
					occ = append(occ, b.vars.X[t])
				}
			}
			if len(occ) == 0 {
				continue
			}
			c := b.m.NewConstraint(LessThanOrEqual, 1.0)
			addSum(c, 1.0, occ)
		}
	}
}

// h3RequiredSessions implements H3: each course's per-block session quota.
func (b *buildCtx) h3RequiredSessions() {
	for ci := range b.p.Courses {
		course := &b.p.Courses[ci]
		for _, block := range course.Blocks {
			tuples := b.idx.ByCourse[ci]
			c := b.m.NewConstraint(Equal, float64(course.SessionsPerWeek))
			for _, t := range tuples {
				if t.Block == block {
					c.NewTerm(1.0, b.vars.X[t])
				}
			}
		}
	}
}

// h4OnePerCourseDay implements H4: at most one session per (course,block,day).
func (b *buildCtx) h4OnePerCourseDay() {
	for ci := range b.p.Courses {
		course := &b.p.Courses[ci]
		for _, block := range course.Blocks {
			for day := range b.p.Term.Days {
				tuples := b.idx.ByCourseBlockDay[[3]int{ci, block, day}]
				if len(tuples) == 0 {
					continue
				}
				c := b.m.NewConstraint(LessThanOrEqual, 1.0)
				for _, t := range tuples {
					c.NewTerm(1.0, b.vars.X[t])
				}
			}
		}
	}
}

// h5FullTermConsistency implements H5: a full-term course spanning both
// blocks repeats the identical (day,period,room) pattern in each block.
func (b *buildCtx) h5FullTermConsistency() {
	for ci := range b.p.Courses {
		course := &b.p.Courses[ci]
		if len(course.Blocks) != 2 {
			continue
		}
		for day := range b.p.Term.Days {
			t1 := b.idx.ByCourseBlockDay[[3]int{ci, 1, day}]
			t2 := b.idx.ByCourseBlockDay[[3]int{ci, 2, day}]
			v2 := make(map[[2]int]Var, len(t2))
			for _, t := range t2 {
				v2[[2]int{t.Period, t.Room}] = b.vars.X[t]
			}
			for _, t := range t1 {
				other, ok := v2[[2]int{t.Period, t.Room}]
				if !ok {
					continue
				}
				c := b.m.NewConstraint(Equal, 0.0)
				c.NewTerm(1.0, b.vars.X[t])
				c.NewTerm(-1.0, other)
			}
		}
	}
}

// s1StudentConflict implements the φ linearization and its objective term.
func (b *buildCtx) s1StudentConflict() {
	w := b.p.Weights.StudentConflict
	if w == 0 {
		return
	}
	obj := b.m.Objective()
	for c1 := range b.p.Courses {
		for c2 := c1 + 1; c2 < len(b.p.Courses); c2++ {
			n := b.p.StudentsCC[c1][c2]
			if n == 0 {
				continue
			}
			commonBlocks := commonBlocksOf(&b.p.Courses[c1], &b.p.Courses[c2])
			for _, block := range commonBlocks {
				weight := b.p.BlockWeight[block]
				for day := range b.p.Term.Days {
					for period := 1; period <= b.p.Term.NumPeriods; period++ {
						occ1 := b.occVars(c1, block, day, period)
						occ2 := b.occVars(c2, block, day, period)
						if len(occ1) == 0 || len(occ2) == 0 {
							continue
						}
						phi := b.m.NewBinary()
						b.vars.Phi[phiKey{c1, c2, block, day, period}] = phi
						c := b.m.NewConstraint(LessThanOrEqual, 1.0)
						addSum(c, 1.0, occ1)
						addSum(c, 1.0, occ2)
						c.NewTerm(-1.0, phi)

						b.addObjTerm(obj, w*float64(n)*float64(weight), phi)
					}
				}
			}
		}
	}
}

// s2InstructorCompactness implements the z-adjacency and has_teaching
// linearization for the back-to-back compactness objective term. The
// has_teaching x linear expression product is resolved via a
// McCormick-style continuous variable (see DESIGN.md "Open decisions",
// item 1).
func (b *buildCtx) s2InstructorCompactness() {
	w := b.p.Weights.InstructorCompactness
	if w == 0 {
		return
	}
	obj := b.m.Objective()
	P := b.p.Term.NumPeriods

	for i := range b.p.Instructors {
		pref := b.p.Instructors[i].BackToBackPreference
		if pref <= 0 {
			continue
		}
		courses := coursesOf(b.p, i)

		for block := 1; block <= model.NumBlocks; block++ {
			active := filterActive(b.p, courses, block)
			if len(active) == 0 {
				continue
			}
			weight := b.p.BlockWeight[block]

			for day := range b.p.Term.Days {
				var tExpr []Var
				for _, c := range active {
					for _, t := range b.idx.ByCourseBlockDay[[3]int{c, block, day}] {
						tExpr = append(tExpr, b.vars.X[t])
					}
				}
				if len(tExpr) == 0 {
					continue
				}

				var zSum []Var
				for _, c1 := range active {
					dur1 := b.p.Courses[c1].PeriodsPerSession
					for _, t1 := range b.idx.ByCourseBlockDay[[3]int{c1, block, day}] {
						p2 := t1.Period + dur1
						if p2 > P {
							continue
						}
						for _, c2 := range active {
							if c1 == c2 {
								continue
							}
							sum2 := startVars(b, c2, block, day, p2)
							if len(sum2) == 0 {
								continue
							}
							z := b.m.NewBinary()
							zSum = append(zSum, z)

							c1c := b.m.NewConstraint(LessThanOrEqual, 0.0)
							c1c.NewTerm(1.0, z)
							c1c.NewTerm(-1.0, b.vars.X[t1])

							c2c := b.m.NewConstraint(LessThanOrEqual, 0.0)
							c2c.NewTerm(1.0, z)
							addSum(c2c, -1.0, sum2)

							c3c := b.m.NewConstraint(GreaterThanOrEqual, -1.0)
							c3c.NewTerm(1.0, z)
							c3c.NewTerm(-1.0, b.vars.X[t1])
							addSum(c3c, -1.0, sum2)
						}
					}
				}

				maxT := float64(P)
				ht := b.m.NewBinary()
				b.vars.HasTeaching[htKey{i, block, day}] = ht

				upper := b.m.NewConstraint(LessThanOrEqual, 0.0)
				upper.NewTerm(1.0, ht)
				addSum(upper, -1.0, tExpr)

				lower := b.m.NewConstraint(GreaterThanOrEqual, 0.0)
				lower.NewTerm(1.0, ht)
				addSum(lower, -1.0/maxT, tExpr)

				// comp ~= ht * (2*sum(z) - sum(tExpr) + 1), McCormick bounds.
				lMax := 2*float64(len(zSum)) + 1
				lMin := -float64(P)
				comp := b.m.NewFloat(lMin, lMax)
				b.compMcCormick(comp, ht, zSum, tExpr, lMin, lMax)

				b.addObjTerm(obj, float64(pref)*float64(weight)*w, comp)
			}
		}
	}
}

// compMcCormick adds the four McCormick envelope constraints that linearize
// comp = ht * L where L = 2*sum(zSum) - sum(tExpr) + 1, ht in {0,1}, and
// L in [lMin, lMax]. See DESIGN.md "Open decisions", item 1. L's constant
// 1 is carried on the right-hand side of the first two rows.
func (b *buildCtx) compMcCormick(comp, ht Var, zSum, tExpr []Var, lMin, lMax float64) {
	// comp >= L - lMax*(1-ht)  =>  comp - L - lMax*ht >= -lMax
	c1 := b.m.NewConstraint(GreaterThanOrEqual, -lMax+1)
	c1.NewTerm(1.0, comp)
	addSum(c1, -2.0, zSum)
	addSum(c1, 1.0, tExpr)
	c1.NewTerm(-lMax, ht)

	// comp <= L - lMin*(1-ht)  =>  comp - L - lMin*ht <= -lMin
	c2 := b.m.NewConstraint(LessThanOrEqual, -lMin+1)
	c2.NewTerm(1.0, comp)
	addSum(c2, -2.0, zSum)
	addSum(c2, 1.0, tExpr)
	c2.NewTerm(-lMin, ht)

	// lMin*ht <= comp <= lMax*ht
	c3 := b.m.NewConstraint(GreaterThanOrEqual, 0.0)
	c3.NewTerm(1.0, comp)
	c3.NewTerm(-lMin, ht)

	c4 := b.m.NewConstraint(LessThanOrEqual, 0.0)
	c4.NewTerm(1.0, comp)
	c4.NewTerm(-lMax, ht)
}

// s3Lunch implements the π linearization and its objective term.
func (b *buildCtx) s3Lunch() {
	w := b.p.Weights.PreferredTimeSlots
	if w == 0 {
		return
	}
	obj := b.m.Objective()
	for ci := range b.p.Courses {
		course := &b.p.Courses[ci]
		penalty := b.p.Instructors[course.InstructorIndex].LunchPenalty()
		if penalty == 0 {
			continue
		}
		for _, block := range course.Blocks {
			weight := b.p.BlockWeight[block]
			for day := range b.p.Term.Days {
				for _, period := range b.p.Term.LunchPeriods {
					occ := b.occVars(ci, block, day, period)
					if len(occ) == 0 {
						continue
					}
					pi := b.m.NewBinary()
					b.vars.Pi[piKey{ci, block, day, period}] = pi
					c := b.m.NewConstraint(LessThanOrEqual, 0.0)
					addSum(c, 1.0, occ)
					c.NewTerm(-1.0, pi)

					b.addObjTerm(obj, w*penalty*float64(weight), pi)
				}
			}
		}
	}
}

// startVars returns the x-variables of course c starting at exactly period p
// of (block,day), across every room.
func startVars(b *buildCtx, c, block, day, period int) []Var {
	var out []Var
	for _, t := range b.idx.ByCourseBlockDay[[3]int{c, block, day}] {
		if t.Period == period {
			out = append(out, b.vars.X[t])
		}
	}
	return out
}

func coursesOf(p *model.ProblemInstance, instructor int) []int {
	var out []int
	for ci := range p.Courses {
		if p.Courses[ci].InstructorIndex == instructor {
			out = append(out, ci)
		}
	}
	return out
}

func filterActive(p *model.ProblemInstance, courses []int, block int) []int {
	var out []int
	for _, c := range courses {
		if p.Courses[c].Active(block) {
			out = append(out, c)
		}
	}
	return out
}

func commonBlocksOf(c1, c2 *model.Course) []int {
	var out []int
	for _, b := range c1.Blocks {
		if c2.Active(b) {
			out = append(out, b)
		}
	}
	return out
}
