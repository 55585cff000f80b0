// Package evaluator implements the Heuristic Score Evaluator: its
// arithmetic must match the MILP objective term-for-term with
// internal/milp's S1/S2/S3 linearizations, so a warm-start's heuristic
// score is directly comparable to the solver's reported objective value.
package evaluator

import (
	"sort"

	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/pruner"
)

// Breakdown is the per-term weighted objective.
type Breakdown struct {
	S1 float64 // student conflicts
	S2 float64 // instructor compactness
	S3 float64 // lunch penalty
}

// Total returns S1 + S2 + S3; each field already carries its weight, so
// this is w1*S1 + w2*S2 + w3*S3 over the unweighted terms.
func (b Breakdown) Total() float64 { return b.S1 + b.S2 + b.S3 }

type session struct {
	course, block, day, start, end int // end inclusive
}

// Score computes the exact weighted objective of the given assignment.
func Score(p *model.ProblemInstance, tuples []pruner.Tuple) Breakdown {
	sessions := toSessions(p, tuples)
	return Breakdown{
		S1: scoreS1(p, sessions),
		S2: scoreS2(p, sessions),
		S3: scoreS3(p, sessions),
	}
}

func toSessions(p *model.ProblemInstance, tuples []pruner.Tuple) []session {
	out := make([]session, 0, len(tuples))
	for _, t := range tuples {
		dur := p.Courses[t.Course].PeriodsPerSession
		out = append(out, session{
			course: t.Course,
			block:  t.Block,
			day:    t.Day,
			start:  t.Period,
			end:    t.Period + dur - 1,
		})
	}
	return out
}

func overlap(a, b session) int {
	lo := a.start
	if b.start > lo {
		lo = b.start
	}
	hi := a.end
	if b.end < hi {
		hi = b.end
	}
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

// scoreS1 matches the student-conflict objective term's φ linearization.
func scoreS1(p *model.ProblemInstance, sessions []session) float64 {
	if p.Weights.StudentConflict == 0 {
		return 0
	}
	byBlockDay := make(map[[2]int][]session)
	for _, s := range sessions {
		key := [2]int{s.block, s.day}
		byBlockDay[key] = append(byBlockDay[key], s)
	}
	total := 0.0
	for key, group := range byBlockDay {
		block := key[0]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if a.course == b.course {
					continue
				}
				n := p.StudentsCC[a.course][b.course]
				if n == 0 {
					continue
				}
				ov := overlap(a, b)
				if ov == 0 {
					continue
				}
				total += p.Weights.StudentConflict * float64(n) * float64(p.BlockWeight[block]) * float64(ov)
			}
		}
	}
	return total
}

// scoreS2 matches the instructor back-to-back compactness term's
// z-variable linearization.
func scoreS2(p *model.ProblemInstance, sessions []session) float64 {
	if p.Weights.InstructorCompactness == 0 {
		return 0
	}
	type key struct{ instructor, block, day int }
	byKey := make(map[key][]session)
	for _, s := range sessions {
		ins := p.Courses[s.course].InstructorIndex
		k := key{ins, s.block, s.day}
		byKey[k] = append(byKey[k], s)
	}

	total := 0.0
	for k, group := range byKey {
		pref := p.Instructors[k.instructor].BackToBackPreference
		if pref <= 0 {
			continue
		}
		T := len(group)
		if T < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].start < group[j].start })
		B := 0
		for i := 0; i+1 < len(group); i++ {
			if group[i].end+1 == group[i+1].start {
				B++
			}
		}
		metric := float64(2*B - (T - 1))
		total += p.Weights.InstructorCompactness * float64(pref) * float64(p.BlockWeight[k.block]) * metric
	}
	return total
}

// scoreS3 matches the lunch-penalty term's π linearization.
func scoreS3(p *model.ProblemInstance, sessions []session) float64 {
	if p.Weights.PreferredTimeSlots == 0 || len(p.Term.LunchPeriods) == 0 {
		return 0
	}
	lunch := make(map[int]bool, len(p.Term.LunchPeriods))
	for _, lp := range p.Term.LunchPeriods {
		lunch[lp] = true
	}

	total := 0.0
	for _, s := range sessions {
		hits := 0
		for t := s.start; t <= s.end; t++ {
			if lunch[t] {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		ins := &p.Instructors[p.Courses[s.course].InstructorIndex]
		total += p.Weights.PreferredTimeSlots * ins.LunchPenalty() * float64(p.BlockWeight[s.block]) * float64(hits)
	}
	return total
}
