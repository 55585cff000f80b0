// Package pruner implements the Variable-Domain Pruner: it enumerates the
// set of (course, block, day, period-start, room) tuples that survive the
// trivially-checkable hard constraints (instructor availability, period
// bounds, room capacity). Only tuples in this set become MILP variables.
package pruner

import "github.com/nrhodes/coursesched/internal/model"

// Tuple is one candidate (course, block, day, period-start, room)
// assignment, indexed by position: Course/Day/Room are slice indices into
// the ProblemInstance, Period is 1-based.
type Tuple struct {
	Course int
	Block  int
	Day    int
	Period int
	Room   int
}

// ValidX enumerates every tuple satisfying:
//   - b is a block of course c
//   - p + periodsPerSession(c) - 1 <= P
//   - the instructor is available for every period the session occupies
//   - the room's capacity covers the course's enrollment
func ValidX(p *model.ProblemInstance) []Tuple {
	var out []Tuple
	for ci := range p.Courses {
		course := &p.Courses[ci]
		dur := course.PeriodsPerSession
		instructor := &p.Instructors[course.InstructorIndex]

		for _, block := range course.Blocks {
			for d := range p.Term.Days {
				if !instructorAvailableSomewhere(instructor, d, dur, p.Term.NumPeriods) {
					continue
				}
				for pstart := 1; pstart+dur-1 <= p.Term.NumPeriods; pstart++ {
					if !instructorAvailable(instructor, d, pstart, dur) {
						continue
					}
					for ri := range p.Classrooms {
						if p.Classrooms[ri].Capacity < course.ExpectedEnrollment {
							continue
						}
						out = append(out, Tuple{Course: ci, Block: block, Day: d, Period: pstart, Room: ri})
					}
				}
			}
		}
	}
	return out
}

func instructorAvailable(ins *model.Instructor, day, pstart, dur int) bool {
	for t := pstart; t < pstart+dur; t++ {
		if !ins.Avail[day][t-1] {
			return false
		}
	}
	return true
}

// instructorAvailableSomewhere is a cheap day-level pre-check to avoid
// scanning every period start when the instructor has no availability at
// all on that day.
func instructorAvailableSomewhere(ins *model.Instructor, day, dur, numPeriods int) bool {
	run := 0
	for p := 0; p < numPeriods; p++ {
		if ins.Avail[day][p] {
			run++
			if run >= dur {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// Index groups valid tuples for fast lookup by the warm starter and the
// MILP builder.
type Index struct {
	All []Tuple

	// ByCourse[c] lists every valid tuple for course c.
	ByCourse map[int][]Tuple

	// ByCourseBlockDay[(c,b,d)] lists every valid tuple restricted to one
	// course/block/day, the unit the greedy warm starter scans.
	ByCourseBlockDay map[[3]int][]Tuple
}

// BuildIndex groups a flat tuple list for repeated lookups.
func BuildIndex(tuples []Tuple) *Index {
	idx := &Index{
		All:              tuples,
		ByCourse:         make(map[int][]Tuple),
		ByCourseBlockDay: make(map[[3]int][]Tuple),
	}
	for _, t := range tuples {
		idx.ByCourse[t.Course] = append(idx.ByCourse[t.Course], t)
		key := [3]int{t.Course, t.Block, t.Day}
		idx.ByCourseBlockDay[key] = append(idx.ByCourseBlockDay[key], t)
	}
	return idx
}
