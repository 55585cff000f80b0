// Package warmstart implements the Greedy Warm Starter: it produces a
// (possibly partial) feasible assignment used as a quick heuristic
// baseline before the MILP solver runs.
package warmstart

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/pruner"
)

// roomTime identifies one (block, day, period, room) slot.
type roomTime struct {
	block, day, period, room int
}

// instructorTime identifies one (instructor, block, day, period) slot.
type instructorTime struct {
	instructor, block, day, period int
}

// Assignment is the warm-start result: the set of tuples placed at value
// 1.0. Every other (c,b,d,p,r) tuple is implicitly 0.
type Assignment struct {
	Tuples []pruner.Tuple
}

// Has reports whether a given tuple is part of the warm-start assignment.
func (a *Assignment) Has(t pruner.Tuple) bool {
	for _, x := range a.Tuples {
		if x == t {
			return true
		}
	}
	return false
}

// Build runs the deterministic greedy placement: courses in priority order,
// each session placed into the first room/day/period slot that keeps every
// prior placement conflict-free.
func Build(log zerolog.Logger, p *model.ProblemInstance, idx *pruner.Index) *Assignment {
	order := courseOrder(p)

	roomsUsed := make(map[roomTime]bool)
	instructorBusy := make(map[instructorTime]bool)

	validSet := make(map[pruner.Tuple]bool, len(idx.All))
	for _, t := range idx.All {
		validSet[t] = true
	}

	var result Assignment
	placedCourses, totalCourses := 0, len(order)

	for _, ci := range order {
		course := &p.Courses[ci]
		dur := course.PeriodsPerSession
		need := course.SessionsPerWeek
		placed := 0

		for d := range p.Term.Days {
			if placed >= need {
				break
			}

			// rooms in capacity-ascending order step 3.
			rooms := roomsByCapacityAsc(p)

		periodLoop:
			for pstart := 1; pstart+dur-1 <= p.Term.NumPeriods; pstart++ {
				for _, ri := range rooms {
					ok := true
					for _, b := range course.Blocks {
						if !validSet[pruner.Tuple{Course: ci, Block: b, Day: d, Period: pstart, Room: ri}] {
							ok = false
							break
						}
						for t := pstart; t < pstart+dur && ok; t++ {
							if roomsUsed[roomTime{b, d, t, ri}] || instructorBusy[instructorTime{course.InstructorIndex, b, d, t}] {
								ok = false
							}
						}
						if !ok {
							break
						}
					}
					if !ok {
						continue
					}

					// success: mark resources in every block this course
					// belongs to and record one tuple per block.
					for _, b := range course.Blocks {
						for t := pstart; t < pstart+dur; t++ {
							roomsUsed[roomTime{b, d, t, ri}] = true
							instructorBusy[instructorTime{course.InstructorIndex, b, d, t}] = true
						}
						result.Tuples = append(result.Tuples, pruner.Tuple{Course: ci, Block: b, Day: d, Period: pstart, Room: ri})
					}
					placed++
					break periodLoop
				}
			}
		}

		if placed >= need {
			placedCourses++
		}
	}

	log.Info().
		Int("courses_fully_placed", placedCourses).
		Int("courses_total", totalCourses).
		Int("tuples_placed", len(result.Tuples)).
		Msg("greedy warm start complete")

	return &result
}

// courseOrder sorts course indices by (single-block first, then full-term;
// within each, descending enrollment), so harder-to-place courses claim
// slots before easier ones.
func courseOrder(p *model.ProblemInstance) []int {
	order := make([]int, len(p.Courses))
	for i := range order {
		order[i] = i
	}
	rank := func(c *model.Course) int {
		if len(c.Blocks) == 1 {
			return 0
		}
		return 1
	}
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := &p.Courses[order[a]], &p.Courses[order[b]]
		ra, rb := rank(ca), rank(cb)
		if ra != rb {
			return ra < rb
		}
		return ca.ExpectedEnrollment > cb.ExpectedEnrollment
	})
	return order
}

func roomsByCapacityAsc(p *model.ProblemInstance) []int {
	rooms := make([]int, len(p.Classrooms))
	for i := range rooms {
		rooms[i] = i
	}
	sort.SliceStable(rooms, func(a, b int) bool {
		return p.Classrooms[rooms[a]].Capacity < p.Classrooms[rooms[b]].Capacity
	})
	return rooms
}
