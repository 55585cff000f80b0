// Package output implements component F (the Output Formatter): it expands
// a solved block assignment into one record per absolute week, reports the
// objective breakdown, and renders a human-readable schedule grid.
package output

import (
	"fmt"
	"sort"

	"github.com/nrhodes/coursesched/internal/evaluator"
	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/pruner"
)

// Assignment is one (course, week, day, period, room) row of the external
// output schema.
type Assignment struct {
	CourseID        string `json:"course_id"`
	CourseSessionID string `json:"course_session_id"`
	SessionNumber   int    `json:"session_number"`
	RoomID          string `json:"room_id"`
	Week            int    `json:"week"` // 0-based
	Day             string `json:"day"`
	PeriodStart     int    `json:"period_start"` // 0-based
	PeriodLength    int    `json:"period_length"`
	InstructorID    string `json:"instructor_id"`
}

// Schedule is the external "schedule" object.
type Schedule struct {
	Assignments []Assignment `json:"assignments"`
}

// Improvement reports how far the solved objective fell from the greedy
// warm-start's heuristic score.
type Improvement struct {
	InitialHeuristic float64 `json:"initial_heuristic_score"`
	FinalObjective   float64 `json:"final_objective"`
	DeltaAbsolute    float64 `json:"delta_absolute"`
	DeltaPercent     float64 `json:"delta_percent"`
}

// Output is the external successful-run result object.
type Output struct {
	Status                      string      `json:"status"`
	ObjectiveValue              float64     `json:"objective_value"`
	ImprovementSummary          string      `json:"improvement_summary"`
	Improvement                 Improvement `json:"improvement"`
	StudentConflictTotal        float64     `json:"student_conflict_total"`
	InstructorCompactnessTotal  float64     `json:"instructor_compactness_total"`
	LunchPenaltyTotal           float64     `json:"lunch_penalty_total"`
	Schedule                    Schedule    `json:"schedule"`
}

// Format builds the external Output from a solved assignment.
func Format(p *model.ProblemInstance, tuples []pruner.Tuple, status string, objectiveValue float64, breakdown evaluator.Breakdown, initialHeuristic float64) Output {
	assignments := buildAssignments(p, tuples)

	delta := objectiveValue - initialHeuristic
	pct := 0.0
	if initialHeuristic != 0 {
		pct = delta / initialHeuristic * 100
	}

	return Output{
		Status:         status,
		ObjectiveValue: objectiveValue,
		ImprovementSummary: fmt.Sprintf(
			"heuristic warm-start score %.4f -> solved objective %.4f (%.2f%% change)",
			initialHeuristic, objectiveValue, pct),
		Improvement: Improvement{
			InitialHeuristic: initialHeuristic,
			FinalObjective:   objectiveValue,
			DeltaAbsolute:    delta,
			DeltaPercent:     pct,
		},
		StudentConflictTotal:       breakdown.S1,
		InstructorCompactnessTotal: breakdown.S2,
		LunchPenaltyTotal:          breakdown.S3,
		Schedule:                   Schedule{Assignments: assignments},
	}
}

// buildAssignments expands block-relative tuples into one row per absolute
// week the course is active in that block, and numbers
// sessions in enumeration order.
func buildAssignments(p *model.ProblemInstance, tuples []pruner.Tuple) []Assignment {
	sorted := append([]pruner.Tuple(nil), tuples...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Course != b.Course {
			return a.Course < b.Course
		}
		if a.Block != b.Block {
			return a.Block < b.Block
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Period < b.Period
	})

	sessionNumber := make(map[int]int)
	var out []Assignment
	for _, t := range sorted {
		course := &p.Courses[t.Course]
		instructor := &p.Instructors[course.InstructorIndex]
		room := &p.Classrooms[t.Room]
		weeks := p.BlockWeeks(course, t.Block)
		for _, week := range weeks {
			sessionNumber[t.Course]++
			n := sessionNumber[t.Course]
			out = append(out, Assignment{
				CourseID:        course.ID,
				CourseSessionID: fmt.Sprintf("%s-s%d", course.ID, n),
				SessionNumber:   n,
				RoomID:          room.ID,
				Week:            week - 1, // external 0-based
				Day:             p.Term.Days[t.Day],
				PeriodStart:     t.Period - 1, // external 0-based
				PeriodLength:    course.PeriodsPerSession,
				InstructorID:    instructor.ID,
			})
		}
	}
	return out
}
