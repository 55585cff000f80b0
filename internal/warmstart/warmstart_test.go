package warmstart

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/pruner"
)

func twoCourseInstance() *model.ProblemInstance {
	fullAvail := [][]bool{
		{true, true, true, true},
		{true, true, true, true},
	}
	return &model.ProblemInstance{
		Term: model.TermConfig{
			NumWeeks:   16,
			Days:       []string{"Mon", "Tue"},
			NumPeriods: 4,
		},
		Classrooms: []model.Classroom{
			{ID: "R1", Capacity: 30},
		},
		Instructors: []model.Instructor{
			{ID: "I1", Avail: fullAvail},
		},
		Courses: []model.Course{
			{ID: "C1", InstructorIndex: 0, ExpectedEnrollment: 10, PeriodsPerSession: 2, SessionsPerWeek: 1, Blocks: []int{1, 2}},
			{ID: "C2", InstructorIndex: 0, ExpectedEnrollment: 20, PeriodsPerSession: 2, SessionsPerWeek: 1, Blocks: []int{1, 2}},
		},
	}
}

func TestBuildProducesConflictFreeAssignment(t *testing.T) {
	p := twoCourseInstance()
	idx := pruner.BuildIndex(pruner.ValidX(p))
	result := Build(zerolog.Nop(), p, idx)
	require.NotEmpty(t, result.Tuples)

	// Same instructor teaches both courses: no two placed tuples in the
	// same block/day may overlap in period range, since both share I1.
	type slot struct{ block, day, period int }
	seen := make(map[slot]string)
	for _, tp := range result.Tuples {
		for period := tp.Period; period < tp.Period+p.Courses[tp.Course].PeriodsPerSession; period++ {
			s := slot{tp.Block, tp.Day, period}
			owner, exists := seen[s]
			assert.Falsef(t, exists, "slot %+v double-booked by %q and %q", s, owner, p.Courses[tp.Course].ID)
			seen[s] = p.Courses[tp.Course].ID
		}
	}
}

func TestAssignmentHas(t *testing.T) {
	a := &Assignment{Tuples: []pruner.Tuple{{Course: 0, Block: 1, Day: 0, Period: 1, Room: 0}}}
	assert.True(t, a.Has(pruner.Tuple{Course: 0, Block: 1, Day: 0, Period: 1, Room: 0}))
	assert.False(t, a.Has(pruner.Tuple{Course: 0, Block: 1, Day: 0, Period: 2, Room: 0}))
}

func TestCourseOrderRanksSingleBlockBeforeFullTermThenByEnrollmentDesc(t *testing.T) {
	p := &model.ProblemInstance{
		Courses: []model.Course{
			{ID: "full-small", ExpectedEnrollment: 5, Blocks: []int{1, 2}},
			{ID: "half-big", ExpectedEnrollment: 50, Blocks: []int{1}},
			{ID: "half-small", ExpectedEnrollment: 10, Blocks: []int{2}},
			{ID: "full-big", ExpectedEnrollment: 100, Blocks: []int{1, 2}},
		},
	}
	order := courseOrder(p)
	ids := make([]string, len(order))
	for i, ci := range order {
		ids[i] = p.Courses[ci].ID
	}
	assert.Equal(t, []string{"half-big", "half-small", "full-big", "full-small"}, ids)
}
