package pruner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrhodes/coursesched/internal/model"
)

// small builds a 2-day, 4-period instance: one instructor available only
// on day 0, one course (enrollment 10) requiring a 2-period session, and
// two rooms of capacity 20 and 5.
func small() *model.ProblemInstance {
	return &model.ProblemInstance{
		Term: model.TermConfig{
			NumWeeks:   16,
			Days:       []string{"Mon", "Tue"},
			NumPeriods: 4,
		},
		Classrooms: []model.Classroom{
			{ID: "R1", Capacity: 20},
			{ID: "R2", Capacity: 5},
		},
		Instructors: []model.Instructor{
			{
				ID:   "I1",
				Avail: [][]bool{
					{true, true, true, true},   // Mon: fully available
					{false, false, false, false}, // Tue: unavailable
				},
			},
		},
		Courses: []model.Course{
			{
				ID:                  "C1",
				InstructorIndex:     0,
				ExpectedEnrollment:  10,
				PeriodsPerSession:   2,
				SessionsPerWeek:     1,
				Blocks:              []int{1, 2},
			},
		},
	}
}

func TestValidXRespectsInstructorAvailability(t *testing.T) {
	p := small()
	tuples := ValidX(p)
	require.NotEmpty(t, tuples)
	for _, tp := range tuples {
		assert.Equal(t, 0, tp.Day, "course instructor is unavailable on Tue")
	}
}

func TestValidXRespectsRoomCapacity(t *testing.T) {
	p := small()
	tuples := ValidX(p)
	for _, tp := range tuples {
		assert.Equal(t, 0, tp.Room, "room R2's capacity (5) is below the course's enrollment (10)")
	}
}

func TestValidXRespectsPeriodBounds(t *testing.T) {
	p := small()
	tuples := ValidX(p)
	for _, tp := range tuples {
		assert.LessOrEqual(t, tp.Period+2-1, p.Term.NumPeriods)
	}
}

func TestValidXEnumeratesBothBlocks(t *testing.T) {
	p := small()
	tuples := ValidX(p)
	blocks := map[int]bool{}
	for _, tp := range tuples {
		blocks[tp.Block] = true
	}
	assert.True(t, blocks[1])
	assert.True(t, blocks[2])
}

func TestBuildIndexGroupsByCourseAndByCourseBlockDay(t *testing.T) {
	p := small()
	tuples := ValidX(p)
	idx := BuildIndex(tuples)

	assert.Len(t, idx.All, len(tuples))
	assert.Equal(t, tuples, idx.ByCourse[0])

	for _, tp := range tuples {
		key := [3]int{tp.Course, tp.Block, tp.Day}
		assert.Contains(t, idx.ByCourseBlockDay[key], tp)
	}
}
