package normalizer

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrhodes/coursesched/internal/errs"
)

func validInput() Input {
	return Input{
		TermConfig: TermConfigInput{
			NumWeeks:            16,
			Days:                []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
			DayStartTime:        "08:00",
			DayEndTime:          "17:00",
			PeriodLengthMinutes: 30,
		},
		Classrooms: []ClassroomInput{
			{ID: "R1", Name: "Room 1", Capacity: 30},
		},
		Instructors: []InstructorInput{
			{ID: "I1", Name: "Ada", BackToBackPreference: 1},
		},
		Courses: []CourseInput{
			{ID: "CS101", InstructorID: "I1", ExpectedEnrollment: 10, Type: "full_term"},
			{ID: "CS102", InstructorID: "I1", ExpectedEnrollment: 10, Type: "first_half_term"},
		},
		Students: []StudentInput{
			{EnrolledCourseIDs: []string{"CS101", "CS102"}},
			{EnrolledCourseIDs: []string{"CS101", "CS101"}}, // dedup check
		},
		ConflictWeights: ConflictWeightsInput{
			GlobalStudentConflictWeight: 1,
			InstructorCompactnessWeight: 1,
			PreferredTimeSlotsWeight:    1,
		},
	}
}

func TestNormalizeHappyPath(t *testing.T) {
	p, err := Normalize(zerolog.Nop(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 16, p.Term.NumWeeks)
	assert.Equal(t, 8, p.HalfPoint)
	assert.Equal(t, [3]int{0, 8, 8}, p.BlockWeight)
	assert.Len(t, p.Courses, 2)
	assert.Equal(t, 0, p.CourseIndex["CS101"])
	assert.Equal(t, []int{1, 2}, p.Courses[0].Blocks)
	assert.Equal(t, []int{1}, p.Courses[1].Blocks)

	// One student enrolled in both courses -> one conflicting pair; the
	// second student's duplicate entry must not double-count.
	assert.Equal(t, 1, p.StudentsCC[0][1])
	assert.Equal(t, 1, p.StudentsCC[1][0])
}

func TestNormalizeRejectsUnknownInstructor(t *testing.T) {
	in := validInput()
	in.Courses[0].InstructorID = "ghost"
	_, err := Normalize(zerolog.Nop(), in)
	require.Error(t, err)
	kind, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindInvalidInput, kind)
}

func TestNormalizeRejectsDuplicateCourseID(t *testing.T) {
	in := validInput()
	in.Courses = append(in.Courses, in.Courses[0])
	_, err := Normalize(zerolog.Nop(), in)
	assert.Error(t, err)
}

func TestNormalizeRejectsBadDayEndTime(t *testing.T) {
	in := validInput()
	in.TermConfig.DayEndTime = in.TermConfig.DayStartTime
	_, err := Normalize(zerolog.Nop(), in)
	assert.Error(t, err)
}

func TestNormalizeRejectsUnknownStudentCourse(t *testing.T) {
	in := validInput()
	in.Students = append(in.Students, StudentInput{EnrolledCourseIDs: []string{"nope"}})
	_, err := Normalize(zerolog.Nop(), in)
	assert.Error(t, err)
}

func TestNormalizeInstructorAvailabilityDefaultsAllTrue(t *testing.T) {
	p, err := Normalize(zerolog.Nop(), validInput())
	require.NoError(t, err)
	ins := p.Instructors[0]
	for d := range ins.Avail {
		for _, v := range ins.Avail[d] {
			assert.True(t, v)
		}
	}
}

func TestNormalizeInstructorAvailabilityExplicitList(t *testing.T) {
	in := validInput()
	in.Instructors[0].Availability = []AvailabilityEntry{{Day: "Mon", PeriodIndex: 0}}
	p, err := Normalize(zerolog.Nop(), in)
	require.NoError(t, err)
	ins := p.Instructors[0]
	assert.True(t, ins.Avail[0][0])
	assert.False(t, ins.Avail[0][1])
	assert.False(t, ins.Avail[1][0])
}
