package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseTypeString(t *testing.T) {
	assert.Equal(t, "full_term", FullTerm.String())
	assert.Equal(t, "first_half_term", FirstHalfTerm.String())
	assert.Equal(t, "second_half_term", SecondHalfTerm.String())
	assert.Equal(t, "unknown", CourseType(99).String())
}

func TestInstructorLunchPenalty(t *testing.T) {
	assert.Equal(t, 1.0, (&Instructor{AllowLunchTeaching: false}).LunchPenalty())
	assert.Equal(t, 0.0, (&Instructor{AllowLunchTeaching: true}).LunchPenalty())
}

func TestCourseActive(t *testing.T) {
	c := Course{Blocks: []int{1, 2}}
	assert.True(t, c.Active(1))
	assert.True(t, c.Active(2))
	assert.False(t, c.Active(3))
}

func TestBlockOfWeek(t *testing.T) {
	p := &ProblemInstance{HalfPoint: 8}
	assert.Equal(t, 1, p.BlockOfWeek(1))
	assert.Equal(t, 1, p.BlockOfWeek(8))
	assert.Equal(t, 2, p.BlockOfWeek(9))
	assert.Equal(t, 2, p.BlockOfWeek(16))
}

func TestBlockWeeks(t *testing.T) {
	p := &ProblemInstance{HalfPoint: 8, Term: TermConfig{NumWeeks: 16}}

	full := &Course{WeekStart: 1, WeekEnd: 16}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, p.BlockWeeks(full, 1))
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16}, p.BlockWeeks(full, 2))

	firstHalf := &Course{WeekStart: 1, WeekEnd: 8}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, p.BlockWeeks(firstHalf, 1))
	assert.Nil(t, p.BlockWeeks(firstHalf, 2))
}

func TestNumPeriods(t *testing.T) {
	assert.Equal(t, 8, NumPeriods(8*time.Hour, 12*time.Hour, 30))
	assert.Equal(t, 0, NumPeriods(8*time.Hour, 12*time.Hour, 0))
}

func TestLunchPeriods(t *testing.T) {
	// Day starts 8:00, 30-minute periods, 12 periods -> period 9 is
	// [12:00,12:30), squarely the lunch window.
	periods := LunchPeriods(8*time.Hour, 30, 12)
	assert.Contains(t, periods, 9)
}

func TestHalfPointAndBlockWeightPair(t *testing.T) {
	assert.Equal(t, 8, HalfPoint(16))
	assert.Equal(t, 7, HalfPoint(15))

	a, b := BlockWeightPair(16)
	assert.Equal(t, 8, a)
	assert.Equal(t, 8, b)

	a, b = BlockWeightPair(15)
	assert.Equal(t, 7, a)
	assert.Equal(t, 8, b)
}

func TestCourseScheduleFullTerm(t *testing.T) {
	periodsPerSession, totalSessions, weekStart, weekEnd, sessionsPerWeek, blocks :=
		CourseSchedule(FullTerm, 16, 8, 30)
	require.Equal(t, 3, periodsPerSession) // ceil(90/30)
	assert.Equal(t, 16, totalSessions)
	assert.Equal(t, 1, weekStart)
	assert.Equal(t, 16, weekEnd)
	assert.Equal(t, 1, sessionsPerWeek)
	assert.Equal(t, []int{1, 2}, blocks)
}

func TestCourseScheduleHalfTerms(t *testing.T) {
	_, totalSessions, weekStart, weekEnd, _, blocks := CourseSchedule(FirstHalfTerm, 16, 8, 30)
	assert.Equal(t, 8, totalSessions)
	assert.Equal(t, 1, weekStart)
	assert.Equal(t, 8, weekEnd)
	assert.Equal(t, []int{1}, blocks)

	_, totalSessions, weekStart, weekEnd, _, blocks = CourseSchedule(SecondHalfTerm, 16, 8, 30)
	assert.Equal(t, 8, totalSessions)
	assert.Equal(t, 9, weekStart)
	assert.Equal(t, 16, weekEnd)
	assert.Equal(t, []int{2}, blocks)
}
