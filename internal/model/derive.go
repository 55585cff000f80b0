package model

import "time"

// NumPeriods computes P = floor((day_end - day_start) / period_length).
func NumPeriods(dayStart, dayEnd time.Duration, periodLengthMinutes int) int {
	if periodLengthMinutes <= 0 {
		return 0
	}
	span := dayEnd - dayStart
	return int(span / (time.Duration(periodLengthMinutes) * time.Minute))
}

// lunchWindowStart/End are the fixed [12:00, 12:30) lunch window.
var (
	lunchWindowStart = 12 * time.Hour
	lunchWindowEnd   = 12*time.Hour + 30*time.Minute
)

// LunchPeriods returns the 1-based period indices whose interval intersects
// [12:00, 12:30).
func LunchPeriods(dayStart time.Duration, periodLengthMinutes, numPeriods int) []int {
	var out []int
	step := time.Duration(periodLengthMinutes) * time.Minute
	for p := 1; p <= numPeriods; p++ {
		periodStart := dayStart + time.Duration(p-1)*step
		periodEnd := periodStart + step
		if periodStart < lunchWindowEnd && periodEnd > lunchWindowStart {
			out = append(out, p)
		}
	}
	return out
}

// HalfPoint is floor(numWeeks / 2).
func HalfPoint(numWeeks int) int {
	return numWeeks / 2
}

// BlockWeightPair returns the length in weeks of block 1 and block 2.
func BlockWeightPair(numWeeks int) (int, int) {
	half := HalfPoint(numWeeks)
	return half, numWeeks - half
}

// CourseSchedule computes (periodsPerSession, totalSessions, weekStart,
// weekEnd, sessionsPerWeek, blocks) for a course, used by the required-
// sessions-per-block constraint.
//
// full_term: 1.5h/session, weeks 1..W, one session/week.
// first/second half: 3.0h/session, on the corresponding half of the weeks.
func CourseSchedule(t CourseType, numWeeks, halfPoint, periodLengthMinutes int) (periodsPerSession, totalSessions, weekStart, weekEnd, sessionsPerWeek int, blocks []int) {
	switch t {
	case FirstHalfTerm:
		weekStart, weekEnd = 1, halfPoint
		requiredMinutes := 180
		periodsPerSession = ceilDiv(requiredMinutes, periodLengthMinutes)
		activeWeeks := weekEnd - weekStart + 1
		totalSessions = activeWeeks
		blocks = []int{1}
	case SecondHalfTerm:
		weekStart, weekEnd = halfPoint+1, numWeeks
		requiredMinutes := 180
		periodsPerSession = ceilDiv(requiredMinutes, periodLengthMinutes)
		activeWeeks := weekEnd - weekStart + 1
		totalSessions = activeWeeks
		blocks = []int{2}
	default: // FullTerm
		weekStart, weekEnd = 1, numWeeks
		requiredMinutes := 90
		periodsPerSession = ceilDiv(requiredMinutes, periodLengthMinutes)
		totalSessions = numWeeks
		if halfPoint > 0 && halfPoint < numWeeks {
			blocks = []int{1, 2}
		} else if halfPoint >= numWeeks {
			blocks = []int{1}
		} else {
			blocks = []int{2}
		}
	}
	sessionsPerWeek = 1
	return
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
