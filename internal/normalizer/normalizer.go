package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nrhodes/coursesched/internal/errs"
	"github.com/nrhodes/coursesched/internal/model"
)

// Normalize converts a raw Input into an immutable model.ProblemInstance,
// failing with errs.KindInvalidInput on malformed references, duplicate
// IDs, or structurally inconsistent term/course data.
func Normalize(log zerolog.Logger, in Input) (*model.ProblemInstance, error) {
	term, dayIndex, err := normalizeTerm(in.TermConfig)
	if err != nil {
		return nil, err
	}

	classrooms, roomIndex, err := normalizeClassrooms(in.Classrooms)
	if err != nil {
		return nil, err
	}

	instructors, instructorIndex, err := normalizeInstructors(in.Instructors, term, dayIndex)
	if err != nil {
		return nil, err
	}

	courses, courseIndex, err := normalizeCourses(in.Courses, instructorIndex, term.NumWeeks, term.PeriodLengthMinutes)
	if err != nil {
		return nil, err
	}

	studentsCC, err := buildStudentsCC(in.Students, courseIndex, len(courses))
	if err != nil {
		return nil, err
	}

	weights := model.Weights{
		StudentConflict:       in.ConflictWeights.GlobalStudentConflictWeight,
		InstructorCompactness: in.ConflictWeights.InstructorCompactnessWeight,
		PreferredTimeSlots:    in.ConflictWeights.PreferredTimeSlotsWeight,
	}
	if weights.StudentConflict < 0 || weights.InstructorCompactness < 0 || weights.PreferredTimeSlots < 0 {
		return nil, errs.InvalidInput("conflict_weights must be non-negative")
	}

	half := model.HalfPoint(term.NumWeeks)
	bw1, bw2 := model.BlockWeightPair(term.NumWeeks)

	instance := &model.ProblemInstance{
		Term:            term,
		Classrooms:      classrooms,
		Instructors:     instructors,
		Courses:         courses,
		StudentsCC:      studentsCC,
		Weights:         weights,
		HalfPoint:       half,
		BlockWeight:     [3]int{0, bw1, bw2},
		CourseIndex:     courseIndex,
		ClassroomIndex:  roomIndex,
		InstructorIndex: instructorIndex,
		DayIndex:        dayIndex,
	}

	log.Info().
		Int("num_weeks", term.NumWeeks).
		Int("num_periods", term.NumPeriods).
		Int("num_classrooms", len(classrooms)).
		Int("num_instructors", len(instructors)).
		Int("num_courses", len(courses)).
		Int("half_point", half).
		Msg("normalized problem instance")

	return instance, nil
}

func parseClock(s string) (time.Duration, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, found %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("bad hour in %q: %v", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("bad minute in %q: %v", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time out of range: %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func normalizeTerm(in TermConfigInput) (model.TermConfig, map[string]int, error) {
	var term model.TermConfig
	if in.NumWeeks <= 0 {
		return term, nil, errs.InvalidInput("num_weeks must be > 0")
	}
	if len(in.Days) == 0 {
		return term, nil, errs.InvalidInput("days must be non-empty")
	}
	dayIndex := make(map[string]int, len(in.Days))
	for i, d := range in.Days {
		if d == "" {
			return term, nil, errs.InvalidInput("day label must be non-empty")
		}
		if _, dup := dayIndex[d]; dup {
			return term, nil, errs.InvalidInput("duplicate day label %q", d)
		}
		dayIndex[d] = i
	}
	if in.PeriodLengthMinutes <= 0 {
		return term, nil, errs.InvalidInput("period_length_minutes must be > 0")
	}
	start, err := parseClock(in.DayStartTime)
	if err != nil {
		return term, nil, errs.InvalidInput("day_start_time: %v", err)
	}
	end, err := parseClock(in.DayEndTime)
	if err != nil {
		return term, nil, errs.InvalidInput("day_end_time: %v", err)
	}
	if end <= start {
		return term, nil, errs.InvalidInput("day_end_time must be after day_start_time")
	}

	numPeriods := model.NumPeriods(start, end, in.PeriodLengthMinutes)
	if numPeriods <= 0 {
		return term, nil, errs.InvalidInput("period_length_minutes leaves no periods in the day")
	}

	term = model.TermConfig{
		NumWeeks:            in.NumWeeks,
		Days:                append([]string(nil), in.Days...),
		DayStartTime:        start,
		DayEndTime:          end,
		PeriodLengthMinutes: in.PeriodLengthMinutes,
		NumPeriods:          numPeriods,
		LunchPeriods:        model.LunchPeriods(start, in.PeriodLengthMinutes, numPeriods),
	}
	return term, dayIndex, nil
}

func normalizeClassrooms(in []ClassroomInput) ([]model.Classroom, map[string]int, error) {
	if len(in) == 0 {
		return nil, nil, errs.InvalidInput("classrooms must be non-empty")
	}
	out := make([]model.Classroom, 0, len(in))
	index := make(map[string]int, len(in))
	for _, c := range in {
		if c.ID == "" {
			return nil, nil, errs.InvalidInput("classroom id must be non-empty")
		}
		if _, dup := index[c.ID]; dup {
			return nil, nil, errs.InvalidInput("duplicate classroom id %q", c.ID)
		}
		if c.Capacity < 0 {
			return nil, nil, errs.InvalidInput("classroom %q capacity must be >= 0", c.ID)
		}
		index[c.ID] = len(out)
		out = append(out, model.Classroom{ID: c.ID, Name: c.Name, Capacity: c.Capacity})
	}
	return out, index, nil
}

func normalizeInstructors(in []InstructorInput, term model.TermConfig, dayIndex map[string]int) ([]model.Instructor, map[string]int, error) {
	if len(in) == 0 {
		return nil, nil, errs.InvalidInput("instructors must be non-empty")
	}
	out := make([]model.Instructor, 0, len(in))
	index := make(map[string]int, len(in))
	for _, ins := range in {
		if ins.ID == "" {
			return nil, nil, errs.InvalidInput("instructor id must be non-empty")
		}
		if _, dup := index[ins.ID]; dup {
			return nil, nil, errs.InvalidInput("duplicate instructor id %q", ins.ID)
		}
		if ins.BackToBackPreference < 0 {
			return nil, nil, errs.InvalidInput("instructor %q back_to_back_preference must be >= 0", ins.ID)
		}

		avail := make([][]bool, len(term.Days))
		defaultTrue := len(ins.Availability) == 0
		for d := range avail {
			avail[d] = make([]bool, term.NumPeriods)
			for p := range avail[d] {
				avail[d][p] = defaultTrue
			}
		}
		for _, a := range ins.Availability {
			d, ok := dayIndex[a.Day]
			if !ok {
				return nil, nil, errs.InvalidInput("instructor %q: unknown availability day %q", ins.ID, a.Day)
			}
			if a.PeriodIndex < 0 || a.PeriodIndex >= term.NumPeriods {
				return nil, nil, errs.InvalidInput("instructor %q: availability period_index %d out of range", ins.ID, a.PeriodIndex)
			}
			// External period_index is 0-based; convert to 1-based internal
			// by storing at the same zero-based slice index (index p holds
			// period p+1).
			avail[d][a.PeriodIndex] = true
		}

		index[ins.ID] = len(out)
		out = append(out, model.Instructor{
			ID:                   ins.ID,
			Name:                 ins.Name,
			Avail:                avail,
			BackToBackPreference: ins.BackToBackPreference,
			AllowLunchTeaching:   ins.AllowLunchTeaching,
		})
	}
	return out, index, nil
}

func normalizeCourses(in []CourseInput, instructorIndex map[string]int, numWeeks, periodLengthMinutes int) ([]model.Course, map[string]int, error) {
	if len(in) == 0 {
		return nil, nil, errs.InvalidInput("courses must be non-empty")
	}
	half := model.HalfPoint(numWeeks)
	out := make([]model.Course, 0, len(in))
	index := make(map[string]int, len(in))
	for _, c := range in {
		if c.ID == "" {
			return nil, nil, errs.InvalidInput("course id must be non-empty")
		}
		if _, dup := index[c.ID]; dup {
			return nil, nil, errs.InvalidInput("duplicate course id %q", c.ID)
		}
		instructorIdx, ok := instructorIndex[c.InstructorID]
		if !ok {
			return nil, nil, errs.InvalidInput("course %q: unknown instructor_id %q", c.ID, c.InstructorID)
		}
		if c.ExpectedEnrollment < 0 {
			return nil, nil, errs.InvalidInput("course %q: expected_enrollment must be >= 0", c.ID)
		}
		var courseType model.CourseType
		switch c.Type {
		case "full_term":
			courseType = model.FullTerm
		case "first_half_term":
			courseType = model.FirstHalfTerm
		case "second_half_term":
			courseType = model.SecondHalfTerm
		default:
			return nil, nil, errs.InvalidInput("course %q: unknown type %q", c.ID, c.Type)
		}

		periodsPerSession, totalSessions, weekStart, weekEnd, sessionsPerWeek, blocks :=
			model.CourseSchedule(courseType, numWeeks, half, periodLengthMinutes)

		index[c.ID] = len(out)
		out = append(out, model.Course{
			ID:                 c.ID,
			InstructorIndex:    instructorIdx,
			ExpectedEnrollment: c.ExpectedEnrollment,
			Type:               courseType,
			PeriodsPerSession:  periodsPerSession,
			TotalSessions:      totalSessions,
			WeekStart:          weekStart,
			WeekEnd:            weekEnd,
			SessionsPerWeek:    sessionsPerWeek,
			Blocks:             blocks,
		})
	}
	return out, index, nil
}

func buildStudentsCC(students []StudentInput, courseIndex map[string]int, numCourses int) ([][]int, error) {
	cc := make([][]int, numCourses)
	for i := range cc {
		cc[i] = make([]int, numCourses)
	}
	for _, s := range students {
		seen := make(map[int]bool, len(s.EnrolledCourseIDs))
		var idxs []int
		for _, cid := range s.EnrolledCourseIDs {
			idx, ok := courseIndex[cid]
			if !ok {
				return nil, errs.InvalidInput("student enrollment references unknown course %q", cid)
			}
			if seen[idx] {
				continue
			}
			seen[idx] = true
			idxs = append(idxs, idx)
		}
		for i := 0; i < len(idxs); i++ {
			for j := i + 1; j < len(idxs); j++ {
				a, b := idxs[i], idxs[j]
				cc[a][b]++
				cc[b][a]++
			}
		}
	}
	return cc, nil
}
