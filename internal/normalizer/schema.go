// Package normalizer implements the first stage of the optimization core:
// it parses the raw, loosely-typed input object into a typed, indexed
// model.ProblemInstance and computes every derived quantity (block weeks,
// per-block session counts, student course-conflict pairs) downstream
// components need.
package normalizer

// Input is the raw JSON input object.
type Input struct {
	TermConfig      TermConfigInput       `json:"term_config"`
	Classrooms      []ClassroomInput      `json:"classrooms"`
	Instructors     []InstructorInput     `json:"instructors"`
	Courses         []CourseInput         `json:"courses"`
	Students        []StudentInput        `json:"students"`
	ConflictWeights ConflictWeightsInput  `json:"conflict_weights"`
}

type TermConfigInput struct {
	NumWeeks            int      `json:"num_weeks"`
	Days                []string `json:"days"`
	DayStartTime        string   `json:"day_start_time"`
	DayEndTime          string   `json:"day_end_time"`
	PeriodLengthMinutes int      `json:"period_length_minutes"`
}

type ClassroomInput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type AvailabilityEntry struct {
	Day         string `json:"day"`
	PeriodIndex int    `json:"period_index"`
}

type InstructorInput struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	Availability         []AvailabilityEntry `json:"availability"`
	BackToBackPreference int                 `json:"back_to_back_preference"`
	AllowLunchTeaching   bool                `json:"allow_lunch_teaching"`
}

type CourseInput struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	InstructorID       string `json:"instructor_id"`
	ExpectedEnrollment int    `json:"expected_enrollment"`
	Type               string `json:"type"`
}

type StudentInput struct {
	EnrolledCourseIDs []string `json:"enrolled_course_ids"`
}

type ConflictWeightsInput struct {
	GlobalStudentConflictWeight float64 `json:"global_student_conflict_weight"`
	InstructorCompactnessWeight float64 `json:"instructor_compactness_weight"`
	PreferredTimeSlotsWeight    float64 `json:"preferred_time_slots_weight"`
}
