package model

// StudentStats are the raw counts behind the student dashboard
type StudentStats struct {
	EnrolledCourses   int     `json:"enrolled_courses"`
	CompletedCourses  int     `json:"completed_courses"`
	AverageProgress   float64 `json:"average_progress"`
	CompletedModules  int     `json:"completed_modules"`
	PassedAssessments int     `json:"passed_assessments"`
}

// StudentDashboard is StudentStats plus the derived Dharma points
type StudentDashboard struct {
	StudentStats
	DharmaPoints int          `json:"dharma_points"`
	Enrollments  []Enrollment `json:"enrollments"`
}

// TeacherDashboard summarises an Acharya's active courses
type TeacherDashboard struct {
	Courses       []Course `json:"courses"`
	TotalStudents int      `json:"total_students"`
}

// ParentDashboard carries only the profile; no parent-child link is stored
type ParentDashboard struct {
	Profile User `json:"profile"`
}
