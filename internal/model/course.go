package model

import "time"

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course is a catalog entry owned by a teacher
type Course struct {
	ID              string    `db:"id" json:"id"`
	TeacherID       string    `db:"teacher_id" json:"teacher_id"`
	TeacherName     string    `db:"teacher_name" json:"teacher_name"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	Category        string    `db:"category" json:"category"`
	Price           float64   `db:"price" json:"price"`
	DurationWeeks   *int      `db:"duration_weeks" json:"duration_weeks,omitempty"`
	Level           *string   `db:"level" json:"level,omitempty"`
	ImageURL        *string   `db:"image_url" json:"image_url,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	EnrollmentCount int       `db:"enrollment_count" json:"enrollment_count"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter narrows the public catalog
type CourseFilter struct {
	Category string
	Level    string
	Search   string
	Page     int
	Size     int
	SortBy   string
	SortDir  string
}

// CoursePage is one page of catalog results
type CoursePage struct {
	Items []Course `json:"items"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
	Total int      `json:"total"`
}

// LearningModule is an ordered unit of course content
type LearningModule struct {
	ID              string    `db:"id" json:"id"`
	CourseID        string    `db:"course_id" json:"course_id"`
	Title           string    `db:"title" json:"title"`
	Content         string    `db:"content" json:"content"`
	OrderIndex      int       `db:"order_index" json:"order_index"`
	VideoURL        *string   `db:"video_url" json:"video_url,omitempty"`
	DurationMinutes *int      `db:"duration_minutes" json:"duration_minutes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Enrollment links a student to a course
type Enrollment struct {
	ID          string     `db:"id" json:"id"`
	StudentID   string     `db:"student_id" json:"student_id"`
	CourseID    string     `db:"course_id" json:"course_id"`
	Progress    float64    `db:"progress" json:"progress"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	EnrolledAt  time.Time  `db:"enrolled_at" json:"enrolled_at"`
	Course      *Course    `json:"course,omitempty"`
}

// StudentProgress records a finished module
type StudentProgress struct {
	ID               string     `db:"id" json:"id"`
	StudentID        string     `db:"student_id" json:"student_id"`
	CourseID         string     `db:"course_id" json:"course_id"`
	ModuleID         string     `db:"module_id" json:"module_id"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Score            *int       `db:"score" json:"score,omitempty"`
	TimeSpentMinutes int        `db:"time_spent_minutes" json:"time_spent_minutes"`
}
