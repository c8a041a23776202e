package model

import "time"

// Question is a single multiple-choice item. CorrectAnswer indexes Options and
// is nil when the viewer may not see the answer key.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Assessment struct {
	ID               string     `db:"id" json:"id"`
	CourseID         string     `db:"course_id" json:"course_id"`
	Title            string     `db:"title" json:"title"`
	Questions        []Question `db:"questions" json:"questions"`
	PassingScore     int        `db:"passing_score" json:"passing_score"`
	TimeLimitMinutes *int       `db:"time_limit_minutes" json:"time_limit_minutes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

type AssessmentAttempt struct {
	ID               string         `db:"id" json:"id"`
	AssessmentID     string         `db:"assessment_id" json:"assessment_id"`
	StudentID        string         `db:"student_id" json:"student_id"`
	Answers          map[string]int `db:"answers" json:"answers"`
	Score            int            `db:"score" json:"score"`
	Passed           bool           `db:"passed" json:"passed"`
	TimeTakenMinutes *int           `db:"time_taken_minutes" json:"time_taken_minutes,omitempty"`
	CompletedAt      time.Time      `db:"completed_at" json:"completed_at"`
}
