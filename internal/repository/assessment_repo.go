package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"gurukul/internal/model"
)

type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, a *model.Assessment) error
	GetAssessmentByID(ctx context.Context, id string) (*model.Assessment, error)
	GetAssessmentsByCourse(ctx context.Context, courseID string) ([]model.Assessment, error)
	CreateAttempt(ctx context.Context, at *model.AssessmentAttempt) error
	GetAttemptsByStudent(ctx context.Context, studentID, assessmentID string) ([]model.AssessmentAttempt, error)
}

type assessmentRepo struct {
	db *sql.DB
}

func NewAssessmentRepo(db *sql.DB) AssessmentRepository {
	return &assessmentRepo{db: db}
}

func (r *assessmentRepo) CreateAssessment(ctx context.Context, a *model.Assessment) error {
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO assessments (course_id, title, questions, passing_score, time_limit_minutes)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, a.CourseID, a.Title, string(questions), a.PassingScore, a.TimeLimitMinutes).
		Scan(&a.ID, &a.CreatedAt)
}

func scanAssessment(row interface{ Scan(...any) error }, a *model.Assessment) error {
	var questions []byte
	if err := row.Scan(&a.ID, &a.CourseID, &a.Title, &questions, &a.PassingScore, &a.TimeLimitMinutes, &a.CreatedAt); err != nil {
		return err
	}
	return json.Unmarshal(questions, &a.Questions)
}

func (r *assessmentRepo) GetAssessmentByID(ctx context.Context, id string) (*model.Assessment, error) {
	query := `
		SELECT id, course_id, title, questions, passing_score, time_limit_minutes, created_at
		FROM assessments
		WHERE id = $1
	`
	var a model.Assessment
	if err := scanAssessment(r.db.QueryRowContext(ctx, query, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *assessmentRepo) GetAssessmentsByCourse(ctx context.Context, courseID string) ([]model.Assessment, error) {
	query := `
		SELECT id, course_id, title, questions, passing_score, time_limit_minutes, created_at
		FROM assessments
		WHERE course_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := []model.Assessment{}
	for rows.Next() {
		var a model.Assessment
		if err := scanAssessment(rows, &a); err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

func (r *assessmentRepo) CreateAttempt(ctx context.Context, at *model.AssessmentAttempt) error {
	answers, err := json.Marshal(at.Answers)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO assessment_attempts (assessment_id, student_id, answers, score, passed, time_taken_minutes)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6)
		RETURNING id, completed_at
	`
	return r.db.QueryRowContext(ctx, query, at.AssessmentID, at.StudentID, string(answers), at.Score, at.Passed,
		at.TimeTakenMinutes).
		Scan(&at.ID, &at.CompletedAt)
}

func (r *assessmentRepo) GetAttemptsByStudent(ctx context.Context, studentID, assessmentID string) ([]model.AssessmentAttempt, error) {
	query := `
		SELECT id, assessment_id, student_id, answers, score, passed, time_taken_minutes, completed_at
		FROM assessment_attempts
		WHERE student_id = $1 AND assessment_id = $2
		ORDER BY completed_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, studentID, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []model.AssessmentAttempt{}
	for rows.Next() {
		var at model.AssessmentAttempt
		var answers []byte
		if err := rows.Scan(&at.ID, &at.AssessmentID, &at.StudentID, &answers, &at.Score, &at.Passed,
			&at.TimeTakenMinutes, &at.CompletedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &at.Answers); err != nil {
			return nil, err
		}
		attempts = append(attempts, at)
	}
	return attempts, rows.Err()
}
