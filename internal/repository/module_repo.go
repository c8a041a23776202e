package repository

import (
	"context"
	"database/sql"
	"errors"

	"gurukul/internal/model"
)

// ModuleRepository covers learning modules and per-student module completion
type ModuleRepository interface {
	CreateModule(ctx context.Context, m *model.LearningModule) error
	GetModuleByID(ctx context.Context, moduleID string) (*model.LearningModule, error)
	GetModulesByCourse(ctx context.Context, courseID string) ([]model.LearningModule, error)
	UpsertProgress(ctx context.Context, p *model.StudentProgress) error
	// CountProgress returns the completed and total module counts for a student in a course
	CountProgress(ctx context.Context, studentID, courseID string) (completed int, total int, err error)
}

type moduleRepo struct {
	db *sql.DB
}

func NewModuleRepo(db *sql.DB) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) CreateModule(ctx context.Context, m *model.LearningModule) error {
	query := `
		INSERT INTO learning_modules (course_id, title, content, order_index, video_url, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, m.CourseID, m.Title, m.Content, m.OrderIndex, m.VideoURL, m.DurationMinutes).
		Scan(&m.ID, &m.CreatedAt)
}

func (r *moduleRepo) GetModuleByID(ctx context.Context, moduleID string) (*model.LearningModule, error) {
	query := `
		SELECT id, course_id, title, content, order_index, video_url, duration_minutes, created_at
		FROM learning_modules
		WHERE id = $1
	`
	var m model.LearningModule
	err := r.db.QueryRowContext(ctx, query, moduleID).
		Scan(&m.ID, &m.CourseID, &m.Title, &m.Content, &m.OrderIndex, &m.VideoURL, &m.DurationMinutes, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *moduleRepo) GetModulesByCourse(ctx context.Context, courseID string) ([]model.LearningModule, error) {
	query := `
		SELECT id, course_id, title, content, order_index, video_url, duration_minutes, created_at
		FROM learning_modules
		WHERE course_id = $1
		ORDER BY order_index ASC, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := []model.LearningModule{}
	for rows.Next() {
		var m model.LearningModule
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Content, &m.OrderIndex, &m.VideoURL,
			&m.DurationMinutes, &m.CreatedAt); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// UpsertProgress marks a module complete; repeating it keeps the first completion time
func (r *moduleRepo) UpsertProgress(ctx context.Context, p *model.StudentProgress) error {
	query := `
		INSERT INTO student_progress (student_id, course_id, module_id, completed_at, score, time_spent_minutes)
		VALUES ($1, $2, $3, NOW(), $4, $5)
		ON CONFLICT (student_id, module_id) DO UPDATE
		SET score = COALESCE(EXCLUDED.score, student_progress.score),
		    time_spent_minutes = student_progress.time_spent_minutes + EXCLUDED.time_spent_minutes,
		    completed_at = COALESCE(student_progress.completed_at, EXCLUDED.completed_at),
		    updated_at = NOW()
		RETURNING id, completed_at, score, time_spent_minutes
	`
	return r.db.QueryRowContext(ctx, query, p.StudentID, p.CourseID, p.ModuleID, p.Score, p.TimeSpentMinutes).
		Scan(&p.ID, &p.CompletedAt, &p.Score, &p.TimeSpentMinutes)
}

func (r *moduleRepo) CountProgress(ctx context.Context, studentID, courseID string) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM student_progress sp
			  WHERE sp.student_id = $1 AND sp.course_id = $2 AND sp.completed_at IS NOT NULL),
			(SELECT COUNT(*) FROM learning_modules lm WHERE lm.course_id = $2)
	`
	var completed, total int
	err := r.db.QueryRowContext(ctx, query, studentID, courseID).Scan(&completed, &total)
	return completed, total, err
}
