package repository

import (
	"context"
	"database/sql"
	"errors"

	"gurukul/internal/model"
)

type EnrollmentRepository interface {
	// CreateEnrollment inserts the enrollment; it returns false when the student is already enrolled
	CreateEnrollment(ctx context.Context, e *model.Enrollment) (bool, error)
	GetEnrollment(ctx context.Context, studentID, courseID string) (*model.Enrollment, error)
	// DeleteEnrollment returns false when there was nothing to delete
	DeleteEnrollment(ctx context.Context, studentID, courseID string) (bool, error)
	GetEnrollmentsByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error)
	UpdateProgress(ctx context.Context, studentID, courseID string, progress float64, completed bool) error
}

type enrollmentRepo struct {
	db *sql.DB
}

func NewEnrollmentRepo(db *sql.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) CreateEnrollment(ctx context.Context, e *model.Enrollment) (bool, error) {
	query := `
		INSERT INTO enrollments (student_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, course_id) DO NOTHING
		RETURNING id, progress, completed_at, enrolled_at
	`
	err := r.db.QueryRowContext(ctx, query, e.StudentID, e.CourseID).
		Scan(&e.ID, &e.Progress, &e.CompletedAt, &e.EnrolledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *enrollmentRepo) GetEnrollment(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, progress, completed_at, enrolled_at
		FROM enrollments
		WHERE student_id = $1 AND course_id = $2
	`
	var e model.Enrollment
	err := r.db.QueryRowContext(ctx, query, studentID, courseID).
		Scan(&e.ID, &e.StudentID, &e.CourseID, &e.Progress, &e.CompletedAt, &e.EnrolledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepo) DeleteEnrollment(ctx context.Context, studentID, courseID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetEnrollmentsByStudent lists enrollments newest first with their course attached
func (r *enrollmentRepo) GetEnrollmentsByStudent(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.course_id, e.progress, e.completed_at, e.enrolled_at,
		       c.id, c.teacher_id, COALESCE(u.first_name || ' ' || u.last_name, ''), c.title, c.description,
		       c.category, c.price, c.duration_weeks, c.level, c.image_url, c.is_active, c.created_at, c.updated_at
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		LEFT JOIN users u ON u.id = c.teacher_id
		WHERE e.student_id = $1
		ORDER BY e.enrolled_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		var e model.Enrollment
		var c model.Course
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Progress, &e.CompletedAt, &e.EnrolledAt,
			&c.ID, &c.TeacherID, &c.TeacherName, &c.Title, &c.Description,
			&c.Category, &c.Price, &c.DurationWeeks, &c.Level, &c.ImageURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Course = &c
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// UpdateProgress stores the percentage; completed_at is set once and cleared if progress drops below 100
func (r *enrollmentRepo) UpdateProgress(ctx context.Context, studentID, courseID string, progress float64, completed bool) error {
	query := `
		UPDATE enrollments
		SET progress = $1,
		    completed_at = CASE WHEN $2 THEN COALESCE(completed_at, NOW()) ELSE NULL END,
		    updated_at = NOW()
		WHERE student_id = $3 AND course_id = $4
	`
	_, err := r.db.ExecContext(ctx, query, progress, completed, studentID, courseID)
	return err
}
