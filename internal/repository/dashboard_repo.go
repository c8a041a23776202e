package repository

import (
	"context"
	"database/sql"

	"gurukul/internal/model"
)

type DashboardRepository interface {
	GetStudentStats(ctx context.Context, studentID string) (*model.StudentStats, error)
}

type dashboardRepo struct {
	db *sql.DB
}

func NewDashboardRepo(db *sql.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

// GetStudentStats counts distinct passed assessments, so retaking a passed quiz earns nothing extra
func (r *dashboardRepo) GetStudentStats(ctx context.Context, studentID string) (*model.StudentStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM enrollments WHERE student_id = $1),
			(SELECT COUNT(*) FROM enrollments WHERE student_id = $1 AND completed_at IS NOT NULL),
			(SELECT COALESCE(AVG(progress), 0) FROM enrollments WHERE student_id = $1),
			(SELECT COUNT(*) FROM student_progress WHERE student_id = $1 AND completed_at IS NOT NULL),
			(SELECT COUNT(DISTINCT assessment_id) FROM assessment_attempts WHERE student_id = $1 AND passed)
	`
	var s model.StudentStats
	err := r.db.QueryRowContext(ctx, query, studentID).Scan(
		&s.EnrolledCourses,
		&s.CompletedCourses,
		&s.AverageProgress,
		&s.CompletedModules,
		&s.PassedAssessments,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
