package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"gurukul/internal/model"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	// ListCourses returns one page of active courses matching the filter plus the total match count
	ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, int, error)
	// GetCourseByID retrieves a course by its ID, active or not
	GetCourseByID(ctx context.Context, courseID string) (*model.Course, error)
	GetCoursesByTeacher(ctx context.Context, teacherID string) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	// UpdateCourse updates an existing course
	UpdateCourse(ctx context.Context, c *model.Course) error
	DeactivateCourse(ctx context.Context, courseID string) error
}

type courseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *sql.DB) CourseRepository {
	return &courseRepo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere in the value
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// sortable catalog columns; anything else falls back to created_at
var courseSortColumns = map[string]string{
	"created_at": "c.created_at",
	"title":      "c.title",
	"price":      "c.price",
}

var courseSelect = []string{
	"c.id", "c.teacher_id", "COALESCE(u.first_name || ' ' || u.last_name, '') AS teacher_name",
	"c.title", "c.description", "c.category", "c.price", "c.duration_weeks", "c.level", "c.image_url",
	"c.is_active", "(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS enrollment_count",
	"c.created_at", "c.updated_at",
}

func scanCourse(row interface{ Scan(...any) error }, c *model.Course) error {
	return row.Scan(&c.ID, &c.TeacherID, &c.TeacherName, &c.Title, &c.Description, &c.Category, &c.Price,
		&c.DurationWeeks, &c.Level, &c.ImageURL, &c.IsActive, &c.EnrollmentCount, &c.CreatedAt, &c.UpdatedAt)
}

func catalogPredicate(f model.CourseFilter) sq.And {
	where := sq.And{sq.Eq{"c.is_active": true}}
	if f.Category != "" {
		where = append(where, sq.Eq{"c.category": f.Category})
	}
	if f.Level != "" {
		where = append(where, sq.Eq{"c.level": f.Level})
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		where = append(where, sq.Or{sq.ILike{"c.title": pattern}, sq.ILike{"c.description": pattern}})
	}
	return where
}

// ListCourses runs the count and page queries for a normalized filter
func (r *courseRepo) ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, int, error) {
	where := catalogPredicate(f)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("courses c").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := courseSortColumns[f.SortBy]
	if !ok {
		column = courseSortColumns["created_at"]
	}
	dir := "DESC"
	if f.SortDir == "asc" {
		dir = "ASC"
	}

	query, args, err := psql.Select(courseSelect...).
		From("courses c").
		LeftJoin("users u ON u.id = c.teacher_id").
		Where(where).
		OrderBy(fmt.Sprintf("%s %s", column, dir), "c.id").
		Limit(uint64(f.Size)).
		Offset(uint64(f.Page * f.Size)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	courses, err := r.queryCourses(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) GetCoursesByTeacher(ctx context.Context, teacherID string) ([]model.Course, error) {
	query, args, err := psql.Select(courseSelect...).
		From("courses c").
		LeftJoin("users u ON u.id = c.teacher_id").
		Where(sq.Eq{"c.teacher_id": teacherID, "c.is_active": true}).
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryCourses(ctx, query, args...)
}

func (r *courseRepo) queryCourses(ctx context.Context, query string, args ...any) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := scanCourse(rows, &c); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID string) (*model.Course, error) {
	query, args, err := psql.Select(courseSelect...).
		From("courses c").
		LeftJoin("users u ON u.id = c.teacher_id").
		Where(sq.Eq{"c.id": courseID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var c model.Course
	if err := scanCourse(r.db.QueryRowContext(ctx, query, args...), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// CreateCourse inserts a new course and fills in the generated fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (teacher_id, title, description, category, price, duration_weeks, level, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.TeacherID, c.Title, c.Description, c.Category, c.Price,
		c.DurationWeeks, c.Level, c.ImageURL).
		Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateCourse updates an existing course record and returns updated timestamps
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, category = $3, price = $4, duration_weeks = $5, level = $6,
		    image_url = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, c.Title, c.Description, c.Category, c.Price, c.DurationWeeks,
		c.Level, c.ImageURL, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *courseRepo) DeactivateCourse(ctx context.Context, courseID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE courses SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, courseID)
	return err
}
