package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"gurukul/internal/cache"
	"gurukul/internal/model"
	"gurukul/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CourseService defines the interface for course operations
type CourseService interface {
	List(ctx context.Context, f model.CourseFilter) (*model.CoursePage, error)
	// Get returns an active course
	Get(ctx context.Context, courseID string) (*model.Course, error)
	Create(ctx context.Context, teacherID string, c *model.Course) (*model.Course, error)
	// Update changes a course the actor owns, or any course for admins
	Update(ctx context.Context, actorID, actorRole string, c *model.Course) (*model.Course, error)
	// Delete hides a course from the catalog; enrollments are kept
	Delete(ctx context.Context, actorID, actorRole, courseID string) error
}

type courseService struct {
	repo         repository.CourseRepository
	cache        *cache.Catalog
	courseLogger zerolog.Logger
}

// NewCourseService creates a new CourseService. catalog may be nil.
func NewCourseService(repo repository.CourseRepository, catalog *cache.Catalog, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:         repo,
		cache:        catalog,
		courseLogger: logger.With().Str("service", "CourseService").Logger(),
	}
}

// clampPage keeps page*size within an int32 offset
func clampPage(page, size int) int {
	return max(0, min(page, math.MaxInt32/size))
}

// NormalizeCourseFilter clamps paging and drops unknown sort options
func NormalizeCourseFilter(f model.CourseFilter) model.CourseFilter {
	f.Category = strings.TrimSpace(f.Category)
	f.Level = strings.TrimSpace(f.Level)
	f.Search = strings.TrimSpace(f.Search)
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	f.Page = clampPage(f.Page, f.Size)
	switch f.SortBy {
	case "created_at", "title", "price":
	default:
		f.SortBy = "created_at"
	}
	if f.SortDir != "asc" {
		f.SortDir = "desc"
	}
	return f
}

func (s *courseService) List(ctx context.Context, f model.CourseFilter) (*model.CoursePage, error) {
	f = NormalizeCourseFilter(f)
	key := fmt.Sprintf("list:%q:%q:%q:%d:%d:%s:%s", f.Category, f.Level, strings.ToLower(f.Search), f.Page, f.Size, f.SortBy, f.SortDir)

	return cache.Remember(ctx, s.cache, key, func(ctx context.Context) (*model.CoursePage, error) {
		items, total, err := s.repo.ListCourses(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to list courses: %w", err)
		}
		return &model.CoursePage{Items: items, Page: f.Page, Size: f.Size, Total: total}, nil
	})
}

func (s *courseService) Get(ctx context.Context, courseID string) (*model.Course, error) {
	return cache.Remember(ctx, s.cache, "course:"+courseID, func(ctx context.Context) (*model.Course, error) {
		return s.getActive(ctx, courseID)
	})
}

func (s *courseService) getActive(ctx context.Context, courseID string) (*model.Course, error) {
	c, err := s.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if c == nil || !c.IsActive {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *courseService) Create(ctx context.Context, teacherID string, c *model.Course) (*model.Course, error) {
	c.TeacherID = teacherID
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		s.courseLogger.Error().Err(err).Str("teacher_id", teacherID).Msg("Failed to create course")
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	s.cache.Invalidate(ctx)
	return c, nil
}

func (s *courseService) authorize(ctx context.Context, actorID, actorRole, courseID string) (*model.Course, error) {
	existing, err := s.getActive(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if actorRole != model.RoleAdmin && existing.TeacherID != actorID {
		return nil, ErrForbidden
	}
	return existing, nil
}

func (s *courseService) Update(ctx context.Context, actorID, actorRole string, c *model.Course) (*model.Course, error) {
	existing, err := s.authorize(ctx, actorID, actorRole, c.ID)
	if err != nil {
		return nil, err
	}
	c.TeacherID = existing.TeacherID
	c.TeacherName = existing.TeacherName
	c.EnrollmentCount = existing.EnrollmentCount
	c.IsActive = true
	if err := s.repo.UpdateCourse(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	s.cache.Invalidate(ctx)
	return c, nil
}

func (s *courseService) Delete(ctx context.Context, actorID, actorRole, courseID string) error {
	if _, err := s.authorize(ctx, actorID, actorRole, courseID); err != nil {
		return err
	}
	if err := s.repo.DeactivateCourse(ctx, courseID); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	s.cache.Invalidate(ctx)
	s.courseLogger.Info().Str("course_id", courseID).Str("actor_id", actorID).Msg("Course deactivated")
	return nil
}
