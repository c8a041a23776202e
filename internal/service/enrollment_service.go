package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"gurukul/internal/cache"
	"gurukul/internal/metrics"
	"gurukul/internal/model"
	"gurukul/internal/pubsub"
	"gurukul/internal/repository"
)

// Domain event types
const (
	EventEnrollmentCreated = "enrollment.created"
	EventEnrollmentRemoved = "enrollment.removed"
	EventModuleCompleted   = "module.completed"
	EventMediaUploaded     = "media.uploaded"
	EventParticipantJoined = "event.joined"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, role, courseID string) (*model.Enrollment, error)
	Unenroll(ctx context.Context, studentID, courseID string) error
	MyCourses(ctx context.Context, studentID string) ([]model.Enrollment, error)
}

type enrollmentService struct {
	enrollments      repository.EnrollmentRepository
	courses          repository.CourseRepository
	catalog          *cache.Catalog
	emitter          *pubsub.Emitter
	enrollmentLogger zerolog.Logger
}

func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	courses repository.CourseRepository,
	catalog *cache.Catalog,
	emitter *pubsub.Emitter,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments:      enrollments,
		courses:          courses,
		catalog:          catalog,
		emitter:          emitter,
		enrollmentLogger: logger.With().Str("service", "EnrollmentService").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID, role, courseID string) (*model.Enrollment, error) {
	if role != model.RoleStudent {
		return nil, ErrStudentsOnly
	}
	c, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if c == nil || !c.IsActive {
		return nil, ErrCourseNotFound
	}

	e := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	created, err := s.enrollments.CreateEnrollment(ctx, e)
	if err != nil {
		s.enrollmentLogger.Error().Err(err).Str("course_id", courseID).Str("student_id", studentID).Msg("Failed to enroll")
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}
	if !created {
		return nil, ErrAlreadyEnrolled
	}
	e.Course = c
	// cached catalog entries carry the enrollment count
	s.catalog.Invalidate(ctx)

	metrics.Enrollments.Inc()
	s.emitter.Emit(ctx, EventEnrollmentCreated, map[string]string{"student_id": studentID, "course_id": courseID})
	return e, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, studentID, courseID string) error {
	deleted, err := s.enrollments.DeleteEnrollment(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to unenroll: %w", err)
	}
	if !deleted {
		return ErrNotEnrolled
	}
	s.catalog.Invalidate(ctx)
	s.emitter.Emit(ctx, EventEnrollmentRemoved, map[string]string{"student_id": studentID, "course_id": courseID})
	return nil
}

func (s *enrollmentService) MyCourses(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	return s.enrollments.GetEnrollmentsByStudent(ctx, studentID)
}

// CourseProgress is completed/total as a percentage rounded to two decimals.
// A course without modules has no progress.
func CourseProgress(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return math.Round(float64(completed)*10000/float64(total)) / 100
}
