package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"gurukul/internal/model"
	"gurukul/internal/pubsub"
	"gurukul/internal/repository"
)

// ModuleService manages course content and per-student completion
type ModuleService interface {
	AddModule(ctx context.Context, actorID, actorRole string, m *model.LearningModule) (*model.LearningModule, error)
	ListModules(ctx context.Context, courseID string) ([]model.LearningModule, error)
	// CompleteModule records completion and returns the refreshed enrollment
	CompleteModule(ctx context.Context, studentID, moduleID string, score *int, timeSpentMinutes int) (*model.Enrollment, error)
}

type moduleService struct {
	modules      repository.ModuleRepository
	courses      repository.CourseRepository
	enrollments  repository.EnrollmentRepository
	emitter      *pubsub.Emitter
	moduleLogger zerolog.Logger
}

func NewModuleService(
	modules repository.ModuleRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	emitter *pubsub.Emitter,
	logger zerolog.Logger,
) ModuleService {
	return &moduleService{
		modules:      modules,
		courses:      courses,
		enrollments:  enrollments,
		emitter:      emitter,
		moduleLogger: logger.With().Str("service", "ModuleService").Logger(),
	}
}

func (s *moduleService) AddModule(ctx context.Context, actorID, actorRole string, m *model.LearningModule) (*model.LearningModule, error) {
	c, err := s.courses.GetCourseByID(ctx, m.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if c == nil || !c.IsActive {
		return nil, ErrCourseNotFound
	}
	if actorRole != model.RoleAdmin && c.TeacherID != actorID {
		return nil, ErrForbidden
	}
	if err := s.modules.CreateModule(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create module: %w", err)
	}
	return m, nil
}

func (s *moduleService) ListModules(ctx context.Context, courseID string) ([]model.LearningModule, error) {
	return s.modules.GetModulesByCourse(ctx, courseID)
}

func (s *moduleService) CompleteModule(ctx context.Context, studentID, moduleID string, score *int, timeSpentMinutes int) (*model.Enrollment, error) {
	m, err := s.modules.GetModuleByID(ctx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load module: %w", err)
	}
	if m == nil {
		return nil, ErrModuleNotFound
	}
	enrollment, err := s.enrollments.GetEnrollment(ctx, studentID, m.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrNotEnrolled
	}

	if timeSpentMinutes < 0 {
		timeSpentMinutes = 0
	}
	p := &model.StudentProgress{
		StudentID:        studentID,
		CourseID:         m.CourseID,
		ModuleID:         moduleID,
		Score:            score,
		TimeSpentMinutes: timeSpentMinutes,
	}
	if err := s.modules.UpsertProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	completed, total, err := s.modules.CountProgress(ctx, studentID, m.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count progress: %w", err)
	}
	progress := CourseProgress(completed, total)
	done := total > 0 && completed >= total
	if err := s.enrollments.UpdateProgress(ctx, studentID, m.CourseID, progress, done); err != nil {
		s.moduleLogger.Error().Err(err).Str("student_id", studentID).Str("course_id", m.CourseID).Msg("Failed to update enrollment progress")
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	s.emitter.Emit(ctx, EventModuleCompleted, map[string]string{
		"student_id": studentID,
		"course_id":  m.CourseID,
		"module_id":  moduleID,
	})
	return s.enrollments.GetEnrollment(ctx, studentID, m.CourseID)
}
