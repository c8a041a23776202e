package service

import (
	"context"
	"fmt"

	"gurukul/internal/model"
	"gurukul/internal/repository"
)

// Dharma point weights
const (
	pointsPerModule     = 10
	pointsPerAssessment = 25
	pointsPerCourse     = 100
)

// DharmaPoints scores completed modules, passed assessments and completed courses
func DharmaPoints(s model.StudentStats) int {
	return pointsPerModule*s.CompletedModules +
		pointsPerAssessment*s.PassedAssessments +
		pointsPerCourse*s.CompletedCourses
}

type DashboardService interface {
	Student(ctx context.Context, studentID string) (*model.StudentDashboard, error)
	Teacher(ctx context.Context, teacherID string) (*model.TeacherDashboard, error)
	Parent(ctx context.Context, parentID string) (*model.ParentDashboard, error)
}

type dashboardService struct {
	stats       repository.DashboardRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
}

func NewDashboardService(
	stats repository.DashboardRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	users repository.UserRepository,
) DashboardService {
	return &dashboardService{stats: stats, courses: courses, enrollments: enrollments, users: users}
}

func (s *dashboardService) Student(ctx context.Context, studentID string) (*model.StudentDashboard, error) {
	stats, err := s.stats.GetStudentStats(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	enrollments, err := s.enrollments.GetEnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollments: %w", err)
	}
	return &model.StudentDashboard{
		StudentStats: *stats,
		DharmaPoints: DharmaPoints(*stats),
		Enrollments:  enrollments,
	}, nil
}

func (s *dashboardService) Teacher(ctx context.Context, teacherID string) (*model.TeacherDashboard, error) {
	courses, err := s.courses.GetCoursesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	total := 0
	for _, c := range courses {
		total += c.EnrollmentCount
	}
	return &model.TeacherDashboard{Courses: courses, TotalStudents: total}, nil
}

func (s *dashboardService) Parent(ctx context.Context, parentID string) (*model.ParentDashboard, error) {
	u, err := s.users.GetUserByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return &model.ParentDashboard{Profile: *u}, nil
}
