package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"gurukul/internal/model"
	"gurukul/internal/repository"
)

type AssessmentService interface {
	Create(ctx context.Context, actorID, actorRole string, a *model.Assessment) (*model.Assessment, error)
	// ListForCourse hides answers unless the viewer owns the course or is an admin
	ListForCourse(ctx context.Context, courseID, viewerID, viewerRole string) ([]model.Assessment, error)
	Get(ctx context.Context, id, viewerID, viewerRole string) (*model.Assessment, error)
	Submit(ctx context.Context, studentID, assessmentID string, answers map[string]int, timeTakenMinutes *int) (*model.AssessmentAttempt, error)
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
}

func NewAssessmentService(
	assessments repository.AssessmentRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
) AssessmentService {
	return &assessmentService{assessments: assessments, courses: courses, enrollments: enrollments}
}

// ValidateQuestions checks every question has at least two options and a
// correct answer that indexes one of them. Missing IDs are generated.
func ValidateQuestions(questions []model.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidQuiz)
	}
	seen := make(map[string]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if strings.TrimSpace(q.ID) == "" {
			q.ID = uuid.NewString()
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuiz, q.ID)
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuiz, i+1)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least two options", ErrInvalidQuiz, i+1)
		}
		if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %d has no valid correct answer", ErrInvalidQuiz, i+1)
		}
	}
	return nil
}

// Score grades answers against the key. Unanswered questions count as wrong.
func Score(questions []model.Question, answers map[string]int) int {
	if len(questions) == 0 {
		return 0
	}
	correct := 0
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && q.CorrectAnswer != nil && a == *q.CorrectAnswer {
			correct++
		}
	}
	return int(math.Round(float64(correct) * 100 / float64(len(questions))))
}

func (s *assessmentService) canSeeAnswers(ctx context.Context, courseID, viewerID, viewerRole string) (bool, error) {
	if viewerRole == model.RoleAdmin {
		return true, nil
	}
	if viewerRole != model.RoleTeacher {
		return false, nil
	}
	c, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return false, err
	}
	return c != nil && c.TeacherID == viewerID, nil
}

func stripAnswers(a *model.Assessment) {
	for i := range a.Questions {
		a.Questions[i].CorrectAnswer = nil
		a.Questions[i].Explanation = ""
	}
}

func (s *assessmentService) Create(ctx context.Context, actorID, actorRole string, a *model.Assessment) (*model.Assessment, error) {
	c, err := s.courses.GetCourseByID(ctx, a.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if c == nil || !c.IsActive {
		return nil, ErrCourseNotFound
	}
	if actorRole != model.RoleAdmin && c.TeacherID != actorID {
		return nil, ErrForbidden
	}
	if a.PassingScore < 0 || a.PassingScore > 100 {
		return nil, fmt.Errorf("%w: passing score must be between 0 and 100", ErrInvalidQuiz)
	}
	if err := ValidateQuestions(a.Questions); err != nil {
		return nil, err
	}
	if err := s.assessments.CreateAssessment(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create assessment: %w", err)
	}
	return a, nil
}

func (s *assessmentService) ListForCourse(ctx context.Context, courseID, viewerID, viewerRole string) ([]model.Assessment, error) {
	list, err := s.assessments.GetAssessmentsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	ok, err := s.canSeeAnswers(ctx, courseID, viewerID, viewerRole)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if !ok {
		for i := range list {
			stripAnswers(&list[i])
		}
	}
	return list, nil
}

func (s *assessmentService) Get(ctx context.Context, id, viewerID, viewerRole string) (*model.Assessment, error) {
	a, err := s.assessments.GetAssessmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	ok, err := s.canSeeAnswers(ctx, a.CourseID, viewerID, viewerRole)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if !ok {
		stripAnswers(a)
	}
	return a, nil
}

func (s *assessmentService) Submit(ctx context.Context, studentID, assessmentID string, answers map[string]int, timeTakenMinutes *int) (*model.AssessmentAttempt, error) {
	a, err := s.assessments.GetAssessmentByID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment: %w", err)
	}
	if a == nil {
		return nil, ErrAssessmentNotFound
	}
	enrollment, err := s.enrollments.GetEnrollment(ctx, studentID, a.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrNotEnrolled
	}

	if answers == nil {
		answers = map[string]int{}
	}
	score := Score(a.Questions, answers)
	attempt := &model.AssessmentAttempt{
		AssessmentID:     assessmentID,
		StudentID:        studentID,
		Answers:          answers,
		Score:            score,
		Passed:           score >= a.PassingScore,
		TimeTakenMinutes: timeTakenMinutes,
	}
	if err := s.assessments.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	return attempt, nil
}
