package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gurukul/internal/model"
)

func quiz() []model.Question {
	return []model.Question{
		{ID: "q1", Question: "Author of the Yoga Sutras?", Options: []string{"Patanjali", "Panini"}, CorrectAnswer: ptr(0), Explanation: "Patanjali"},
		{ID: "q2", Question: "Number of Vedas?", Options: []string{"3", "4", "5"}, CorrectAnswer: ptr(1)},
		{ID: "q3", Question: "Language of the Gita?", Options: []string{"Pali", "Sanskrit"}, CorrectAnswer: ptr(1)},
	}
}

func TestScore(t *testing.T) {
	qs := quiz()
	assert.Equal(t, 100, Score(qs, map[string]int{"q1": 0, "q2": 1, "q3": 1}))
	assert.Equal(t, 67, Score(qs, map[string]int{"q1": 0, "q2": 1}))
	assert.Equal(t, 33, Score(qs, map[string]int{"q1": 0, "q2": 2, "unknown": 1}))
	assert.Equal(t, 0, Score(nil, map[string]int{"q1": 0}))
}

func TestValidateQuestions(t *testing.T) {
	assert.ErrorIs(t, ValidateQuestions(nil), ErrInvalidQuiz)
	assert.ErrorIs(t, ValidateQuestions([]model.Question{{Question: "?", Options: []string{"only"}, CorrectAnswer: ptr(0)}}), ErrInvalidQuiz)
	assert.ErrorIs(t, ValidateQuestions([]model.Question{{Question: "?", Options: []string{"a", "b"}, CorrectAnswer: ptr(2)}}), ErrInvalidQuiz)
	assert.ErrorIs(t, ValidateQuestions([]model.Question{{Question: "?", Options: []string{"a", "b"}}}), ErrInvalidQuiz)
	assert.ErrorIs(t, ValidateQuestions([]model.Question{
		{ID: "x", Question: "?", Options: []string{"a", "b"}, CorrectAnswer: ptr(0)},
		{ID: "x", Question: "?", Options: []string{"a", "b"}, CorrectAnswer: ptr(0)},
	}), ErrInvalidQuiz)

	qs := []model.Question{{Question: "?", Options: []string{"a", "b"}, CorrectAnswer: ptr(1)}}
	require.NoError(t, ValidateQuestions(qs))
	assert.NotEmpty(t, qs[0].ID)
}

func TestAssessmentFlow(t *testing.T) {
	courses := newFakeCourses(model.Course{ID: "c1", TeacherID: "t1", IsActive: true})
	enrollments := newFakeEnrollments()
	_, _ = enrollments.CreateEnrollment(ctx, &model.Enrollment{StudentID: "s1", CourseID: "c1"})
	s := NewAssessmentService(newFakeAssessments(), courses, enrollments)

	_, err := s.Create(ctx, "t2", model.RoleTeacher, &model.Assessment{CourseID: "c1", Title: "Quiz", PassingScore: 60, Questions: quiz()})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Create(ctx, "t1", model.RoleTeacher, &model.Assessment{CourseID: "c1", Title: "Quiz", PassingScore: 101, Questions: quiz()})
	assert.ErrorIs(t, err, ErrInvalidQuiz)

	a, err := s.Create(ctx, "t1", model.RoleTeacher, &model.Assessment{CourseID: "c1", Title: "Quiz", PassingScore: 60, Questions: quiz()})
	require.NoError(t, err)

	studentView, err := s.Get(ctx, a.ID, "s1", model.RoleStudent)
	require.NoError(t, err)
	for _, q := range studentView.Questions {
		assert.Nil(t, q.CorrectAnswer)
		assert.Empty(t, q.Explanation)
	}
	ownerView, err := s.Get(ctx, a.ID, "t1", model.RoleTeacher)
	require.NoError(t, err)
	require.NotNil(t, ownerView.Questions[0].CorrectAnswer)

	list, err := s.ListForCourse(ctx, "c1", "s1", model.RoleStudent)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Questions[1].CorrectAnswer)

	attempt, err := s.Submit(ctx, "s1", a.ID, map[string]int{"q1": 0, "q2": 1}, ptr(12))
	require.NoError(t, err)
	assert.Equal(t, 67, attempt.Score)
	assert.True(t, attempt.Passed)

	attempt, err = s.Submit(ctx, "s1", a.ID, map[string]int{"q1": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.False(t, attempt.Passed)

	_, err = s.Submit(ctx, "s2", a.ID, nil, nil)
	assert.ErrorIs(t, err, ErrNotEnrolled)
	_, err = s.Submit(ctx, "s1", "missing", nil, nil)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)
}
