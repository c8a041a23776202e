package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gurukul/internal/cache"
	"gurukul/internal/model"
)

func TestCourseProgress(t *testing.T) {
	tests := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{1, 8, 12.5},
		{5, 5, 100},
		{6, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CourseProgress(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func TestEnroll(t *testing.T) {
	courses := newFakeCourses(
		model.Course{ID: "c1", IsActive: true},
		model.Course{ID: "old", IsActive: false},
	)
	enrollments := newFakeEnrollments()
	emitter, pub := newRecordingEmitter()
	s := NewEnrollmentService(enrollments, courses, nil, emitter, nopLog)

	e, err := s.Enroll(ctx, "s1", model.RoleStudent, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", e.Course.ID)

	_, err = s.Enroll(ctx, "s1", model.RoleStudent, "c1")
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	_, err = s.Enroll(ctx, "t1", model.RoleTeacher, "c1")
	assert.ErrorIs(t, err, ErrStudentsOnly)

	_, err = s.Enroll(ctx, "s1", model.RoleStudent, "old")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	require.NoError(t, s.Unenroll(ctx, "s1", "c1"))
	assert.ErrorIs(t, s.Unenroll(ctx, "s1", "c1"), ErrNotEnrolled)

	assert.Equal(t, []string{EventEnrollmentCreated, EventEnrollmentRemoved}, pub.types())
}

func TestEnrollmentChangesRefreshCatalog(t *testing.T) {
	courses := newFakeCourses(model.Course{ID: "c1", IsActive: true})
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	catalog := cache.NewCatalog(client, time.Minute, nopLog)
	emitter, _ := newRecordingEmitter()

	catalogSvc := NewCourseService(courses, catalog, nopLog)
	s := NewEnrollmentService(newFakeEnrollments(), courses, catalog, emitter, nopLog)

	_, err := catalogSvc.List(ctx, model.CourseFilter{})
	require.NoError(t, err)
	_, err = catalogSvc.List(ctx, model.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, courses.listCalls)

	_, err = s.Enroll(ctx, "s1", model.RoleStudent, "c1")
	require.NoError(t, err)
	_, err = catalogSvc.List(ctx, model.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, courses.listCalls)

	require.NoError(t, s.Unenroll(ctx, "s1", "c1"))
	_, err = catalogSvc.List(ctx, model.CourseFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, courses.listCalls)
}

func TestCompleteModule_UpdatesProgress(t *testing.T) {
	courses := newFakeCourses(model.Course{ID: "c1", TeacherID: "t1", IsActive: true})
	modules := newFakeModules(
		model.LearningModule{ID: "m1", CourseID: "c1"},
		model.LearningModule{ID: "m2", CourseID: "c1"},
		model.LearningModule{ID: "m3", CourseID: "c1"},
	)
	enrollments := newFakeEnrollments()
	_, err := enrollments.CreateEnrollment(ctx, &model.Enrollment{StudentID: "s1", CourseID: "c1"})
	require.NoError(t, err)
	emitter, _ := newRecordingEmitter()
	s := NewModuleService(modules, courses, enrollments, emitter, nopLog)

	e, err := s.CompleteModule(ctx, "s1", "m1", ptr(80), 20)
	require.NoError(t, err)
	assert.Equal(t, 33.33, e.Progress)
	assert.Nil(t, e.CompletedAt)

	// repeating a module does not move progress
	e, err = s.CompleteModule(ctx, "s1", "m1", nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 33.33, e.Progress)

	_, err = s.CompleteModule(ctx, "s1", "m2", nil, 0)
	require.NoError(t, err)
	e, err = s.CompleteModule(ctx, "s1", "m3", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, e.Progress)
	assert.NotNil(t, e.CompletedAt)

	_, err = s.CompleteModule(ctx, "stranger", "m1", nil, 0)
	assert.ErrorIs(t, err, ErrNotEnrolled)
	_, err = s.CompleteModule(ctx, "s1", "nope", nil, 0)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestAddModule_OwnerOnly(t *testing.T) {
	courses := newFakeCourses(model.Course{ID: "c1", TeacherID: "t1", IsActive: true})
	s := NewModuleService(newFakeModules(), courses, newFakeEnrollments(), nil, nopLog)

	_, err := s.AddModule(ctx, "t2", model.RoleTeacher, &model.LearningModule{CourseID: "c1", Title: "Intro"})
	assert.ErrorIs(t, err, ErrForbidden)

	m, err := s.AddModule(ctx, "t1", model.RoleTeacher, &model.LearningModule{CourseID: "c1", Title: "Intro"})
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	_, err = s.AddModule(ctx, "t1", model.RoleTeacher, &model.LearningModule{CourseID: "missing"})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
