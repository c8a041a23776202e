package service

import (
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gurukul/internal/cache"
	"gurukul/internal/model"
)

func TestNormalizeCourseFilter(t *testing.T) {
	tests := []struct {
		name string
		in   model.CourseFilter
		want model.CourseFilter
	}{
		{
			name: "defaults",
			in:   model.CourseFilter{},
			want: model.CourseFilter{Page: 0, Size: 10, SortBy: "created_at", SortDir: "desc"},
		},
		{
			name: "clamps",
			in:   model.CourseFilter{Page: -3, Size: 1000, SortBy: "price", SortDir: "asc", Search: "  yoga "},
			want: model.CourseFilter{Page: 0, Size: 100, SortBy: "price", SortDir: "asc", Search: "yoga"},
		},
		{
			name: "huge page",
			in:   model.CourseFilter{Page: math.MaxInt, Size: 100},
			want: model.CourseFilter{Page: math.MaxInt32 / 100, Size: 100, SortBy: "created_at", SortDir: "desc"},
		},
		{
			name: "unknown sort",
			in:   model.CourseFilter{Size: 5, SortBy: "teacher_id", SortDir: "sideways"},
			want: model.CourseFilter{Size: 5, SortBy: "created_at", SortDir: "desc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCourseFilter(tt.in))
		})
	}
}

func newCachedCourses(t *testing.T, repo *fakeCourses) CourseService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCourseService(repo, cache.NewCatalog(client, time.Minute, nopLog), nopLog)
}

func TestCourseList_CachedUntilWrite(t *testing.T) {
	repo := newFakeCourses(model.Course{ID: "c1", TeacherID: "t1", Title: "Vedas", IsActive: true})
	s := newCachedCourses(t, repo)

	page, err := s.List(ctx, model.CourseFilter{Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.Size)

	_, err = s.List(ctx, model.CourseFilter{Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = s.Create(ctx, "t1", &model.Course{Title: "Upanishads", Category: "philosophy"})
	require.NoError(t, err)

	page, err = s.List(ctx, model.CourseFilter{Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, 2, page.Total)
}

func TestCourseGet_HidesInactive(t *testing.T) {
	repo := newFakeCourses(
		model.Course{ID: "live", IsActive: true},
		model.Course{ID: "gone", IsActive: false},
	)
	s := NewCourseService(repo, nil, nopLog)

	c, err := s.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "live", c.ID)

	_, err = s.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseUpdateAndDelete_Ownership(t *testing.T) {
	repo := newFakeCourses(model.Course{ID: "c1", TeacherID: "owner", Title: "Old", IsActive: true})
	s := NewCourseService(repo, nil, nopLog)

	_, err := s.Update(ctx, "intruder", model.RoleTeacher, &model.Course{ID: "c1", Title: "Hijacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := s.Update(ctx, "owner", model.RoleTeacher, &model.Course{ID: "c1", Title: "New", Category: "arts"})
	require.NoError(t, err)
	assert.Equal(t, "owner", updated.TeacherID)
	assert.Equal(t, "New", repo.byID["c1"].Title)

	assert.ErrorIs(t, s.Delete(ctx, "intruder", model.RoleTeacher, "c1"), ErrForbidden)
	require.NoError(t, s.Delete(ctx, "admin-id", model.RoleAdmin, "c1"))
	assert.False(t, repo.byID["c1"].IsActive)

	assert.ErrorIs(t, s.Delete(ctx, "owner", model.RoleTeacher, "c1"), ErrCourseNotFound)
}
