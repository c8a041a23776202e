package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gurukul/internal/model"
	"gurukul/internal/pubsub"
	"gurukul/internal/storage"
)

var (
	ctx     = context.Background()
	nopLog  = zerolog.Nop()
	fixedTS = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

type fakeUsers struct {
	byID      map[string]*model.User
	seq       int
	createErr error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]*model.User{}} }

func (f *fakeUsers) CreateUser(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	u.ID = fmt.Sprintf("u%d", f.seq)
	u.IsActive = true
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := f.GetUserByEmail(ctx, email)
	return u != nil, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, u *model.User) error {
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

type fakeCourses struct {
	byID      map[string]*model.Course
	listCalls int
	lastQuery model.CourseFilter
}

func newFakeCourses(courses ...model.Course) *fakeCourses {
	f := &fakeCourses{byID: map[string]*model.Course{}}
	for i := range courses {
		c := courses[i]
		f.byID[c.ID] = &c
	}
	return f
}

func (f *fakeCourses) ListCourses(_ context.Context, q model.CourseFilter) ([]model.Course, int, error) {
	f.listCalls++
	f.lastQuery = q
	out := []model.Course{}
	for _, c := range f.byID {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeCourses) GetCourseByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := f.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCourses) GetCoursesByTeacher(_ context.Context, teacherID string) ([]model.Course, error) {
	out := []model.Course{}
	for _, c := range f.byID {
		if c.TeacherID == teacherID && c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourses) CreateCourse(_ context.Context, c *model.Course) error {
	c.ID = fmt.Sprintf("c%d", len(f.byID)+1)
	c.IsActive = true
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCourses) UpdateCourse(_ context.Context, c *model.Course) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCourses) DeactivateCourse(_ context.Context, id string) error {
	f.byID[id].IsActive = false
	return nil
}

type enrollmentKey struct{ student, course string }

type fakeEnrollments struct {
	rows map[enrollmentKey]*model.Enrollment
}

func newFakeEnrollments() *fakeEnrollments {
	return &fakeEnrollments{rows: map[enrollmentKey]*model.Enrollment{}}
}

func (f *fakeEnrollments) CreateEnrollment(_ context.Context, e *model.Enrollment) (bool, error) {
	k := enrollmentKey{e.StudentID, e.CourseID}
	if _, ok := f.rows[k]; ok {
		return false, nil
	}
	e.ID = "e-" + e.StudentID + "-" + e.CourseID
	e.EnrolledAt = fixedTS
	cp := *e
	f.rows[k] = &cp
	return true, nil
}

func (f *fakeEnrollments) GetEnrollment(_ context.Context, studentID, courseID string) (*model.Enrollment, error) {
	if e, ok := f.rows[enrollmentKey{studentID, courseID}]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeEnrollments) DeleteEnrollment(_ context.Context, studentID, courseID string) (bool, error) {
	k := enrollmentKey{studentID, courseID}
	_, ok := f.rows[k]
	delete(f.rows, k)
	return ok, nil
}

func (f *fakeEnrollments) GetEnrollmentsByStudent(_ context.Context, studentID string) ([]model.Enrollment, error) {
	out := []model.Enrollment{}
	for k, e := range f.rows {
		if k.student == studentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) UpdateProgress(_ context.Context, studentID, courseID string, progress float64, completed bool) error {
	e := f.rows[enrollmentKey{studentID, courseID}]
	e.Progress = progress
	if completed {
		if e.CompletedAt == nil {
			ts := fixedTS
			e.CompletedAt = &ts
		}
	} else {
		e.CompletedAt = nil
	}
	return nil
}

type fakeModules struct {
	modules  map[string]*model.LearningModule
	progress map[string]*model.StudentProgress
}

func newFakeModules(modules ...model.LearningModule) *fakeModules {
	f := &fakeModules{modules: map[string]*model.LearningModule{}, progress: map[string]*model.StudentProgress{}}
	for i := range modules {
		m := modules[i]
		f.modules[m.ID] = &m
	}
	return f
}

func (f *fakeModules) CreateModule(_ context.Context, m *model.LearningModule) error {
	m.ID = fmt.Sprintf("m%d", len(f.modules)+1)
	cp := *m
	f.modules[m.ID] = &cp
	return nil
}

func (f *fakeModules) GetModuleByID(_ context.Context, id string) (*model.LearningModule, error) {
	if m, ok := f.modules[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeModules) GetModulesByCourse(_ context.Context, courseID string) ([]model.LearningModule, error) {
	out := []model.LearningModule{}
	for _, m := range f.modules {
		if m.CourseID == courseID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeModules) UpsertProgress(_ context.Context, p *model.StudentProgress) error {
	k := p.StudentID + "/" + p.ModuleID
	if existing, ok := f.progress[k]; ok {
		existing.TimeSpentMinutes += p.TimeSpentMinutes
		*p = *existing
		return nil
	}
	ts := fixedTS
	p.CompletedAt = &ts
	cp := *p
	f.progress[k] = &cp
	return nil
}

func (f *fakeModules) CountProgress(_ context.Context, studentID, courseID string) (int, int, error) {
	completed, total := 0, 0
	for _, m := range f.modules {
		if m.CourseID != courseID {
			continue
		}
		total++
		if _, ok := f.progress[studentID+"/"+m.ID]; ok {
			completed++
		}
	}
	return completed, total, nil
}

type fakeAssessments struct {
	byID     map[string]*model.Assessment
	attempts []model.AssessmentAttempt
}

func newFakeAssessments(list ...model.Assessment) *fakeAssessments {
	f := &fakeAssessments{byID: map[string]*model.Assessment{}}
	for i := range list {
		a := list[i]
		f.byID[a.ID] = &a
	}
	return f
}

// clone deep-copies through JSON so callers cannot mutate stored questions
func clone(a *model.Assessment) *model.Assessment {
	data, _ := json.Marshal(a)
	var out model.Assessment
	_ = json.Unmarshal(data, &out)
	return &out
}

func (f *fakeAssessments) CreateAssessment(_ context.Context, a *model.Assessment) error {
	a.ID = fmt.Sprintf("a%d", len(f.byID)+1)
	f.byID[a.ID] = clone(a)
	return nil
}

func (f *fakeAssessments) GetAssessmentByID(_ context.Context, id string) (*model.Assessment, error) {
	if a, ok := f.byID[id]; ok {
		return clone(a), nil
	}
	return nil, nil
}

func (f *fakeAssessments) GetAssessmentsByCourse(_ context.Context, courseID string) ([]model.Assessment, error) {
	out := []model.Assessment{}
	for _, a := range f.byID {
		if a.CourseID == courseID {
			out = append(out, *clone(a))
		}
	}
	return out, nil
}

func (f *fakeAssessments) CreateAttempt(_ context.Context, at *model.AssessmentAttempt) error {
	at.ID = fmt.Sprintf("at%d", len(f.attempts)+1)
	f.attempts = append(f.attempts, *at)
	return nil
}

func (f *fakeAssessments) GetAttemptsByStudent(_ context.Context, studentID, assessmentID string) ([]model.AssessmentAttempt, error) {
	out := []model.AssessmentAttempt{}
	for _, at := range f.attempts {
		if at.StudentID == studentID && at.AssessmentID == assessmentID {
			out = append(out, at)
		}
	}
	return out, nil
}

type fakeMedia struct {
	byID        map[string]*model.MediaFile
	statuses    []string
	progress    map[string]*model.MediaProgress
	lastQ       model.MediaSearch
	lastCourseQ model.CourseMediaQuery
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{byID: map[string]*model.MediaFile{}, progress: map[string]*model.MediaProgress{}}
}

func (f *fakeMedia) CreateMedia(_ context.Context, m *model.MediaFile) error {
	m.ID = fmt.Sprintf("media%d", len(f.byID)+1)
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMedia) GetMediaByID(_ context.Context, id string) (*model.MediaFile, error) {
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMedia) UpdateStatus(_ context.Context, id, status string) error {
	f.statuses = append(f.statuses, status)
	f.byID[id].Status = status
	return nil
}

func (f *fakeMedia) MarkReady(_ context.Context, id string, size int64, contentType string) error {
	m := f.byID[id]
	m.Status, m.FileSize, m.ContentType = model.MediaStatusReady, size, contentType
	return nil
}

func (f *fakeMedia) GetMediaByCourse(_ context.Context, q model.CourseMediaQuery) ([]model.MediaFile, error) {
	f.lastCourseQ = q
	out := []model.MediaFile{}
	for _, m := range f.byID {
		if m.CourseID == nil || *m.CourseID != q.CourseID || (q.Category != "" && m.Category != q.Category) {
			continue
		}
		visible := (m.IsPublic && m.Status == model.MediaStatusReady) || m.UploadedBy == q.ViewerID
		if q.All || visible {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMedia) SearchMedia(_ context.Context, s model.MediaSearch) ([]model.MediaFile, error) {
	f.lastQ = s
	return []model.MediaFile{}, nil
}

func (f *fakeMedia) DeleteMedia(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeMedia) UpsertProgress(_ context.Context, p *model.MediaProgress) error {
	p.LastWatchedAt = fixedTS
	cp := *p
	f.progress[p.UserID+"/"+p.MediaFileID] = &cp
	return nil
}

type fakeStore struct {
	objects map[string]storage.ObjectInfo
	deleted []string
	headErr error
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string]storage.ObjectInfo{}} }

func (s *fakeStore) PresignPut(_ context.Context, key, _ string) (string, error) {
	return "https://storage.test/put/" + key, nil
}

func (s *fakeStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://storage.test/get/" + key, nil
}

func (s *fakeStore) Head(_ context.Context, key string) (*storage.ObjectInfo, error) {
	if s.headErr != nil {
		return nil, s.headErr
	}
	info, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &info, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://storage.test/public/" + key
}

type fakeQueue struct {
	sent [][]byte
}

func (q *fakeQueue) Send(_ context.Context, payload []byte) (int64, error) {
	q.sent = append(q.sent, payload)
	return int64(len(q.sent)), nil
}

// recordingPublisher captures emitted domain events
type recordingPublisher struct {
	mu     sync.Mutex
	events []pubsub.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, payload []byte) (string, error) {
	var e pubsub.Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return fmt.Sprint(len(p.events)), nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func newRecordingEmitter() (*pubsub.Emitter, *recordingPublisher) {
	pub := &recordingPublisher{}
	return pubsub.NewEmitter(pub, "events", nopLog), pub
}

func ptr[T any](v T) *T { return &v }
