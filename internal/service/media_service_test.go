package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gurukul/internal/model"
	"gurukul/internal/storage"
)

func TestDetectFileType(t *testing.T) {
	tests := map[string]string{
		"video/mp4":                      model.FileTypeVideo,
		"audio/mpeg":                     model.FileTypeAudio,
		"IMAGE/PNG":                      model.FileTypeImage,
		"application/pdf":                model.FileTypeBook,
		"application/epub+zip":           model.FileTypeBook,
		"application/x-mobipocket-ebook": model.FileTypeBook,
		"text/plain":                     model.FileTypeDocument,
		"":                               model.FileTypeDocument,
	}
	for mime, want := range tests {
		assert.Equal(t, want, DetectFileType(mime), mime)
	}
}

func TestExtractTags(t *testing.T) {
	assert.Equal(t, []string{"bhagavad", "gita", "chapter"}, ExtractTags("Bhagavad-Gita_Chapter 02.pdf"))
	assert.Equal(t, []string{"mantra"}, ExtractTags("om mantra.mp3"))
	assert.Equal(t, []string{"yoga"}, ExtractTags("yoga-yoga.mp4"))
	assert.Equal(t, []string{}, ExtractTags("a_b.c"))
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	assert.Equal(t, "u1/1700000000123.mp4", ObjectKey("u1", "Lecture.MP4", at))
	assert.Equal(t, "u1/1700000000123.bin", ObjectKey("u1", "README", at))
}

func newTestMedia(maxBytes int64) (*mediaService, *fakeMedia, *fakeStore, *fakeQueue, *recordingPublisher) {
	repo := newFakeMedia()
	courses := newFakeCourses(
		model.Course{ID: "c1", TeacherID: "u1", IsActive: true},
		model.Course{ID: "retired", TeacherID: "u1", IsActive: false},
	)
	store := newFakeStore()
	queue := &fakeQueue{}
	emitter, pub := newRecordingEmitter()
	s := NewMediaService(repo, courses, store, queue, emitter, maxBytes, nopLog).(*mediaService)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, repo, store, queue, pub
}

func TestMediaUploadLifecycle(t *testing.T) {
	s, repo, store, queue, pub := newTestMedia(1 << 20)

	m, uploadURL, err := s.InitiateUpload(ctx, UploadRequest{
		UserID: "u1", Filename: "Gayatri-Mantra.mp3", ContentType: "audio/mpeg", Size: 1024, IsPublic: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1/1700000000000.mp3", m.StorageKey)
	assert.Equal(t, "Gayatri-Mantra", m.Title)
	assert.Equal(t, model.FileTypeAudio, m.FileType)
	assert.Equal(t, "lecture", m.Category)
	assert.Equal(t, []string{"gayatri", "mantra"}, m.Tags)
	assert.Equal(t, model.MediaStatusUploading, m.Status)
	assert.Equal(t, "https://storage.test/put/u1/1700000000000.mp3", uploadURL)

	_, err = s.CompleteUpload(ctx, m.ID, "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)

	store.objects[m.StorageKey] = storage.ObjectInfo{Size: 1024, ContentType: "audio/mpeg"}
	done, err := s.CompleteUpload(ctx, m.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, model.MediaStatusProcessing, done.Status)

	require.Len(t, queue.sent, 1)
	var job model.MediaJob
	require.NoError(t, json.Unmarshal(queue.sent[0], &job))
	assert.Equal(t, model.MediaJob{MediaID: m.ID, StorageKey: m.StorageKey}, job)
	assert.Equal(t, []string{EventMediaUploaded}, pub.types())

	_, err = s.CompleteUpload(ctx, m.ID, "u1")
	assert.ErrorIs(t, err, ErrInvalidUpload)
	assert.Equal(t, model.MediaStatusProcessing, repo.byID[m.ID].Status)
}

func TestCompleteUpload_MissingObjectFails(t *testing.T) {
	s, repo, _, queue, _ := newTestMedia(1 << 20)
	m, _, err := s.InitiateUpload(ctx, UploadRequest{UserID: "u1", Filename: "notes.pdf", ContentType: "application/pdf", Size: 10})
	require.NoError(t, err)

	_, err = s.CompleteUpload(ctx, m.ID, "u1")
	assert.ErrorIs(t, err, ErrUploadIncomplete)
	assert.Equal(t, model.MediaStatusFailed, repo.byID[m.ID].Status)
	assert.Empty(t, queue.sent)
}

func TestCompleteUpload_StorageError(t *testing.T) {
	s, _, store, _, _ := newTestMedia(1 << 20)
	m, _, err := s.InitiateUpload(ctx, UploadRequest{UserID: "u1", Filename: "a.mp4", ContentType: "video/mp4", Size: 10})
	require.NoError(t, err)
	store.headErr = errors.New("connection reset")

	_, err = s.CompleteUpload(ctx, m.ID, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUploadIncomplete)
}

func TestInitiateUpload_TooLarge(t *testing.T) {
	s, _, _, _, _ := newTestMedia(100)
	_, _, err := s.InitiateUpload(ctx, UploadRequest{UserID: "u1", Filename: "big.mp4", Size: 101})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestInitiateUpload_CourseOwnership(t *testing.T) {
	s, repo, _, _, _ := newTestMedia(1 << 20)
	course := func(id string) *string { return &id }

	_, _, err := s.InitiateUpload(ctx, UploadRequest{UserID: "u2", UserRole: model.RoleTeacher, Filename: "a.mp4", Size: 10, CourseID: course("c1")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = s.InitiateUpload(ctx, UploadRequest{UserID: "u1", UserRole: model.RoleTeacher, Filename: "a.mp4", Size: 10, CourseID: course("missing")})
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, _, err = s.InitiateUpload(ctx, UploadRequest{UserID: "u1", UserRole: model.RoleTeacher, Filename: "a.mp4", Size: 10, CourseID: course("retired")})
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Empty(t, repo.byID)

	m, _, err := s.InitiateUpload(ctx, UploadRequest{UserID: "u1", UserRole: model.RoleTeacher, Filename: "a.mp4", Size: 10, CourseID: course("c1")})
	require.NoError(t, err)
	assert.Equal(t, "c1", *m.CourseID)

	_, _, err = s.InitiateUpload(ctx, UploadRequest{UserID: "boss", UserRole: model.RoleAdmin, Filename: "b.mp4", Size: 10, CourseID: course("c1")})
	assert.NoError(t, err)
}

func TestCourseMedia_Visibility(t *testing.T) {
	s, repo, _, _, _ := newTestMedia(1)
	c1 := "c1"
	repo.byID["a-public"] = &model.MediaFile{ID: "a-public", CourseID: &c1, IsPublic: true, Status: model.MediaStatusReady, UploadedBy: "u1"}
	repo.byID["b-private"] = &model.MediaFile{ID: "b-private", CourseID: &c1, IsPublic: false, Status: model.MediaStatusReady, UploadedBy: "u1"}
	repo.byID["c-uploading"] = &model.MediaFile{ID: "c-uploading", CourseID: &c1, IsPublic: true, Status: model.MediaStatusUploading, UploadedBy: "u1"}
	repo.byID["d-failed"] = &model.MediaFile{ID: "d-failed", CourseID: &c1, IsPublic: true, Status: model.MediaStatusFailed, UploadedBy: "u3"}

	ids := func(files []model.MediaFile) []string {
		out := []string{}
		for _, f := range files {
			out = append(out, f.ID)
		}
		return out
	}

	files, err := s.CourseMedia(ctx, "c1", " ", "u2", model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-public"}, ids(files))
	assert.Equal(t, model.CourseMediaQuery{CourseID: "c1", ViewerID: "u2"}, repo.lastCourseQ)

	files, err = s.CourseMedia(ctx, "c1", "", "u1", model.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-public", "b-private", "c-uploading"}, ids(files))

	files, err = s.CourseMedia(ctx, "c1", "", "boss", model.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, files, 4)
	assert.True(t, repo.lastCourseQ.All)
}

func TestMediaSearchLimits(t *testing.T) {
	s, repo, _, _, _ := newTestMedia(1)

	_, err := s.Search(ctx, model.MediaSearch{Query: "gita"})
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchLimit, repo.lastQ.Limit)

	_, err = s.Search(ctx, model.MediaSearch{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxSearchLimit, repo.lastQ.Limit)
}

func TestMediaGetAndDelete_Visibility(t *testing.T) {
	s, repo, store, _, _ := newTestMedia(1 << 20)
	repo.byID["pub"] = &model.MediaFile{ID: "pub", StorageKey: "u1/1.mp4", IsPublic: true, Status: model.MediaStatusReady, UploadedBy: "u1"}
	repo.byID["priv"] = &model.MediaFile{ID: "priv", StorageKey: "u1/2.mp4", IsPublic: false, Status: model.MediaStatusReady, UploadedBy: "u1"}
	repo.byID["wip"] = &model.MediaFile{ID: "wip", StorageKey: "u1/3.mp4", IsPublic: true, Status: model.MediaStatusProcessing, UploadedBy: "u1"}

	got, err := s.Get(ctx, "pub", "u2", model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/get/u1/1.mp4", got.DownloadURL)

	_, err = s.Get(ctx, "priv", "u2", model.RoleStudent)
	assert.ErrorIs(t, err, ErrMediaNotFound)
	_, err = s.Get(ctx, "wip", "u2", model.RoleStudent)
	assert.ErrorIs(t, err, ErrMediaNotFound)
	_, err = s.Get(ctx, "priv", "u1", model.RoleTeacher)
	assert.NoError(t, err)
	_, err = s.Get(ctx, "priv", "boss", model.RoleAdmin)
	assert.NoError(t, err)

	assert.ErrorIs(t, s.Delete(ctx, "pub", "u2", model.RoleTeacher), ErrForbidden)
	require.NoError(t, s.Delete(ctx, "pub", "u1", model.RoleTeacher))
	assert.Equal(t, []string{"u1/1.mp4"}, store.deleted)
	assert.NotContains(t, repo.byID, "pub")
}

func TestMediaUpdateProgress(t *testing.T) {
	s, repo, _, _, _ := newTestMedia(1)
	repo.byID["m1"] = &model.MediaFile{ID: "m1"}

	p, err := s.UpdateProgress(ctx, &model.MediaProgress{UserID: "u1", MediaFileID: "m1", ProgressSeconds: -5, Completed: true})
	require.NoError(t, err)
	assert.Equal(t, 0, p.ProgressSeconds)
	assert.Equal(t, fixedTS, p.LastWatchedAt)

	_, err = s.UpdateProgress(ctx, &model.MediaProgress{UserID: "u1", MediaFileID: "nope"})
	assert.ErrorIs(t, err, ErrMediaNotFound)
}
