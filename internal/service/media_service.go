package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"gurukul/internal/model"
	"gurukul/internal/pubsub"
	"gurukul/internal/repository"
	"gurukul/internal/storage"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 50
	defaultCategory    = "lecture"
)

// JobQueue accepts media processing jobs
type JobQueue interface {
	Send(ctx context.Context, payload []byte) (int64, error)
}

// UploadRequest describes a file the client is about to PUT to the bucket
type UploadRequest struct {
	UserID          string
	UserRole        string
	Filename        string
	ContentType     string
	Size            int64
	Description     *string
	CourseID        *string
	Category        string
	IsPublic        bool
	DownloadAllowed bool
}

// MediaWithURL pairs a record with a short-lived download link
type MediaWithURL struct {
	model.MediaFile
	DownloadURL string `json:"download_url"`
}

type MediaService interface {
	// InitiateUpload creates the record and returns a presigned PUT URL
	InitiateUpload(ctx context.Context, req UploadRequest) (*model.MediaFile, string, error)
	// CompleteUpload checks the object landed and queues it for processing
	CompleteUpload(ctx context.Context, mediaID, userID string) (*model.MediaFile, error)
	// CourseMedia hides other users' private or unfinished files unless the viewer is an admin
	CourseMedia(ctx context.Context, courseID, category, viewerID, viewerRole string) ([]model.MediaFile, error)
	Search(ctx context.Context, s model.MediaSearch) ([]model.MediaFile, error)
	Get(ctx context.Context, mediaID, viewerID, viewerRole string) (*MediaWithURL, error)
	Delete(ctx context.Context, mediaID, actorID, actorRole string) error
	UpdateProgress(ctx context.Context, p *model.MediaProgress) (*model.MediaProgress, error)
}

type mediaService struct {
	repo        repository.MediaRepository
	courses     repository.CourseRepository
	store       storage.ObjectStore
	queue       JobQueue
	emitter     *pubsub.Emitter
	maxBytes    int64
	now         func() time.Time
	mediaLogger zerolog.Logger
}

func NewMediaService(
	repo repository.MediaRepository,
	courses repository.CourseRepository,
	store storage.ObjectStore,
	queue JobQueue,
	emitter *pubsub.Emitter,
	maxBytes int64,
	logger zerolog.Logger,
) MediaService {
	return &mediaService{
		repo:        repo,
		courses:     courses,
		store:       store,
		queue:       queue,
		emitter:     emitter,
		maxBytes:    maxBytes,
		now:         time.Now,
		mediaLogger: logger.With().Str("service", "MediaService").Logger(),
	}
}

// DetectFileType maps a MIME type onto the library's file types
func DetectFileType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "video/"):
		return model.FileTypeVideo
	case strings.HasPrefix(ct, "audio/"):
		return model.FileTypeAudio
	case strings.HasPrefix(ct, "image/"):
		return model.FileTypeImage
	case strings.Contains(ct, "pdf"), strings.Contains(ct, "epub"), strings.Contains(ct, "mobi"):
		return model.FileTypeBook
	default:
		return model.FileTypeDocument
	}
}

// ExtractTags lowercases the base file name, splits it on dashes, underscores
// and whitespace, and keeps the distinct words longer than two characters.
func ExtractTags(filename string) []string {
	base := strings.ToLower(strings.TrimSuffix(filename, filepath.Ext(filename)))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	tags := []string{}
	seen := map[string]bool{}
	for _, w := range words {
		if len([]rune(w)) > 2 && !seen[w] {
			seen[w] = true
			tags = append(tags, w)
		}
	}
	return tags
}

// ObjectKey is "<userID>/<unixMillis>.<ext>"
func ObjectKey(userID, filename string, at time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%d.%s", userID, at.UnixMilli(), ext)
}

func (s *mediaService) InitiateUpload(ctx context.Context, req UploadRequest) (*model.MediaFile, string, error) {
	if req.Size > s.maxBytes {
		return nil, "", ErrFileTooLarge
	}
	if req.CourseID != nil {
		c, err := s.courses.GetCourseByID(ctx, *req.CourseID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load course: %w", err)
		}
		if c == nil || !c.IsActive {
			return nil, "", ErrCourseNotFound
		}
		if req.UserRole != model.RoleAdmin && c.TeacherID != req.UserID {
			return nil, "", ErrForbidden
		}
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = defaultCategory
	}
	title := strings.TrimSuffix(filepath.Base(req.Filename), filepath.Ext(req.Filename))
	if title == "" {
		title = req.Filename
	}
	key := ObjectKey(req.UserID, req.Filename, s.now())

	m := &model.MediaFile{
		Title:           title,
		Description:     req.Description,
		StorageKey:      key,
		FileURL:         s.store.PublicURL(key),
		FileType:        DetectFileType(req.ContentType),
		ContentType:     req.ContentType,
		FileSize:        req.Size,
		Category:        category,
		Tags:            ExtractTags(req.Filename),
		IsPublic:        req.IsPublic,
		DownloadAllowed: req.DownloadAllowed,
		Status:          model.MediaStatusUploading,
		UploadedBy:      req.UserID,
		CourseID:        req.CourseID,
	}

	uploadURL, err := s.store.PresignPut(ctx, key, req.ContentType)
	if err != nil {
		s.mediaLogger.Error().Err(err).Str("key", key).Msg("Failed to generate presigned PUT URL")
		return nil, "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	if err := s.repo.CreateMedia(ctx, m); err != nil {
		s.mediaLogger.Error().Err(err).Str("key", key).Msg("Failed to create media record")
		return nil, "", fmt.Errorf("failed to create media record: %w", err)
	}
	return m, uploadURL, nil
}

func (s *mediaService) CompleteUpload(ctx context.Context, mediaID, userID string) (*model.MediaFile, error) {
	m, err := s.repo.GetMediaByID(ctx, mediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}
	if m == nil {
		return nil, ErrMediaNotFound
	}
	if m.UploadedBy != userID {
		return nil, ErrForbidden
	}
	if m.Status != model.MediaStatusUploading {
		return nil, ErrInvalidUpload
	}

	if _, err := s.store.Head(ctx, m.StorageKey); err != nil {
		s.mediaLogger.Error().Err(err).Str("key", m.StorageKey).Msg("File not found in storage at expected key")
		if uerr := s.repo.UpdateStatus(ctx, m.ID, model.MediaStatusFailed); uerr != nil {
			s.mediaLogger.Error().Err(uerr).Str("media_id", m.ID).Msg("Failed to mark media as failed")
		}
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrUploadIncomplete
		}
		return nil, fmt.Errorf("failed to check storage: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, model.MediaStatusProcessing); err != nil {
		return nil, fmt.Errorf("failed to update media status: %w", err)
	}
	m.Status = model.MediaStatusProcessing

	payload, err := json.Marshal(model.MediaJob{MediaID: m.ID, StorageKey: m.StorageKey})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal media job: %w", err)
	}
	if _, err := s.queue.Send(ctx, payload); err != nil {
		s.mediaLogger.Error().Err(err).Str("media_id", m.ID).Msg("Failed to enqueue media job")
		return nil, fmt.Errorf("failed to enqueue media job: %w", err)
	}

	s.emitter.Emit(ctx, EventMediaUploaded, map[string]string{
		"media_id":  m.ID,
		"file_type": m.FileType,
		"user_id":   userID,
	})
	return m, nil
}

func (s *mediaService) CourseMedia(ctx context.Context, courseID, category, viewerID, viewerRole string) ([]model.MediaFile, error) {
	return s.repo.GetMediaByCourse(ctx, model.CourseMediaQuery{
		CourseID: courseID,
		Category: strings.TrimSpace(category),
		ViewerID: viewerID,
		All:      viewerRole == model.RoleAdmin,
	})
}

func (s *mediaService) Search(ctx context.Context, q model.MediaSearch) ([]model.MediaFile, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultSearchLimit
	}
	if q.Limit > MaxSearchLimit {
		q.Limit = MaxSearchLimit
	}
	return s.repo.SearchMedia(ctx, q)
}

func (s *mediaService) Get(ctx context.Context, mediaID, viewerID, viewerRole string) (*MediaWithURL, error) {
	m, err := s.repo.GetMediaByID(ctx, mediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}
	owner := m != nil && (m.UploadedBy == viewerID || viewerRole == model.RoleAdmin)
	if m == nil || (!m.IsPublic && !owner) || (m.Status != model.MediaStatusReady && !owner) {
		return nil, ErrMediaNotFound
	}

	url, err := s.store.PresignGet(ctx, m.StorageKey)
	if err != nil {
		s.mediaLogger.Error().Err(err).Str("key", m.StorageKey).Msg("Failed to generate presigned GET URL")
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return &MediaWithURL{MediaFile: *m, DownloadURL: url}, nil
}

func (s *mediaService) Delete(ctx context.Context, mediaID, actorID, actorRole string) error {
	m, err := s.repo.GetMediaByID(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("failed to load media: %w", err)
	}
	if m == nil {
		return ErrMediaNotFound
	}
	if m.UploadedBy != actorID && actorRole != model.RoleAdmin {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, m.StorageKey); err != nil {
		s.mediaLogger.Error().Err(err).Str("key", m.StorageKey).Msg("Failed to delete object")
		return fmt.Errorf("failed to delete object: %w", err)
	}
	if err := s.repo.DeleteMedia(ctx, mediaID); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}
	return nil
}

func (s *mediaService) UpdateProgress(ctx context.Context, p *model.MediaProgress) (*model.MediaProgress, error) {
	if p.ProgressSeconds < 0 {
		p.ProgressSeconds = 0
	}
	m, err := s.repo.GetMediaByID(ctx, p.MediaFileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load media: %w", err)
	}
	if m == nil {
		return nil, ErrMediaNotFound
	}
	if err := s.repo.UpsertProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return p, nil
}
