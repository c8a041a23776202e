package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"gurukul/internal/model"
)

// MediaRepository stores media library metadata; the objects themselves live in the bucket
type MediaRepository interface {
	CreateMedia(ctx context.Context, m *model.MediaFile) error
	GetMediaByID(ctx context.Context, id string) (*model.MediaFile, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// MarkReady records the stored object's real size and content type
	MarkReady(ctx context.Context, id string, size int64, contentType string) error
	GetMediaByCourse(ctx context.Context, q model.CourseMediaQuery) ([]model.MediaFile, error)
	SearchMedia(ctx context.Context, s model.MediaSearch) ([]model.MediaFile, error)
	DeleteMedia(ctx context.Context, id string) error
	UpsertProgress(ctx context.Context, p *model.MediaProgress) error
}

type mediaRepo struct {
	db *sql.DB
}

func NewMediaRepo(db *sql.DB) MediaRepository {
	return &mediaRepo{db: db}
}

var mediaSelect = []string{
	"m.id", "m.title", "m.description", "m.storage_key", "m.file_url", "m.file_type", "m.content_type",
	"m.file_size", "m.duration", "m.thumbnail_url", "m.category", "array_to_json(m.tags)", "m.is_public",
	"m.download_allowed", "m.status", "m.uploaded_by", "m.course_id", "m.created_at", "m.updated_at",
}

func scanMedia(row interface{ Scan(...any) error }, m *model.MediaFile) error {
	var tags []byte
	if err := row.Scan(&m.ID, &m.Title, &m.Description, &m.StorageKey, &m.FileURL, &m.FileType, &m.ContentType,
		&m.FileSize, &m.Duration, &m.ThumbnailURL, &m.Category, &tags, &m.IsPublic,
		&m.DownloadAllowed, &m.Status, &m.UploadedBy, &m.CourseID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}
	m.Tags = []string{}
	if len(tags) == 0 {
		return nil
	}
	return json.Unmarshal(tags, &m.Tags)
}

func (r *mediaRepo) CreateMedia(ctx context.Context, m *model.MediaFile) error {
	tags, err := json.Marshal(m.Tags)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO media_files (title, description, storage_key, file_url, file_type, content_type, file_size,
		                         category, tags, is_public, download_allowed, status, uploaded_by, course_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, ARRAY(SELECT jsonb_array_elements_text($9::jsonb)), $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query, m.Title, m.Description, m.StorageKey, m.FileURL, m.FileType,
		m.ContentType, m.FileSize, m.Category, string(tags), m.IsPublic, m.DownloadAllowed, m.Status,
		m.UploadedBy, m.CourseID).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *mediaRepo) GetMediaByID(ctx context.Context, id string) (*model.MediaFile, error) {
	query, args, err := psql.Select(mediaSelect...).From("media_files m").Where(sq.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var m model.MediaFile
	if err := scanMedia(r.db.QueryRowContext(ctx, query, args...), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE media_files SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

func (r *mediaRepo) MarkReady(ctx context.Context, id string, size int64, contentType string) error {
	query := `
		UPDATE media_files
		SET status = $1, file_size = $2, content_type = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, model.MediaStatusReady, size, contentType, id)
	return err
}

// GetMediaByCourse lists a course's media newest first, optionally limited to one category
func (r *mediaRepo) GetMediaByCourse(ctx context.Context, q model.CourseMediaQuery) ([]model.MediaFile, error) {
	where := sq.And{sq.Eq{"m.course_id": q.CourseID}}
	if q.Category != "" {
		where = append(where, sq.Eq{"m.category": q.Category})
	}
	if !q.All {
		where = append(where, sq.Or{
			sq.And{sq.Eq{"m.is_public": true}, sq.Eq{"m.status": model.MediaStatusReady}},
			sq.Eq{"m.uploaded_by": q.ViewerID},
		})
	}
	query, args, err := psql.Select(mediaSelect...).
		From("media_files m").
		Where(where).
		OrderBy("m.created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryMedia(ctx, query, args...)
}

// SearchMedia matches public, ready media by title or description substring or by exact tag
func (r *mediaRepo) SearchMedia(ctx context.Context, s model.MediaSearch) ([]model.MediaFile, error) {
	where := sq.And{sq.Eq{"m.is_public": true}, sq.Eq{"m.status": model.MediaStatusReady}}
	if q := strings.TrimSpace(s.Query); q != "" {
		pattern := containsPattern(q)
		where = append(where, sq.Or{
			sq.ILike{"m.title": pattern},
			sq.ILike{"m.description": pattern},
			sq.Expr("? = ANY(m.tags)", strings.ToLower(q)),
		})
	}
	if s.FileType != "" {
		where = append(where, sq.Eq{"m.file_type": s.FileType})
	}
	if s.Category != "" {
		where = append(where, sq.Eq{"m.category": s.Category})
	}
	query, args, err := psql.Select(mediaSelect...).
		From("media_files m").
		Where(where).
		OrderBy("m.created_at DESC").
		Limit(uint64(s.Limit)).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryMedia(ctx, query, args...)
}

func (r *mediaRepo) queryMedia(ctx context.Context, query string, args ...any) ([]model.MediaFile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []model.MediaFile{}
	for rows.Next() {
		var m model.MediaFile
		if err := scanMedia(rows, &m); err != nil {
			return nil, err
		}
		files = append(files, m)
	}
	return files, rows.Err()
}

func (r *mediaRepo) DeleteMedia(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	return err
}

func (r *mediaRepo) UpsertProgress(ctx context.Context, p *model.MediaProgress) error {
	query := `
		INSERT INTO user_media_progress (user_id, media_file_id, progress_seconds, completed, last_watched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, media_file_id) DO UPDATE
		SET progress_seconds = EXCLUDED.progress_seconds,
		    completed = user_media_progress.completed OR EXCLUDED.completed,
		    last_watched_at = NOW()
		RETURNING progress_seconds, completed, last_watched_at
	`
	return r.db.QueryRowContext(ctx, query, p.UserID, p.MediaFileID, p.ProgressSeconds, p.Completed).
		Scan(&p.ProgressSeconds, &p.Completed, &p.LastWatchedAt)
}
