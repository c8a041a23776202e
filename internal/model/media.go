package model

import "time"

// Media file types derived from the uploaded MIME type.
const (
	FileTypeVideo    = "video"
	FileTypeAudio    = "audio"
	FileTypeImage    = "image"
	FileTypeBook     = "book"
	FileTypeDocument = "document"
)

// Media processing states.
const (
	MediaStatusUploading  = "uploading"
	MediaStatusProcessing = "processing"
	MediaStatusReady      = "ready"
	MediaStatusFailed     = "failed"
)

// MediaFile is an object in the media bucket plus its catalog metadata
type MediaFile struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     *string   `db:"description" json:"description,omitempty"`
	StorageKey      string    `db:"storage_key" json:"storage_key"`
	FileURL         string    `db:"file_url" json:"file_url"`
	FileType        string    `db:"file_type" json:"file_type"`
	ContentType     string    `db:"content_type" json:"content_type"`
	FileSize        int64     `db:"file_size" json:"file_size"`
	Duration        *int      `db:"duration" json:"duration,omitempty"`
	ThumbnailURL    *string   `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	Category        string    `db:"category" json:"category"`
	Tags            []string  `db:"tags" json:"tags"`
	IsPublic        bool      `db:"is_public" json:"is_public"`
	DownloadAllowed bool      `db:"download_allowed" json:"download_allowed"`
	Status          string    `db:"status" json:"status"`
	UploadedBy      string    `db:"uploaded_by" json:"uploaded_by"`
	CourseID        *string   `db:"course_id" json:"course_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// MediaSearch narrows a library search
type MediaSearch struct {
	Query    string
	FileType string
	Category string
	Limit    int
}

// CourseMediaQuery lists one course's media as seen by a viewer. Unless All
// is set, only public ready files and the viewer's own uploads are returned.
type CourseMediaQuery struct {
	CourseID string
	Category string
	ViewerID string
	All      bool
}

// MediaProgress tracks playback position for one user
type MediaProgress struct {
	UserID          string    `db:"user_id" json:"user_id"`
	MediaFileID     string    `db:"media_file_id" json:"media_file_id"`
	ProgressSeconds int       `db:"progress_seconds" json:"progress_seconds"`
	Completed       bool      `db:"completed" json:"completed"`
	LastWatchedAt   time.Time `db:"last_watched_at" json:"last_watched_at"`
}

// MediaJob is the media queue payload
type MediaJob struct {
	MediaID    string `json:"media_id"`
	StorageKey string `json:"storage_key"`
}
