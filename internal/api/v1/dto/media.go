package dto

import "gurukul/internal/model"

type MediaUploadDTO struct {
	Filename        string  `json:"filename" validate:"required,max=255"`
	ContentType     string  `json:"content_type" validate:"required,max=255"`
	Size            int64   `json:"size" validate:"required,gt=0"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	CourseID        *string `json:"course_id,omitempty" validate:"omitempty,uuid"`
	Category        string  `json:"category,omitempty" validate:"omitempty,max=100"`
	IsPublic        *bool   `json:"is_public,omitempty"`
	DownloadAllowed *bool   `json:"download_allowed,omitempty"`
}

// MediaUploadResponseDTO tells the client where to PUT the file
type MediaUploadResponseDTO struct {
	Media     *model.MediaFile `json:"media"`
	UploadURL string           `json:"upload_url"`
	Method    string           `json:"method"`
}

type MediaProgressDTO struct {
	ProgressSeconds int  `json:"progress_seconds" validate:"gte=0"`
	Completed       bool `json:"completed"`
}
