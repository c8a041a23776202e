package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gurukul/internal/api/v1/dto"
	"gurukul/internal/middleware"
	"gurukul/internal/model"
	"gurukul/internal/service"
)

// MediaHandler serves the content library and the upload flow
type MediaHandler struct {
	mediaService service.MediaService
	validate     *validator.Validate
}

func NewMediaHandler(mediaService service.MediaService, v *validator.Validate) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, validate: v}
}

func (h *MediaHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	auth := func(f http.HandlerFunc) http.Handler { return authMw(f) }
	mux.Handle("POST /media/uploads", authMw(middleware.RequireRole(model.RoleTeacher)(http.HandlerFunc(h.initiateUpload))))
	mux.Handle("POST /media/{mediaId}/complete", auth(h.completeUpload))
	mux.Handle("GET /media/search", auth(h.search))
	mux.Handle("GET /media/{mediaId}", auth(h.getMedia))
	mux.Handle("DELETE /media/{mediaId}", auth(h.deleteMedia))
	mux.Handle("PUT /media/{mediaId}/progress", auth(h.updateProgress))
	mux.Handle("GET /courses/{courseId}/media", auth(h.courseMedia))
}

// initiateUpload godoc
// @Summary Start a media upload
// @Description Creates the media record and returns a presigned URL to PUT the file to.
// @Tags media
// @Accept json
// @Produce json
// @Param upload body dto.MediaUploadDTO true "File metadata"
// @Success 201 {object} dto.MediaUploadResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "course not found"
// @Failure 413 {string} string "file exceeds the upload limit"
// @Failure 500 {string} string "Failed to initiate upload"
// @Router /media/uploads [post]
func (h *MediaHandler) initiateUpload(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.MediaUploadDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	downloadAllowed := false
	if req.DownloadAllowed != nil {
		downloadAllowed = *req.DownloadAllowed
	}
	media, uploadURL, err := h.mediaService.InitiateUpload(r.Context(), service.UploadRequest{
		UserID:          userID,
		UserRole:        role,
		Filename:        req.Filename,
		ContentType:     req.ContentType,
		Size:            req.Size,
		Description:     req.Description,
		CourseID:        req.CourseID,
		Category:        req.Category,
		IsPublic:        isPublic,
		DownloadAllowed: downloadAllowed,
	})
	if err != nil {
		writeServiceError(w, err, "initiate upload")
		return
	}
	writeJSON(w, http.StatusCreated, dto.MediaUploadResponseDTO{
		Media:     media,
		UploadURL: uploadURL,
		Method:    http.MethodPut,
	})
}

// completeUpload godoc
// @Summary Finish a media upload
// @Description Confirms the object is in the bucket and queues it for processing.
// @Tags media
// @Produce json
// @Param mediaId path string true "Media ID"
// @Success 202 {object} model.MediaFile
// @Failure 400 {string} string "uploaded file not found in storage"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "media not found"
// @Failure 409 {string} string "media is not awaiting upload"
// @Failure 500 {string} string "Failed to complete upload"
// @Router /media/{mediaId}/complete [post]
func (h *MediaHandler) completeUpload(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := pathUUID(w, r, "mediaId")
	if !ok {
		return
	}
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	media, err := h.mediaService.CompleteUpload(r.Context(), mediaID, userID)
	if err != nil {
		writeServiceError(w, err, "complete upload")
		return
	}
	writeJSON(w, http.StatusAccepted, media)
}

// search godoc
// @Summary Search the content library
// @Description Public, ready media whose title or description contains q, or tagged with q.
// @Tags media
// @Produce json
// @Param q query string false "Search text"
// @Param file_type query string false "video, audio, image, book or document"
// @Param category query string false "Category"
// @Param limit query int false "Max results, up to 50"
// @Success 200 {array} model.MediaFile
// @Failure 400 {string} string "invalid limit parameter"
// @Failure 500 {string} string "Failed to search media"
// @Router /media/search [get]
func (h *MediaHandler) search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", service.DefaultSearchLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := r.URL.Query()
	results, err := h.mediaService.Search(r.Context(), model.MediaSearch{
		Query:    q.Get("q"),
		FileType: q.Get("file_type"),
		Category: q.Get("category"),
		Limit:    limit,
	})
	if err != nil {
		writeServiceError(w, err, "search media")
		return
	}
	if results == nil {
		results = []model.MediaFile{}
	}
	writeJSON(w, http.StatusOK, results)
}

// getMedia godoc
// @Summary Get a media file
// @Description Returns the record with a short-lived download URL.
// @Tags media
// @Produce json
// @Param mediaId path string true "Media ID"
// @Success 200 {object} service.MediaWithURL
// @Failure 404 {string} string "media not found"
// @Failure 500 {string} string "Failed to retrieve media"
// @Router /media/{mediaId} [get]
func (h *MediaHandler) getMedia(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := pathUUID(w, r, "mediaId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	media, err := h.mediaService.Get(r.Context(), mediaID, userID, role)
	if err != nil {
		writeServiceError(w, err, "retrieve media")
		return
	}
	writeJSON(w, http.StatusOK, media)
}

// deleteMedia godoc
// @Summary Delete a media file
// @Tags media
// @Param mediaId path string true "Media ID"
// @Success 204 "No Content"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "media not found"
// @Failure 500 {string} string "Failed to delete media"
// @Router /media/{mediaId} [delete]
func (h *MediaHandler) deleteMedia(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := pathUUID(w, r, "mediaId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.mediaService.Delete(r.Context(), mediaID, userID, role); err != nil {
		writeServiceError(w, err, "delete media")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateProgress godoc
// @Summary Save playback progress
// @Tags media
// @Accept json
// @Produce json
// @Param mediaId path string true "Media ID"
// @Param progress body dto.MediaProgressDTO true "Position in seconds"
// @Success 200 {object} model.MediaProgress
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "media not found"
// @Failure 500 {string} string "Failed to save progress"
// @Router /media/{mediaId}/progress [put]
func (h *MediaHandler) updateProgress(w http.ResponseWriter, r *http.Request) {
	mediaID, ok := pathUUID(w, r, "mediaId")
	if !ok {
		return
	}
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.MediaProgressDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	progress, err := h.mediaService.UpdateProgress(r.Context(), &model.MediaProgress{
		UserID:          userID,
		MediaFileID:     mediaID,
		ProgressSeconds: req.ProgressSeconds,
		Completed:       req.Completed,
	})
	if err != nil {
		writeServiceError(w, err, "save progress")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// courseMedia godoc
// @Summary List a course's media
// @Tags media
// @Produce json
// @Param courseId path string true "Course ID"
// @Param category query string false "Category"
// @Success 200 {array} model.MediaFile
// @Failure 500 {string} string "Failed to list course media"
// @Router /courses/{courseId}/media [get]
func (h *MediaHandler) courseMedia(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	files, err := h.mediaService.CourseMedia(r.Context(), courseID, r.URL.Query().Get("category"), userID, role)
	if err != nil {
		writeServiceError(w, err, "list course media")
		return
	}
	if files == nil {
		files = []model.MediaFile{}
	}
	writeJSON(w, http.StatusOK, files)
}
