package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"gurukul/internal/middleware"
	"gurukul/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeAndValidate writes the 400 itself and reports whether the handler may continue
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := v.Struct(dst); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return "", "", false
	}
	return userID, middleware.Role(r.Context()), true
}

// notFoundByParam is the answer for a path id that cannot name a row
var notFoundByParam = map[string]error{
	"courseId":     service.ErrCourseNotFound,
	"moduleId":     service.ErrModuleNotFound,
	"assessmentId": service.ErrAssessmentNotFound,
	"mediaId":      service.ErrMediaNotFound,
	"postId":       service.ErrPostNotFound,
	"eventId":      service.ErrEventNotFound,
}

// pathUUID reads a UUID path value in canonical form. A malformed id is a 404
// written here, before any query runs.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		msg := "not found"
		if e, ok := notFoundByParam[name]; ok {
			msg = e.Error()
		}
		http.Error(w, msg, http.StatusNotFound)
		return "", false
	}
	return id.String(), true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key + " parameter")
	}
	return n, nil
}

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrCourseNotFound, http.StatusNotFound},
	{service.ErrModuleNotFound, http.StatusNotFound},
	{service.ErrAssessmentNotFound, http.StatusNotFound},
	{service.ErrMediaNotFound, http.StatusNotFound},
	{service.ErrPostNotFound, http.StatusNotFound},
	{service.ErrEventNotFound, http.StatusNotFound},
	{service.ErrNotEnrolled, http.StatusNotFound},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrStudentsOnly, http.StatusForbidden},
	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrAlreadyEnrolled, http.StatusConflict},
	{service.ErrAlreadyJoined, http.StatusConflict},
	{service.ErrEventFull, http.StatusConflict},
	{service.ErrInvalidUpload, http.StatusConflict},
	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrWeakPassword, http.StatusBadRequest},
	{service.ErrPasswordTooLong, http.StatusBadRequest},
	{service.ErrInvalidQuiz, http.StatusBadRequest},
	{service.ErrInvalidEventRange, http.StatusBadRequest},
	{service.ErrUploadIncomplete, http.StatusBadRequest},
	{service.ErrEventEnded, http.StatusBadRequest},
	{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
}

// writeServiceError maps service sentinels onto statuses; anything else is a
// 500 prefixed with "Failed to <action>: ".
func writeServiceError(w http.ResponseWriter, err error, action string) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			http.Error(w, err.Error(), e.status)
			return
		}
	}
	http.Error(w, "Failed to "+action+": "+err.Error(), http.StatusInternalServerError)
}
