package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gurukul/internal/api/v1/dto"
	"gurukul/internal/middleware"
	"gurukul/internal/model"
	"gurukul/internal/service"
)

// EnrollmentHandler handles enrolling and module completion for students
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
	moduleService     service.ModuleService
	validate          *validator.Validate
}

func NewEnrollmentHandler(enrollmentService service.EnrollmentService, moduleService service.ModuleService, v *validator.Validate) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService, moduleService: moduleService, validate: v}
}

func (h *EnrollmentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	student := func(f http.HandlerFunc) http.Handler {
		return authMw(middleware.RequireRole(model.RoleStudent)(f))
	}
	// role is checked by the service so non-students get its message
	mux.Handle("POST /courses/{courseId}/enroll", authMw(http.HandlerFunc(h.enroll)))
	mux.Handle("DELETE /courses/{courseId}/enroll", student(h.unenroll))
	mux.Handle("GET /enrollments/me", student(h.myCourses))
	mux.Handle("POST /modules/{moduleId}/complete", student(h.completeModule))
}

// enroll godoc
// @Summary Enroll in a course
// @Tags enrollments
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 201 {object} model.Enrollment
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 403 {string} string "only students can enroll"
// @Failure 404 {string} string "course not found"
// @Failure 409 {string} string "already enrolled in this course"
// @Failure 500 {string} string "Failed to enroll"
// @Router /courses/{courseId}/enroll [post]
func (h *EnrollmentHandler) enroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	enrollment, err := h.enrollmentService.Enroll(r.Context(), userID, role, courseID)
	if err != nil {
		writeServiceError(w, err, "enroll")
		return
	}
	writeJSON(w, http.StatusCreated, enrollment)
}

// unenroll godoc
// @Summary Leave a course
// @Tags enrollments
// @Param courseId path string true "Course ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "not enrolled in this course"
// @Failure 500 {string} string "Failed to unenroll"
// @Router /courses/{courseId}/enroll [delete]
func (h *EnrollmentHandler) unenroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.enrollmentService.Unenroll(r.Context(), userID, courseID); err != nil {
		writeServiceError(w, err, "unenroll")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// myCourses godoc
// @Summary List my enrollments
// @Description Enrolled courses, newest enrollment first, with progress.
// @Tags enrollments
// @Produce json
// @Success 200 {array} model.Enrollment
// @Failure 500 {string} string "Failed to list enrollments"
// @Router /enrollments/me [get]
func (h *EnrollmentHandler) myCourses(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	enrollments, err := h.enrollmentService.MyCourses(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "list enrollments")
		return
	}
	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	writeJSON(w, http.StatusOK, enrollments)
}

// completeModule godoc
// @Summary Complete a module
// @Description Records the module as done and returns the recomputed enrollment.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param moduleId path string true "Module ID"
// @Param progress body dto.ModuleCompleteDTO true "Score and time spent"
// @Success 200 {object} model.Enrollment
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "module not found"
// @Failure 500 {string} string "Failed to complete module"
// @Router /modules/{moduleId}/complete [post]
func (h *EnrollmentHandler) completeModule(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := pathUUID(w, r, "moduleId")
	if !ok {
		return
	}
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.ModuleCompleteDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	enrollment, err := h.moduleService.CompleteModule(r.Context(), userID, moduleID, req.Score, req.TimeSpentMinutes)
	if err != nil {
		writeServiceError(w, err, "complete module")
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}
