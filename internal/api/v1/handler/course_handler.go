package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gurukul/internal/api/v1/dto"
	"gurukul/internal/middleware"
	"gurukul/internal/model"
	"gurukul/internal/service"
)

// CourseHandler handles the catalog, course authoring and learning modules
type CourseHandler struct {
	courseService service.CourseService
	moduleService service.ModuleService
	validate      *validator.Validate
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, moduleService service.ModuleService, validate *validator.Validate) *CourseHandler {
	return &CourseHandler{courseService: courseService, moduleService: moduleService, validate: validate}
}

// RegisterRoutes mounts course routes. Browsing is public, authoring needs a teacher token.
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	teacher := func(f http.HandlerFunc) http.Handler {
		return authMw(middleware.RequireRole(model.RoleTeacher)(f))
	}
	mux.HandleFunc("GET /courses", h.listCourses)
	mux.HandleFunc("GET /courses/{courseId}", h.getCourse)
	mux.HandleFunc("GET /courses/{courseId}/modules", h.listModules)
	mux.Handle("POST /courses", teacher(h.createCourse))
	mux.Handle("PUT /courses/{courseId}", teacher(h.updateCourse))
	mux.Handle("DELETE /courses/{courseId}", teacher(h.deleteCourse))
	mux.Handle("POST /courses/{courseId}/modules", teacher(h.addModule))
}

// listCourses godoc
// @Summary Browse the course catalog
// @Description Lists active courses with optional filters, paging and sorting.
// @Tags courses
// @Produce json
// @Param category query string false "Exact category"
// @Param level query string false "beginner, intermediate or advanced"
// @Param search query string false "Case-insensitive match on title or description"
// @Param page query int false "0-based page"
// @Param size query int false "Page size, max 100"
// @Param sort_by query string false "created_at, title or price"
// @Param sort_dir query string false "asc or desc"
// @Success 200 {object} model.CoursePage
// @Failure 400 {string} string "invalid page parameter"
// @Failure 500 {string} string "Failed to list courses"
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := queryInt(r, "page", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	size, err := queryInt(r, "size", service.DefaultPageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.courseService.List(r.Context(), model.CourseFilter{
		Category: q.Get("category"),
		Level:    q.Get("level"),
		Search:   q.Get("search"),
		Page:     page,
		Size:     size,
		SortBy:   q.Get("sort_by"),
		SortDir:  q.Get("sort_dir"),
	})
	if err != nil {
		writeServiceError(w, err, "list courses")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// getCourse godoc
// @Summary Get a course
// @Description Retrieves an active course by its ID.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} model.Course
// @Failure 404 {string} string "course not found"
// @Failure 500 {string} string "Failed to retrieve course"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	course, err := h.courseService.Get(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err, "retrieve course")
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// createCourse godoc
// @Summary Create a new course
// @Description Creates a course owned by the authenticated teacher.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateDTO true "Course creation request"
// @Success 201 {object} model.Course
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 403 {string} string "Forbidden: requires role teacher"
// @Failure 500 {string} string "Failed to create course"
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CourseCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	created, err := h.courseService.Create(r.Context(), userID, &model.Course{
		Title:         req.Title,
		Description:   description,
		Category:      req.Category,
		Price:         req.Price,
		DurationWeeks: req.DurationWeeks,
		Level:         req.Level,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, err, "create course")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updateCourse godoc
// @Summary Update a course
// @Description Updates a course the caller owns. Omitted fields keep their value.
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param course body dto.CourseUpdateDTO true "Course update request"
// @Success 200 {object} model.Course
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "course not found"
// @Failure 500 {string} string "Failed to update course"
// @Router /courses/{courseId} [put]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.CourseUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	course, err := h.courseService.Get(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err, "update course")
		return
	}
	updated := *course
	if req.Title != nil {
		updated.Title = *req.Title
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	if req.Price != nil {
		updated.Price = *req.Price
	}
	if req.DurationWeeks != nil {
		updated.DurationWeeks = req.DurationWeeks
	}
	if req.Level != nil {
		updated.Level = req.Level
	}
	if req.ImageURL != nil {
		updated.ImageURL = req.ImageURL
	}
	result, err := h.courseService.Update(r.Context(), userID, role, &updated)
	if err != nil {
		writeServiceError(w, err, "update course")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// deleteCourse godoc
// @Summary Delete a course
// @Description Removes a course from the catalog. Existing enrollments are kept.
// @Tags courses
// @Param courseId path string true "Course ID"
// @Success 204 "No Content"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "course not found"
// @Failure 500 {string} string "Failed to delete course"
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.courseService.Delete(r.Context(), userID, role, courseID); err != nil {
		writeServiceError(w, err, "delete course")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listModules godoc
// @Summary List course modules
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} model.LearningModule
// @Failure 500 {string} string "Failed to list modules"
// @Router /courses/{courseId}/modules [get]
func (h *CourseHandler) listModules(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	modules, err := h.moduleService.ListModules(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err, "list modules")
		return
	}
	if modules == nil {
		modules = []model.LearningModule{}
	}
	writeJSON(w, http.StatusOK, modules)
}

// addModule godoc
// @Summary Add a learning module
// @Tags courses
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param module body dto.ModuleCreateDTO true "Module"
// @Success 201 {object} model.LearningModule
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "course not found"
// @Failure 500 {string} string "Failed to add module"
// @Router /courses/{courseId}/modules [post]
func (h *CourseHandler) addModule(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.ModuleCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	created, err := h.moduleService.AddModule(r.Context(), userID, role, &model.LearningModule{
		CourseID:        courseID,
		Title:           req.Title,
		Content:         req.Content,
		OrderIndex:      req.OrderIndex,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeServiceError(w, err, "add module")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
