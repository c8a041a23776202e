package handler

import (
	"net/http"

	"gurukul/internal/middleware"
	"gurukul/internal/model"
	"gurukul/internal/service"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /dashboard/student", authMw(middleware.RequireRole(model.RoleStudent)(http.HandlerFunc(h.student))))
	mux.Handle("GET /dashboard/teacher", authMw(middleware.RequireRole(model.RoleTeacher)(http.HandlerFunc(h.teacher))))
	mux.Handle("GET /dashboard/parent", authMw(middleware.RequireRole(model.RoleParent)(http.HandlerFunc(h.parent))))
}

// student godoc
// @Summary Student dashboard
// @Description Enrollment statistics and dharma points for the signed-in student.
// @Tags dashboard
// @Produce json
// @Success 200 {object} model.StudentDashboard
// @Failure 403 {string} string "Forbidden: requires role student"
// @Failure 500 {string} string "Failed to load dashboard"
// @Router /dashboard/student [get]
func (h *DashboardHandler) student(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.dashboardService.Student(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// teacher godoc
// @Summary Acharya dashboard
// @Description The teacher's active courses and total students.
// @Tags dashboard
// @Produce json
// @Success 200 {object} model.TeacherDashboard
// @Failure 403 {string} string "Forbidden: requires role teacher"
// @Failure 500 {string} string "Failed to load dashboard"
// @Router /dashboard/teacher [get]
func (h *DashboardHandler) teacher(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.dashboardService.Teacher(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// parent godoc
// @Summary Parent dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} model.ParentDashboard
// @Failure 403 {string} string "Forbidden: requires role parent"
// @Failure 500 {string} string "Failed to load dashboard"
// @Router /dashboard/parent [get]
func (h *DashboardHandler) parent(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	d, err := h.dashboardService.Parent(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
