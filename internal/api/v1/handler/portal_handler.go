package handler

import (
	"net/http"

	"gurukul/internal/access"
	"gurukul/internal/middleware"
)

// PortalHandler answers route-gating questions for the front end
type PortalHandler struct {
	table *access.Table
}

func NewPortalHandler(table *access.Table) *PortalHandler {
	return &PortalHandler{table: table}
}

// RegisterRoutes mounts portal routes. optionalAuthMw attaches the identity when a token is sent.
func (h *PortalHandler) RegisterRoutes(mux *http.ServeMux, optionalAuthMw func(http.Handler) http.Handler) {
	mux.Handle("GET /portal/access", optionalAuthMw(http.HandlerFunc(h.resolve)))
	mux.HandleFunc("GET /portal/routes", h.routes)
}

// resolve godoc
// @Summary Resolve a portal path
// @Description Tells the client whether the caller may open path, or where to redirect.
// @Tags portal
// @Produce json
// @Param path query string true "Portal path, e.g. /student-dashboard"
// @Success 200 {object} access.Decision
// @Failure 400 {string} string "path query parameter is required"
// @Router /portal/access [get]
func (h *PortalHandler) resolve(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p == "" {
		http.Error(w, "path query parameter is required", http.StatusBadRequest)
		return
	}
	role := ""
	if _, ok := middleware.UserID(r.Context()); ok {
		role = middleware.Role(r.Context())
	}
	writeJSON(w, http.StatusOK, h.table.Resolve(p, role))
}

// routes godoc
// @Summary List portal routes
// @Tags portal
// @Produce json
// @Success 200 {array} access.Route
// @Router /portal/routes [get]
func (h *PortalHandler) routes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.table.Routes())
}
