package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gurukul/internal/api/v1/dto"
	"gurukul/internal/service"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
}

func NewUserHandler(userService service.UserService, v *validator.Validate) *UserHandler {
	return &UserHandler{userService: userService, validate: v}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /users/me", authMw(http.HandlerFunc(h.getUser)))
	mux.Handle("PUT /users/me", authMw(http.HandlerFunc(h.updateProfile)))
}

// getUser godoc
// @Summary Get current user's profile
// @Description Retrieves the profile of the authenticated user.
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "user not found"
// @Failure 500 {string} string "Failed to retrieve user profile"
// @Router /users/me [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "retrieve user profile")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// updateProfile godoc
// @Summary Update current user's profile
// @Description Changes name, avatar, grade, specialization or bio. Omitted fields stay as they are.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body dto.ProfileUpdateDTO true "Profile changes"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to update profile"
// @Router /users/me [put]
func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.ProfileUpdateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	user, err := h.userService.UpdateProfile(r.Context(), userID, service.ProfileUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		AvatarURL:      req.AvatarURL,
		Grade:          req.Grade,
		Specialization: req.Specialization,
		Bio:            req.Bio,
	})
	if err != nil {
		writeServiceError(w, err, "update profile")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}
