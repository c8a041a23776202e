package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gurukul/internal/api/v1/dto"
	"gurukul/internal/service"
)

// AuthHandler handles sign-up and login
type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{authService: authService, validate: v}
}

// RegisterRoutes mounts auth routes; none of them need a token
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
}

// register godoc
// @Summary Register a new account
// @Description Creates a student, teacher or parent account.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterRequestDTO true "Registration request"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 409 {string} string "email already registered"
// @Failure 500 {string} string "Failed to register user"
// @Router /auth/register [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		Grade:          req.Grade,
		Specialization: req.Specialization,
		Bio:            req.Bio,
	})
	if err != nil {
		writeServiceError(w, err, "register user")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewUserResponse(user))
}

// login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequestDTO true "Login request"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "invalid email or password"
// @Failure 500 {string} string "Failed to log in"
// @Router /auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequestDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "log in")
		return
	}
	writeJSON(w, http.StatusOK, dto.AuthResponseDTO{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		UserID:    res.User.ID,
		Email:     res.User.Email,
		Role:      res.User.Role,
		FirstName: res.User.FirstName,
		LastName:  res.User.LastName,
	})
}
