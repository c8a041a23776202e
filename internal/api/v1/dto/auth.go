package dto

import "time"

// RegisterRequestDTO is the sign-up form
type RegisterRequestDTO struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8,max=72"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"max=100"`
	Role           string  `json:"role" validate:"required,oneof=student teacher parent"`
	Grade          *string `json:"grade,omitempty" validate:"omitempty,max=20"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=200"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponseDTO is returned on successful login
type AuthResponseDTO struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}
