package dto

import (
	"time"

	"gurukul/internal/model"
)

// UserResponseDTO is returned in API responses
type UserResponseDTO struct {
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	Grade          *string   `json:"grade,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewUserResponse(u *model.User) UserResponseDTO {
	return UserResponseDTO{
		UserID:         u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Role:           u.Role,
		AvatarURL:      u.AvatarURL,
		Grade:          u.Grade,
		Specialization: u.Specialization,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// ProfileUpdateDTO is used for PUT /users/me; omitted fields are unchanged
type ProfileUpdateDTO struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	AvatarURL      *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Grade          *string `json:"grade,omitempty" validate:"omitempty,max=20"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=200"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}
