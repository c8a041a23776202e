package dto

import "time"

type PostCreateDTO struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required,max=10000"`
	Category string `json:"category" validate:"required,max=100"`
}

type ReplyCreateDTO struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type EventCreateDTO struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Location        *string   `json:"location,omitempty"`
	IsVirtual       bool      `json:"is_virtual"`
	MaxParticipants *int      `json:"max_participants,omitempty" validate:"omitempty,gt=0"`
	Category        string    `json:"category" validate:"required,max=100"`
}
