package dto

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   *string `json:"description,omitempty"`
	Category      string  `json:"category" validate:"required,max=100"`
	Price         float64 `json:"price" validate:"gte=0"`
	DurationWeeks *int    `json:"duration_weeks,omitempty" validate:"omitempty,gte=1"`
	Level         *string `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	ImageURL      *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// CourseUpdateDTO is used for incoming course update requests
type CourseUpdateDTO struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string  `json:"description,omitempty"`
	Category      *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	DurationWeeks *int     `json:"duration_weeks,omitempty" validate:"omitempty,gte=1"`
	Level         *string  `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	ImageURL      *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// ModuleCreateDTO adds a learning module to a course
type ModuleCreateDTO struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Content         string  `json:"content"`
	OrderIndex      int     `json:"order_index" validate:"gte=0"`
	VideoURL        *string `json:"video_url,omitempty" validate:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,gte=1"`
}

// ModuleCompleteDTO marks a module done for the calling student
type ModuleCompleteDTO struct {
	Score            *int `json:"score,omitempty" validate:"omitempty,gte=0,lte=100"`
	TimeSpentMinutes int  `json:"time_spent_minutes" validate:"gte=0"`
}
