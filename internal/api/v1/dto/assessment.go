package dto

type QuestionDTO struct {
	ID            string   `json:"id"`
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"required,gte=0"`
	Explanation   string   `json:"explanation,omitempty"`
}

type AssessmentCreateDTO struct {
	Title            string        `json:"title" validate:"required,max=200"`
	Questions        []QuestionDTO `json:"questions" validate:"required,min=1,dive"`
	PassingScore     *int          `json:"passing_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	TimeLimitMinutes *int          `json:"time_limit_minutes,omitempty" validate:"omitempty,gte=1"`
}

// AssessmentSubmitDTO maps question id to the chosen option index
type AssessmentSubmitDTO struct {
	Answers          map[string]int `json:"answers" validate:"required"`
	TimeTakenMinutes *int           `json:"time_taken_minutes,omitempty" validate:"omitempty,gte=0"`
}
