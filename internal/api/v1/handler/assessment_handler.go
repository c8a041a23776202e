package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gurukul/internal/api/v1/dto"
	"gurukul/internal/middleware"
	"gurukul/internal/model"
	"gurukul/internal/service"
)

const defaultPassingScore = 60

type AssessmentHandler struct {
	assessmentService service.AssessmentService
	validate          *validator.Validate
}

func NewAssessmentHandler(assessmentService service.AssessmentService, v *validator.Validate) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService, validate: v}
}

func (h *AssessmentHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("GET /courses/{courseId}/assessments", authMw(http.HandlerFunc(h.listAssessments)))
	mux.Handle("POST /courses/{courseId}/assessments", authMw(middleware.RequireRole(model.RoleTeacher)(http.HandlerFunc(h.createAssessment))))
	mux.Handle("GET /assessments/{assessmentId}", authMw(http.HandlerFunc(h.getAssessment)))
	mux.Handle("POST /assessments/{assessmentId}/submit", authMw(middleware.RequireRole(model.RoleStudent)(http.HandlerFunc(h.submit))))
}

// createAssessment godoc
// @Summary Create an assessment
// @Description Adds a multiple-choice assessment to a course the caller owns.
// @Tags assessments
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param assessment body dto.AssessmentCreateDTO true "Assessment"
// @Success 201 {object} model.Assessment
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "course not found"
// @Failure 500 {string} string "Failed to create assessment"
// @Router /courses/{courseId}/assessments [post]
func (h *AssessmentHandler) createAssessment(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.AssessmentCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	questions := make([]model.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, model.Question{
			ID:            q.ID,
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	passing := defaultPassingScore
	if req.PassingScore != nil {
		passing = *req.PassingScore
	}
	created, err := h.assessmentService.Create(r.Context(), userID, role, &model.Assessment{
		CourseID:         courseID,
		Title:            req.Title,
		Questions:        questions,
		PassingScore:     passing,
		TimeLimitMinutes: req.TimeLimitMinutes,
	})
	if err != nil {
		writeServiceError(w, err, "create assessment")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listAssessments godoc
// @Summary List course assessments
// @Description Answer keys are only included for the course owner.
// @Tags assessments
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} model.Assessment
// @Failure 500 {string} string "Failed to list assessments"
// @Router /courses/{courseId}/assessments [get]
func (h *AssessmentHandler) listAssessments(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathUUID(w, r, "courseId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.assessmentService.ListForCourse(r.Context(), courseID, userID, role)
	if err != nil {
		writeServiceError(w, err, "list assessments")
		return
	}
	if list == nil {
		list = []model.Assessment{}
	}
	writeJSON(w, http.StatusOK, list)
}

// getAssessment godoc
// @Summary Get an assessment
// @Tags assessments
// @Produce json
// @Param assessmentId path string true "Assessment ID"
// @Success 200 {object} model.Assessment
// @Failure 404 {string} string "assessment not found"
// @Failure 500 {string} string "Failed to retrieve assessment"
// @Router /assessments/{assessmentId} [get]
func (h *AssessmentHandler) getAssessment(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := pathUUID(w, r, "assessmentId")
	if !ok {
		return
	}
	userID, role, ok := currentUser(w, r)
	if !ok {
		return
	}
	a, err := h.assessmentService.Get(r.Context(), assessmentID, userID, role)
	if err != nil {
		writeServiceError(w, err, "retrieve assessment")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// submit godoc
// @Summary Submit answers
// @Description Scores the attempt and stores it.
// @Tags assessments
// @Accept json
// @Produce json
// @Param assessmentId path string true "Assessment ID"
// @Param answers body dto.AssessmentSubmitDTO true "Answers keyed by question id"
// @Success 201 {object} model.AssessmentAttempt
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "not enrolled in this course"
// @Failure 500 {string} string "Failed to submit assessment"
// @Router /assessments/{assessmentId}/submit [post]
func (h *AssessmentHandler) submit(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := pathUUID(w, r, "assessmentId")
	if !ok {
		return
	}
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.AssessmentSubmitDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	attempt, err := h.assessmentService.Submit(r.Context(), userID, assessmentID, req.Answers, req.TimeTakenMinutes)
	if err != nil {
		writeServiceError(w, err, "submit assessment")
		return
	}
	writeJSON(w, http.StatusCreated, attempt)
}
