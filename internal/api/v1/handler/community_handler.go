package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"gurukul/internal/api/v1/dto"
	"gurukul/internal/middleware"
	"gurukul/internal/model"
	"gurukul/internal/service"
)

const defaultForumPageSize = 20

// CommunityHandler serves the forum and events of the community hub
type CommunityHandler struct {
	forumService service.ForumService
	eventService service.EventService
	validate     *validator.Validate
}

func NewCommunityHandler(forumService service.ForumService, eventService service.EventService, v *validator.Validate) *CommunityHandler {
	return &CommunityHandler{forumService: forumService, eventService: eventService, validate: v}
}

func (h *CommunityHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /forum/posts", h.listPosts)
	mux.HandleFunc("GET /forum/posts/{postId}", h.getPost)
	mux.Handle("POST /forum/posts", authMw(http.HandlerFunc(h.createPost)))
	mux.Handle("POST /forum/posts/{postId}/replies", authMw(http.HandlerFunc(h.reply)))
	mux.Handle("POST /forum/posts/{postId}/like", authMw(http.HandlerFunc(h.like)))

	mux.HandleFunc("GET /events", h.listEvents)
	mux.Handle("POST /events", authMw(middleware.RequireRole(model.RoleTeacher)(http.HandlerFunc(h.createEvent))))
	mux.Handle("POST /events/{eventId}/join", authMw(http.HandlerFunc(h.joinEvent)))
}

// listPosts godoc
// @Summary List forum posts
// @Description Pinned posts first, then newest first.
// @Tags community
// @Produce json
// @Param category query string false "Category"
// @Param page query int false "0-based page"
// @Param size query int false "Page size, max 100"
// @Success 200 {array} model.ForumPost
// @Failure 400 {string} string "invalid page parameter"
// @Failure 500 {string} string "Failed to list posts"
// @Router /forum/posts [get]
func (h *CommunityHandler) listPosts(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	size, err := queryInt(r, "size", defaultForumPageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	posts, err := h.forumService.ListPosts(r.Context(), r.URL.Query().Get("category"), page, size)
	if err != nil {
		writeServiceError(w, err, "list posts")
		return
	}
	if posts == nil {
		posts = []model.ForumPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// getPost godoc
// @Summary Get a forum post with replies
// @Tags community
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} model.ForumPost
// @Failure 404 {string} string "post not found"
// @Failure 500 {string} string "Failed to retrieve post"
// @Router /forum/posts/{postId} [get]
func (h *CommunityHandler) getPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "postId")
	if !ok {
		return
	}
	post, err := h.forumService.GetPost(r.Context(), postID)
	if err != nil {
		writeServiceError(w, err, "retrieve post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// createPost godoc
// @Summary Create a forum post
// @Tags community
// @Accept json
// @Produce json
// @Param post body dto.PostCreateDTO true "Post"
// @Success 201 {object} model.ForumPost
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to create post"
// @Router /forum/posts [post]
func (h *CommunityHandler) createPost(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.PostCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	post, err := h.forumService.CreatePost(r.Context(), &model.ForumPost{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		writeServiceError(w, err, "create post")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// reply godoc
// @Summary Reply to a forum post
// @Tags community
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Param reply body dto.ReplyCreateDTO true "Reply"
// @Success 201 {object} model.ForumReply
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 404 {string} string "post not found"
// @Failure 500 {string} string "Failed to create reply"
// @Router /forum/posts/{postId}/replies [post]
func (h *CommunityHandler) reply(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "postId")
	if !ok {
		return
	}
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.ReplyCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	created, err := h.forumService.Reply(r.Context(), &model.ForumReply{
		PostID:   postID,
		AuthorID: userID,
		Content:  req.Content,
	})
	if err != nil {
		writeServiceError(w, err, "create reply")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// like godoc
// @Summary Like a forum post
// @Tags community
// @Param postId path string true "Post ID"
// @Success 204 "No Content"
// @Failure 404 {string} string "post not found"
// @Failure 500 {string} string "Failed to like post"
// @Router /forum/posts/{postId}/like [post]
func (h *CommunityHandler) like(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathUUID(w, r, "postId")
	if !ok {
		return
	}
	if _, _, ok := currentUser(w, r); !ok {
		return
	}
	if err := h.forumService.Like(r.Context(), postID); err != nil {
		writeServiceError(w, err, "like post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listEvents godoc
// @Summary List upcoming events
// @Tags community
// @Produce json
// @Success 200 {array} model.Event
// @Failure 500 {string} string "Failed to list events"
// @Router /events [get]
func (h *CommunityHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListUpcoming(r.Context())
	if err != nil {
		writeServiceError(w, err, "list events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// createEvent godoc
// @Summary Create an event
// @Tags community
// @Accept json
// @Produce json
// @Param event body dto.EventCreateDTO true "Event"
// @Success 201 {object} model.Event
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "Forbidden: requires role teacher"
// @Failure 500 {string} string "Failed to create event"
// @Router /events [post]
func (h *CommunityHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req dto.EventCreateDTO
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	event, err := h.eventService.Create(r.Context(), &model.Event{
		Title:           req.Title,
		Description:     req.Description,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Location:        req.Location,
		IsVirtual:       req.IsVirtual,
		OrganizerID:     userID,
		MaxParticipants: req.MaxParticipants,
		Category:        req.Category,
	})
	if err != nil {
		writeServiceError(w, err, "create event")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// joinEvent godoc
// @Summary Join an event
// @Tags community
// @Param eventId path string true "Event ID"
// @Success 204 "No Content"
// @Failure 400 {string} string "event has ended"
// @Failure 404 {string} string "event not found"
// @Failure 409 {string} string "event is full"
// @Failure 500 {string} string "Failed to join event"
// @Router /events/{eventId}/join [post]
func (h *CommunityHandler) joinEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventId")
	if !ok {
		return
	}
	userID, _, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := h.eventService.Join(r.Context(), eventID, userID); err != nil {
		writeServiceError(w, err, "join event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
