package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/auth"
	"github.com/taskhive-inc/taskhive/pkg/services"
)

// CommentRequest is the request body for creating or updating a comment.
type CommentRequest struct {
	Content string `json:"content"`
	Task    string `json:"task"`
}

// ReplyRequest is the request body for creating a reply.
type ReplyRequest struct {
	Reply       string  `json:"reply"`
	ParentReply *string `json:"parentReply"`
}

// CommentsHandler handles comment and reply HTTP requests.
type CommentsHandler struct {
	commentService services.CommentService
	replyService   services.ReplyService
	logger         *zap.Logger
}

// NewCommentsHandler creates a new comments handler.
func NewCommentsHandler(commentService services.CommentService, replyService services.ReplyService, logger *zap.Logger) *CommentsHandler {
	return &CommentsHandler{
		commentService: commentService,
		replyService:   replyService,
		logger:         logger,
	}
}

// RegisterRoutes registers the comments handler's routes on the given mux.
func (h *CommentsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/v1/comments", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/v1/comments", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/v1/comments/{commentID}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/v1/comments/{commentID}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/v1/comments/{commentID}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/v1/comments/{commentID}/replies", authMiddleware.RequireAuth(h.CreateReply))
	mux.HandleFunc("GET /api/v1/comments/{commentID}/replies", authMiddleware.RequireAuth(h.ListReplies))
}

// Create handles POST /api/v1/comments.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	taskID, err := uuid.Parse(req.Task)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	comment, err := h.commentService.Create(r.Context(), actor, req.Content, taskID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Comment created successfully", comment)
}

// List handles GET /api/v1/comments. Visibility depends on the caller's role.
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	comments, err := h.commentService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Comments retrieved successfully", comments)
}

// Get handles GET /api/v1/comments/{commentID}.
func (h *CommentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	comment, err := h.commentService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Comment retrieved successfully", comment)
}

// Update handles PATCH /api/v1/comments/{commentID}.
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	taskID, err := uuid.Parse(req.Task)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	comment, err := h.commentService.Update(r.Context(), actor, id, req.Content, taskID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Comment updated successfully", comment)
}

// Delete handles DELETE /api/v1/comments/{commentID}.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	if err := h.commentService.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Comment deleted successfully", nil)
}

// CreateReply handles POST /api/v1/comments/{commentID}/replies.
func (h *CommentsHandler) CreateReply(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID, err := uuid.Parse(r.PathValue("commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.CreateReplyInput{
		Reply:     req.Reply,
		CommentID: commentID,
	}
	if req.ParentReply != nil {
		parentID, err := uuid.Parse(*req.ParentReply)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parent reply ID format")
			return
		}
		input.ParentReplyID = &parentID
	}

	reply, err := h.replyService.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Reply created successfully", reply)
}

// ListReplies handles GET /api/v1/comments/{commentID}/replies.
func (h *CommentsHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	commentID, err := uuid.Parse(r.PathValue("commentID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid comment ID format")
		return
	}

	replies, err := h.replyService.ListByComment(r.Context(), actor, commentID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Replies retrieved successfully", replies)
}
