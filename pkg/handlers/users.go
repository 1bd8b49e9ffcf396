package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/auth"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/services"
)

// CreateUserRequest is the request body for Admin-driven user creation.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// UpdateUserRequest is the request body for a partial user update.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
}

// UpdateProfileRequest is the request body for self-service profile edits.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UsersHandler handles user management HTTP requests.
type UsersHandler struct {
	userService     services.UserService
	overviewService services.OverviewService
	logger          *zap.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(userService services.UserService, overviewService services.OverviewService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{
		userService:     userService,
		overviewService: overviewService,
		logger:          logger,
	}
}

// RegisterRoutes registers the users handler's routes on the given mux.
func (h *UsersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/v1/users", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/v1/users", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/v1/users/me", authMiddleware.RequireAuth(h.Me))
	mux.HandleFunc("GET /api/v1/users/{userID}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/v1/users/{userID}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("PATCH /api/v1/users/{userID}/profile", authMiddleware.RequireAuth(h.UpdateProfile))
	mux.HandleFunc("DELETE /api/v1/users/{userID}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("GET /api/v1/overview", authMiddleware.RequireAuth(h.Overview))
}

// Create handles POST /api/v1/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), actor, services.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      models.Role(req.Role),
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User created successfully", user)
}

// List handles GET /api/v1/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.userService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Users retrieved successfully", users)
}

// Me handles GET /api/v1/users/me. Returns the caller's summary view.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	summary, err := h.overviewService.CurrentUser(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Current user retrieved successfully", summary)
}

// Get handles GET /api/v1/users/{userID}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.userService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User retrieved successfully", user)
}

// Update handles PATCH /api/v1/users/{userID}.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.Update(r.Context(), actor, id, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User updated successfully", user)
}

// UpdateProfile handles PATCH /api/v1/users/{userID}/profile. The path id
// is informational; users can only edit their own profile.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), actor, services.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated successfully", user)
}

// Delete handles DELETE /api/v1/users/{userID}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.userService.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User deleted successfully", nil)
}

// Overview handles GET /api/v1/overview.
func (h *UsersHandler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	overview, err := h.overviewService.AdminOverview(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Overview retrieved successfully", overview)
}
