package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/auth"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/services"
)

// CreateProjectRequest is the request body for project creation.
type CreateProjectRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Status         string    `json:"status"`
	ProjectManager string    `json:"projectManager"`
	TeamMembers    []string  `json:"teamMembers"`
}

// UpdateProjectRequest is the request body for a partial project update.
type UpdateProjectRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	Status         *string    `json:"status"`
	ProjectManager *string    `json:"projectManager"`
	TeamMembers    *[]string  `json:"teamMembers"`
}

// ProjectsHandler handles project HTTP requests.
type ProjectsHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/v1/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/v1/projects", authMiddleware.RequireAuth(h.ListMine))
	mux.HandleFunc("GET /api/v1/projects/all", authMiddleware.RequireAuth(h.ListAll))
	mux.HandleFunc("GET /api/v1/projects/{projectID}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/v1/projects/{projectID}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/v1/projects/{projectID}", authMiddleware.RequireAuth(h.Delete))
}

// parseIDList converts string ids from a request body into uuids.
func parseIDList(raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Create handles POST /api/v1/projects.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	managerID, err := uuid.Parse(req.ProjectManager)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project manager ID format")
		return
	}
	memberIDs, ok := parseIDList(req.TeamMembers)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid team member ID format")
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, services.CreateProjectInput{
		Title:          req.Title,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         models.Status(req.Status),
		ProjectManager: managerID,
		TeamMembers:    memberIDs,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Project created successfully", project)
}

// ListMine handles GET /api/v1/projects. An empty list is a valid result.
func (h *ProjectsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	projects, err := h.projectService.ListMine(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	writeSuccess(w, http.StatusOK, "Projects retrieved successfully", projects)
}

// ListAll handles GET /api/v1/projects/all.
func (h *ProjectsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	projects, err := h.projectService.ListAll(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}

	writeSuccess(w, http.StatusOK, "Projects retrieved successfully", projects)
}

// Get handles GET /api/v1/projects/{projectID}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	project, err := h.projectService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Project retrieved successfully", project)
}

// Update handles PATCH /api/v1/projects/{projectID}.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		input.Status = &status
	}
	if req.ProjectManager != nil {
		managerID, err := uuid.Parse(*req.ProjectManager)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid project manager ID format")
			return
		}
		input.ProjectManager = &managerID
	}
	if req.TeamMembers != nil {
		memberIDs, ok := parseIDList(*req.TeamMembers)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid team member ID format")
			return
		}
		input.TeamMembers = &memberIDs
	}

	project, err := h.projectService.Update(r.Context(), actor, id, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Project updated successfully", project)
}

// Delete handles DELETE /api/v1/projects/{projectID}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("projectID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Project deleted successfully", nil)
}
