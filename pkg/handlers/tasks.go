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

// CreateTaskRequest is the request body for task creation.
type CreateTaskRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	AssignedTo   string    `json:"assignedTo"`
	AssignedDate time.Time `json:"assignedDate"`
	DueTime      time.Time `json:"dueTime"`
	Project      *string   `json:"project"`
}

// UpdateTaskRequest is the request body for a partial task update.
type UpdateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	AssignedTo   *string    `json:"assignedTo"`
	AssignedDate *time.Time `json:"assignedDate"`
	DueTime      *time.Time `json:"dueTime"`
	Project      *string    `json:"project"`
}

// TasksHandler handles task HTTP requests.
type TasksHandler struct {
	taskService     services.TaskService
	overviewService services.OverviewService
	logger          *zap.Logger
}

// NewTasksHandler creates a new tasks handler.
func NewTasksHandler(taskService services.TaskService, overviewService services.OverviewService, logger *zap.Logger) *TasksHandler {
	return &TasksHandler{
		taskService:     taskService,
		overviewService: overviewService,
		logger:          logger,
	}
}

// RegisterRoutes registers the tasks handler's routes on the given mux.
func (h *TasksHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/v1/tasks", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/v1/tasks", authMiddleware.RequireAuth(h.ListAll))
	mux.HandleFunc("GET /api/v1/tasks/today", authMiddleware.RequireAuth(h.ListToday))
	mux.HandleFunc("GET /api/v1/tasks/pending", authMiddleware.RequireAuth(h.ListPending))
	mux.HandleFunc("GET /api/v1/tasks/completed", authMiddleware.RequireAuth(h.ListCompleted))
	mux.HandleFunc("GET /api/v1/tasks/{taskID}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/v1/tasks/{taskID}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/v1/tasks/{taskID}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("POST /api/v1/tasks/{taskID}/start", authMiddleware.RequireAuth(h.Start))
	mux.HandleFunc("POST /api/v1/tasks/{taskID}/complete", authMiddleware.RequireAuth(h.Complete))
}

// Create handles POST /api/v1/tasks.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	assigneeID, err := uuid.Parse(req.AssignedTo)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignee ID format")
		return
	}

	input := services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       models.Status(req.Status),
		AssignedTo:   assigneeID,
		AssignedDate: req.AssignedDate,
		DueTime:      req.DueTime,
	}
	if req.Project != nil {
		projectID, err := uuid.Parse(*req.Project)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid project ID format")
			return
		}
		input.Project = &projectID
	}

	task, err := h.taskService.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Task created successfully", task)
}

// ListAll handles GET /api/v1/tasks.
func (h *TasksHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := h.taskService.ListAll(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// ListToday handles GET /api/v1/tasks/today.
func (h *TasksHandler) ListToday(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := h.taskService.ListToday(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Today's tasks retrieved successfully", tasks)
}

// ListPending handles GET /api/v1/tasks/pending.
func (h *TasksHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	markers, err := h.overviewService.PendingTasks(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Pending tasks retrieved successfully", markers)
}

// ListCompleted handles GET /api/v1/tasks/completed.
func (h *TasksHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	markers, err := h.overviewService.CompletedTasks(r.Context(), actor.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Completed tasks retrieved successfully", markers)
}

// Get handles GET /api/v1/tasks/{taskID}.
func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	task, err := h.taskService.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task retrieved successfully", task)
}

// Update handles PATCH /api/v1/tasks/{taskID}.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedDate: req.AssignedDate,
		DueTime:      req.DueTime,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		input.Status = &status
	}
	if req.AssignedTo != nil {
		assigneeID, err := uuid.Parse(*req.AssignedTo)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid assignee ID format")
			return
		}
		input.AssignedTo = &assigneeID
	}
	if req.Project != nil {
		projectID, err := uuid.Parse(*req.Project)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid project ID format")
			return
		}
		input.Project = &projectID
	}

	task, err := h.taskService.Update(r.Context(), actor, id, input)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task updated successfully", task)
}

// Delete handles DELETE /api/v1/tasks/{taskID}.
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task deleted successfully", nil)
}

// Start handles POST /api/v1/tasks/{taskID}/start.
func (h *TasksHandler) Start(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	task, err := h.taskService.Start(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task started successfully", task)
}

// Complete handles POST /api/v1/tasks/{taskID}/complete.
func (h *TasksHandler) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	task, err := h.taskService.Complete(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Task completed successfully", task)
}
