package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/auth"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/services"
)

type stubTaskService struct {
	task     *models.Task
	tasks    []*models.Task
	err      error
	startErr error
}

func (s *stubTaskService) Create(ctx context.Context, actor *models.User, input services.CreateTaskInput) (*models.Task, error) {
	return s.task, s.err
}

func (s *stubTaskService) ListToday(ctx context.Context, actor *models.User) ([]*models.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tasks, nil
}

func (s *stubTaskService) ListAll(ctx context.Context, actor *models.User) ([]*models.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tasks, nil
}

func (s *stubTaskService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error) {
	return s.task, s.err
}

func (s *stubTaskService) Update(ctx context.Context, actor *models.User, id uuid.UUID, input services.UpdateTaskInput) (*models.Task, error) {
	return s.task, s.err
}

func (s *stubTaskService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	return s.err
}

func (s *stubTaskService) Start(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	return s.task, nil
}

func (s *stubTaskService) Complete(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error) {
	return s.task, s.err
}

type stubOverviewService struct {
	summary   *services.UserSummary
	overview  *services.SystemOverview
	pending   []*models.PendingTask
	completed []*models.CompletedTask
	err       error
}

func (s *stubOverviewService) CurrentUser(ctx context.Context, userID uuid.UUID) (*services.UserSummary, error) {
	return s.summary, s.err
}

func (s *stubOverviewService) AdminOverview(ctx context.Context, actor *models.User) (*services.SystemOverview, error) {
	return s.overview, s.err
}

func (s *stubOverviewService) PendingTasks(ctx context.Context, userID uuid.UUID) ([]*models.PendingTask, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pending, nil
}

func (s *stubOverviewService) CompletedTasks(ctx context.Context, userID uuid.UUID) ([]*models.CompletedTask, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.completed, nil
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

func newTasksHandler(taskSvc services.TaskService, overviewSvc services.OverviewService) *TasksHandler {
	return NewTasksHandler(taskSvc, overviewSvc, zap.NewNop())
}

func withActor(req *http.Request) *http.Request {
	actor := &models.User{ID: uuid.New(), Role: models.RoleTeamMember}
	return req.WithContext(auth.WithUser(req.Context(), actor))
}

func TestTasksHandler_ListToday_EmptyIs404(t *testing.T) {
	h := newTasksHandler(&stubTaskService{err: apperrors.ErrNotFound}, &stubOverviewService{})

	req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/today", nil))
	rec := httptest.NewRecorder()

	h.ListToday(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestTasksHandler_ListToday(t *testing.T) {
	task := &models.Task{ID: uuid.New(), Title: "T", Status: models.StatusNA}
	h := newTasksHandler(&stubTaskService{tasks: []*models.Task{task}}, &stubOverviewService{})

	req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/today", nil))
	rec := httptest.NewRecorder()

	h.ListToday(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["data"])
}

func TestTasksHandler_Start_InvalidID(t *testing.T) {
	h := newTasksHandler(&stubTaskService{}, &stubOverviewService{})

	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/tasks/not-a-uuid/start", nil))
	req.SetPathValue("taskID", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Start(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasksHandler_Complete(t *testing.T) {
	task := &models.Task{ID: uuid.New(), Title: "T", Status: models.StatusCompleted}
	h := newTasksHandler(&stubTaskService{task: task}, &stubOverviewService{})

	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/complete", nil))
	req.SetPathValue("taskID", task.ID.String())
	rec := httptest.NewRecorder()

	h.Complete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTasksHandler_Create_ForbiddenForMember(t *testing.T) {
	h := newTasksHandler(&stubTaskService{err: apperrors.ErrForbidden}, &stubOverviewService{})

	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/tasks",
		jsonBody(`{"title":"T","description":"D","assignedTo":"`+uuid.NewString()+`"}`)))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTasksHandler_ListPending_EmptyIs404(t *testing.T) {
	h := newTasksHandler(&stubTaskService{}, &stubOverviewService{err: apperrors.ErrNotFound})

	req := withActor(httptest.NewRequest(http.MethodGet, "/api/v1/tasks/pending", nil))
	rec := httptest.NewRecorder()

	h.ListPending(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
