package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/models"
)

type taskFixture struct {
	svc        TaskService
	userRepo   *fakeUserRepo
	taskRepo   *fakeTaskRepo
	markerRepo *fakeMarkerRepo
	admin      *models.User
	member     *models.User
}

func newTaskFixture() *taskFixture {
	userRepo := newFakeUserRepo()
	taskRepo := newFakeTaskRepo()
	markerRepo := newFakeMarkerRepo()
	projectRepo := newFakeProjectRepo()

	return &taskFixture{
		svc:        NewTaskService(taskRepo, markerRepo, userRepo, projectRepo, zap.NewNop()),
		userRepo:   userRepo,
		taskRepo:   taskRepo,
		markerRepo: markerRepo,
		admin:      adminUser(userRepo),
		member:     memberUser(userRepo, "member@example.com"),
	}
}

func (f *taskFixture) validInput() CreateTaskInput {
	return CreateTaskInput{
		Title:        "write report",
		Description:  "Quarterly report",
		AssignedTo:   f.member.ID,
		AssignedDate: time.Now(),
		DueTime:      time.Now().Add(8 * time.Hour),
	}
}

func TestTaskService_Create_UppercasesTitle(t *testing.T) {
	f := newTaskFixture()

	task, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	assert.Equal(t, "WRITE REPORT", task.Title)
	assert.Equal(t, models.StatusNA, task.Status)
	assert.Equal(t, f.admin.ID, task.CreatedBy)
}

func TestTaskService_Create_DuplicateTitle(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.admin, f.validInput())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestTaskService_Create_DuplicateTitleDiffersOnlyByCase(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	input := f.validInput()
	input.Title = "Write Report"
	_, err = f.svc.Create(context.Background(), f.admin, input)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Len(t, f.taskRepo.tasks, 1)
}

func TestTaskService_Create_ForbiddenForTeamMember(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.Create(context.Background(), f.member, f.validInput())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestTaskService_Create_UnknownAssignee(t *testing.T) {
	f := newTaskFixture()

	input := f.validInput()
	input.AssignedTo = uuid.New()
	_, err := f.svc.Create(context.Background(), f.admin, input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTaskService_ListToday_CreatesPendingMarkers(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	tasks, err := f.svc.ListToday(context.Background(), f.member)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Len(t, f.markerRepo.pending, 1)

	// Listing again must not duplicate the marker.
	_, err = f.svc.ListToday(context.Background(), f.member)
	require.NoError(t, err)
	assert.Len(t, f.markerRepo.pending, 1)
}

func TestTaskService_ListToday_EmptyIsNotFound(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.ListToday(context.Background(), f.member)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTaskService_ListAll_EmptyIsNotFound(t *testing.T) {
	f := newTaskFixture()

	_, err := f.svc.ListAll(context.Background(), f.admin)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTaskService_Start_SetsInProgress(t *testing.T) {
	f := newTaskFixture()

	task, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	started, err := f.svc.Start(context.Background(), f.member, task.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, started.Status)
	assert.NotNil(t, started.StartTime)
	require.NotNil(t, started.ChangesBy)
	assert.Equal(t, f.member.ID, *started.ChangesBy)
	assert.Empty(t, f.markerRepo.completed)
}

func TestTaskService_Complete_AppendsMarker(t *testing.T) {
	f := newTaskFixture()

	task, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	completed, err := f.svc.Complete(context.Background(), f.member, task.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.EndTime)
	require.Len(t, f.markerRepo.completed, 1)
	assert.Equal(t, f.member.ID, f.markerRepo.completed[0].CompletedBy)
}

func TestTaskService_Complete_Twice_AppendsTwoMarkers(t *testing.T) {
	f := newTaskFixture()

	task, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), f.member, task.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(context.Background(), f.admin, task.ID)
	require.NoError(t, err)

	// Each completion is its own event in the history.
	assert.Len(t, f.markerRepo.completed, 2)
}

func TestTaskService_Update_StampsChangesBy(t *testing.T) {
	f := newTaskFixture()

	task, err := f.svc.Create(context.Background(), f.admin, f.validInput())
	require.NoError(t, err)

	desc := "Updated description"
	updated, err := f.svc.Update(context.Background(), f.admin, task.ID, UpdateTaskInput{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, "Updated description", updated.Description)
	require.NotNil(t, updated.ChangesBy)
	assert.Equal(t, f.admin.ID, *updated.ChangesBy)
}

func TestTaskService_Delete_NotFound(t *testing.T) {
	f := newTaskFixture()

	err := f.svc.Delete(context.Background(), f.admin, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
