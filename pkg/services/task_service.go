package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/authz"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
)

// CreateTaskInput carries the fields for task creation.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       models.Status
	AssignedTo   uuid.UUID
	AssignedDate time.Time
	DueTime      time.Time
	Project      *uuid.UUID
}

// UpdateTaskInput is a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.Status
	AssignedTo   *uuid.UUID
	AssignedDate *time.Time
	DueTime      *time.Time
	Project      *uuid.UUID
}

// TaskService defines the interface for task operations.
type TaskService interface {
	Create(ctx context.Context, actor *models.User, input CreateTaskInput) (*models.Task, error)
	// ListToday returns the caller's tasks assigned for today, lazily
	// recording a pending marker for each still-open one.
	ListToday(ctx context.Context, actor *models.User) ([]*models.Task, error)
	ListAll(ctx context.Context, actor *models.User) ([]*models.Task, error)
	Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	// Start moves a task to In Progress and stamps its start time.
	Start(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error)
	// Complete moves a task to Completed and appends a completion record.
	Complete(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error)
}

type taskService struct {
	taskRepo    repositories.TaskRepository
	markerRepo  repositories.MarkerRepository
	userRepo    repositories.UserRepository
	projectRepo repositories.ProjectRepository
	logger      *zap.Logger
}

// NewTaskService creates a new task service with dependencies.
func NewTaskService(
	taskRepo repositories.TaskRepository,
	markerRepo repositories.MarkerRepository,
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		markerRepo:  markerRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// Create validates and inserts a new task. Titles are stored uppercase
// and must be unique.
func (s *taskService) Create(ctx context.Context, actor *models.User, input CreateTaskInput) (*models.Task, error) {
	if !authz.Can(actor.Role, authz.ActionTaskCreate) {
		return nil, apperrors.ErrForbidden
	}

	input.Title = strings.ToUpper(strings.TrimSpace(input.Title))
	if input.Title == "" || strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", apperrors.ErrValidation)
	}
	if input.AssignedTo == uuid.Nil || input.AssignedDate.IsZero() || input.DueTime.IsZero() {
		return nil, fmt.Errorf("%w: assignee, assigned date and due time are required", apperrors.ErrValidation)
	}
	if input.Status == "" {
		input.Status = models.StatusNA
	}
	if !models.IsValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, input.Status)
	}

	if _, err := s.taskRepo.GetByTitle(ctx, input.Title); err == nil {
		return nil, fmt.Errorf("%w: task %q already exists", apperrors.ErrConflict, input.Title)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, input.AssignedTo); err != nil {
		return nil, fmt.Errorf("%w: assignee does not exist", apperrors.ErrValidation)
	}
	if input.Project != nil {
		if _, err := s.projectRepo.GetByID(ctx, *input.Project); err != nil {
			return nil, fmt.Errorf("%w: project does not exist", apperrors.ErrValidation)
		}
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		AssignedTo:   input.AssignedTo,
		AssignedDate: input.AssignedDate,
		DueTime:      input.DueTime,
		Project:      input.Project,
		CreatedBy:    actor.ID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		zap.String("task_id", task.ID.String()),
		zap.String("assigned_to", task.AssignedTo.String()))
	return task, nil
}

// ListToday returns the caller's tasks assigned for today. Open tasks
// (N/A or In Progress) get a pending marker recorded if they lack one.
func (s *taskService) ListToday(ctx context.Context, actor *models.User) ([]*models.Task, error) {
	tasks, err := s.taskRepo.ListByAssigneeAndDate(ctx, actor.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperrors.ErrNotFound
	}

	for _, task := range tasks {
		if !PendingMarkerNeeded(task.Status) {
			continue
		}
		if err := s.ensurePendingMarker(ctx, task.ID); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *taskService) ensurePendingMarker(ctx context.Context, taskID uuid.UUID) error {
	exists, err := s.markerRepo.PendingExists(ctx, taskID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.markerRepo.CreatePending(ctx, taskID)
}

// ListAll returns every task in the system.
func (s *taskService) ListAll(ctx context.Context, actor *models.User) ([]*models.Task, error) {
	if !authz.Can(actor.Role, authz.ActionTaskListAll) {
		return nil, apperrors.ErrForbidden
	}

	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return tasks, nil
}

// Get retrieves a task by id.
func (s *taskService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// Update applies a partial update, re-validating references when they
// change, and stamps the actor as the last editor.
func (s *taskService) Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	if !authz.Can(actor.Role, authz.ActionTaskUpdate) {
		return nil, apperrors.ErrForbidden
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.ToUpper(strings.TrimSpace(*input.Title))
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.IsValidStatus(*input.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, *input.Status)
		}
		task.Status = *input.Status
	}
	if input.AssignedTo != nil {
		if _, err := s.userRepo.GetByID(ctx, *input.AssignedTo); err != nil {
			return nil, fmt.Errorf("%w: assignee does not exist", apperrors.ErrValidation)
		}
		task.AssignedTo = *input.AssignedTo
	}
	if input.AssignedDate != nil {
		task.AssignedDate = *input.AssignedDate
	}
	if input.DueTime != nil {
		task.DueTime = *input.DueTime
	}
	if input.Project != nil {
		if _, err := s.projectRepo.GetByID(ctx, *input.Project); err != nil {
			return nil, fmt.Errorf("%w: project does not exist", apperrors.ErrValidation)
		}
		task.Project = input.Project
	}

	actorID := actor.ID
	task.ChangesBy = &actorID

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task by id.
func (s *taskService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !authz.Can(actor.Role, authz.ActionTaskDelete) {
		return apperrors.ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", zap.String("task_id", id.String()))
	return nil
}

// Start moves the task to In Progress and stamps its start time.
// Repeat calls simply re-set the status.
func (s *taskService) Start(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task.Status = StartTask()
	task.StartTime = &now
	actorID := actor.ID
	task.ChangesBy = &actorID

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task started", zap.String("task_id", id.String()))
	return task, nil
}

// Complete moves the task to Completed, stamps its end time, and appends
// a completion record. A second Complete on the same task appends a
// second record; the history keeps every completion event.
func (s *taskService) Complete(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := CompleteTask(task.ID, actor.ID, now)
	task.Status = result.Status
	task.EndTime = &now
	actorID := actor.ID
	task.ChangesBy = &actorID

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	if err := s.markerRepo.CreateCompleted(ctx, result.Marker); err != nil {
		return nil, err
	}

	s.logger.Info("task completed",
		zap.String("task_id", id.String()),
		zap.String("completed_by", actor.ID.String()))
	return task, nil
}

// Ensure taskService implements TaskService at compile time.
var _ TaskService = (*taskService)(nil)
