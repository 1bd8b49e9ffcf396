package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/authz"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
)

// CommentService defines the interface for comment operations.
type CommentService interface {
	Create(ctx context.Context, actor *models.User, content string, taskID uuid.UUID) (*models.Comment, error)
	// List returns the comments visible to the caller. Admins see all;
	// Project Managers see comments on tasks they created; Team Members
	// see their own comments plus comments on tasks of their projects.
	List(ctx context.Context, actor *models.User) ([]*models.Comment, error)
	Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Comment, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, content string, taskID uuid.UUID) (*models.Comment, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
	logger      *zap.Logger
}

// NewCommentService creates a new comment service with dependencies.
func NewCommentService(
	commentRepo repositories.CommentRepository,
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	logger *zap.Logger,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// Create attaches a comment to a task.
func (s *commentService) Create(ctx context.Context, actor *models.User, content string, taskID uuid.UUID) (*models.Comment, error) {
	if !authz.Can(actor.Role, authz.ActionCommentCreate) {
		return nil, apperrors.ErrForbidden
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperrors.ErrValidation)
	}
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, fmt.Errorf("%w: task does not exist", apperrors.ErrValidation)
	}

	comment := &models.Comment{
		Content:   content,
		TaskID:    taskID,
		CommentBy: actor.ID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("task_id", taskID.String()))
	return comment, nil
}

// List returns the comments visible to the caller's role.
func (s *commentService) List(ctx context.Context, actor *models.User) ([]*models.Comment, error) {
	var comments []*models.Comment
	var err error

	switch actor.Role {
	case models.RoleAdmin:
		comments, err = s.commentRepo.ListAll(ctx)
	case models.RoleProjectManager:
		comments, err = s.listForManager(ctx, actor.ID)
	default:
		comments, err = s.listForMember(ctx, actor.ID)
	}
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return comments, nil
}

// listForManager returns comments on tasks the manager created.
func (s *commentService) listForManager(ctx context.Context, userID uuid.UUID) ([]*models.Comment, error) {
	tasks, err := s.taskRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	return s.commentRepo.ListByTaskIDs(ctx, taskIDs)
}

// listForMember returns the member's own comments merged with comments on
// tasks of projects they belong to, deduplicated by comment id.
func (s *commentService) listForMember(ctx context.Context, userID uuid.UUID) ([]*models.Comment, error) {
	own, err := s.commentRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	projectIDs, err := s.projectRepo.MemberProjectIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByProjectIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	taskIDs := make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	onProjects, err := s.commentRepo.ListByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(own))
	merged := make([]*models.Comment, 0, len(own)+len(onProjects))
	for _, c := range own {
		seen[c.ID] = true
		merged = append(merged, c)
	}
	for _, c := range onProjects {
		if !seen[c.ID] {
			merged = append(merged, c)
		}
	}
	return merged, nil
}

// Get retrieves a comment by id.
func (s *commentService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

// Update replaces a comment's content and task reference.
func (s *commentService) Update(ctx context.Context, actor *models.User, id uuid.UUID, content string, taskID uuid.UUID) (*models.Comment, error) {
	if !authz.Can(actor.Role, authz.ActionCommentUpdate) {
		return nil, apperrors.ErrForbidden
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", apperrors.ErrValidation)
	}
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, fmt.Errorf("%w: task does not exist", apperrors.ErrValidation)
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Content = content
	comment.TaskID = taskID

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment by id.
func (s *commentService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !authz.Can(actor.Role, authz.ActionCommentDelete) {
		return apperrors.ErrForbidden
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("comment deleted", zap.String("comment_id", id.String()))
	return nil
}

// Ensure commentService implements CommentService at compile time.
var _ CommentService = (*commentService)(nil)
