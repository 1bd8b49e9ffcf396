package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/authz"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
)

// UserSummary is the current-user dashboard view: the sanitized user
// with their activity counts.
type UserSummary struct {
	User          *models.User `json:"user"`
	TaskCount     int          `json:"taskCount"`
	ProjectCount  int          `json:"projectCount"`
	CommentsCount int          `json:"commentsCount"`
}

// SystemOverview is the Admin dashboard view: totals across the system.
type SystemOverview struct {
	UserCount    int `json:"userCount"`
	TaskCount    int `json:"taskCount"`
	ProjectCount int `json:"projectCount"`
}

// OverviewService assembles read-only views derived from the resource
// stores. The counts are independent reads, so each view fans out
// concurrently and fails on the first error.
type OverviewService interface {
	CurrentUser(ctx context.Context, userID uuid.UUID) (*UserSummary, error)
	AdminOverview(ctx context.Context, actor *models.User) (*SystemOverview, error)
	// PendingTasks lists pending markers for tasks assigned to the user.
	PendingTasks(ctx context.Context, userID uuid.UUID) ([]*models.PendingTask, error)
	// CompletedTasks lists completion records for tasks assigned to the user.
	CompletedTasks(ctx context.Context, userID uuid.UUID) ([]*models.CompletedTask, error)
}

type overviewService struct {
	userRepo    repositories.UserRepository
	taskRepo    repositories.TaskRepository
	projectRepo repositories.ProjectRepository
	commentRepo repositories.CommentRepository
	markerRepo  repositories.MarkerRepository
	logger      *zap.Logger
}

// NewOverviewService creates a new overview service with dependencies.
func NewOverviewService(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	commentRepo repositories.CommentRepository,
	markerRepo repositories.MarkerRepository,
	logger *zap.Logger,
) OverviewService {
	return &overviewService{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		commentRepo: commentRepo,
		markerRepo:  markerRepo,
		logger:      logger,
	}
}

// CurrentUser assembles the caller's summary: assigned task count,
// project membership count, and authored comment count.
func (s *overviewService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserSummary, error) {
	summary := &UserSummary{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		summary.User = user
		return nil
	})
	g.Go(func() error {
		count, err := s.taskRepo.CountByAssignee(ctx, userID)
		if err != nil {
			return err
		}
		summary.TaskCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.projectRepo.CountByMember(ctx, userID)
		if err != nil {
			return err
		}
		summary.ProjectCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.commentRepo.CountByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		summary.CommentsCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// AdminOverview assembles system-wide totals.
func (s *overviewService) AdminOverview(ctx context.Context, actor *models.User) (*SystemOverview, error) {
	if !authz.Can(actor.Role, authz.ActionOverviewView) {
		return nil, apperrors.ErrForbidden
	}

	overview := &SystemOverview{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.userRepo.Count(ctx)
		if err != nil {
			return err
		}
		overview.UserCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.taskRepo.Count(ctx)
		if err != nil {
			return err
		}
		overview.TaskCount = count
		return nil
	})
	g.Go(func() error {
		count, err := s.projectRepo.Count(ctx)
		if err != nil {
			return err
		}
		overview.ProjectCount = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// PendingTasks lists pending markers over the user's assigned tasks.
func (s *overviewService) PendingTasks(ctx context.Context, userID uuid.UUID) ([]*models.PendingTask, error) {
	taskIDs, err := s.taskRepo.IDsByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	markers, err := s.markerRepo.ListPendingByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	if len(markers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return markers, nil
}

// CompletedTasks lists completion records over the user's assigned tasks.
func (s *overviewService) CompletedTasks(ctx context.Context, userID uuid.UUID) ([]*models.CompletedTask, error) {
	taskIDs, err := s.taskRepo.IDsByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	markers, err := s.markerRepo.ListCompletedByTaskIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	if len(markers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return markers, nil
}

// Ensure overviewService implements OverviewService at compile time.
var _ OverviewService = (*overviewService)(nil)
