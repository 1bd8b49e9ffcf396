package services

import (
	"context"
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

// CreateProjectInput carries the fields for project creation.
type CreateProjectInput struct {
	Title          string
	Description    string
	StartDate      time.Time
	EndDate        time.Time
	Status         models.Status
	ProjectManager uuid.UUID
	TeamMembers    []uuid.UUID
}

// UpdateProjectInput is a partial update; nil fields are left unchanged.
type UpdateProjectInput struct {
	Title          *string
	Description    *string
	StartDate      *time.Time
	EndDate        *time.Time
	Status         *models.Status
	ProjectManager *uuid.UUID
	TeamMembers    *[]uuid.UUID
}

// ProjectService defines the interface for project operations.
type ProjectService interface {
	Create(ctx context.Context, actor *models.User, input CreateProjectInput) (*models.Project, error)
	// ListMine returns projects the caller manages or belongs to. An empty
	// list is a valid result here, unlike the other listings.
	ListMine(ctx context.Context, actor *models.User) ([]*models.Project, error)
	ListAll(ctx context.Context, actor *models.User) ([]*models.Project, error)
	Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateProjectInput) (*models.Project, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	logger      *zap.Logger
}

// NewProjectService creates a new project service with dependencies.
func NewProjectService(projectRepo repositories.ProjectRepository, userRepo repositories.UserRepository, logger *zap.Logger) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create validates and inserts a new project.
func (s *projectService) Create(ctx context.Context, actor *models.User, input CreateProjectInput) (*models.Project, error) {
	if !authz.Can(actor.Role, authz.ActionProjectCreate) {
		return nil, apperrors.ErrForbidden
	}

	input.Title = strings.ToUpper(strings.TrimSpace(input.Title))
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if input.Status == "" {
		input.Status = models.StatusNA
	}
	if !models.IsValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, input.Status)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	if err := s.validateManager(ctx, input.ProjectManager); err != nil {
		return nil, err
	}
	if err := s.validateMembers(ctx, input.TeamMembers); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:          input.Title,
		Description:    input.Description,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Status:         input.Status,
		ProjectManager: input.ProjectManager,
		TeamMembers:    input.TeamMembers,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("manager", project.ProjectManager.String()))
	return project, nil
}

// validateManager checks the manager exists and holds a managing role.
func (s *projectService) validateManager(ctx context.Context, managerID uuid.UUID) error {
	manager, err := s.userRepo.GetByID(ctx, managerID)
	if err != nil {
		return fmt.Errorf("%w: project manager does not exist", apperrors.ErrValidation)
	}
	if manager.Role != models.RoleAdmin && manager.Role != models.RoleProjectManager {
		return fmt.Errorf("%w: user %s cannot manage projects", apperrors.ErrValidation, managerID)
	}
	return nil
}

// validateMembers checks every listed member exists.
func (s *projectService) validateMembers(ctx context.Context, memberIDs []uuid.UUID) error {
	for _, id := range memberIDs {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return fmt.Errorf("%w: team member %s does not exist", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// ListMine returns projects the caller manages or belongs to.
func (s *projectService) ListMine(ctx context.Context, actor *models.User) ([]*models.Project, error) {
	return s.projectRepo.ListForUser(ctx, actor.ID)
}

// ListAll returns every project in the system.
func (s *projectService) ListAll(ctx context.Context, actor *models.User) ([]*models.Project, error) {
	if !authz.Can(actor.Role, authz.ActionProjectListAll) {
		return nil, apperrors.ErrForbidden
	}
	return s.projectRepo.ListAll(ctx)
}

// Get retrieves a project by id.
func (s *projectService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// Update applies a partial update; references and dates are re-validated
// only when supplied.
func (s *projectService) Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	if !authz.Can(actor.Role, authz.ActionProjectUpdate) {
		return nil, apperrors.ErrForbidden
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.ToUpper(strings.TrimSpace(*input.Title))
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
		}
		project.Title = title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = *input.EndDate
	}
	if !project.EndDate.After(project.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}
	if input.Status != nil {
		if !models.IsValidStatus(*input.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, *input.Status)
		}
		project.Status = *input.Status
	}
	if input.ProjectManager != nil {
		if err := s.validateManager(ctx, *input.ProjectManager); err != nil {
			return nil, err
		}
		project.ProjectManager = *input.ProjectManager
	}
	if input.TeamMembers != nil {
		if err := s.validateMembers(ctx, *input.TeamMembers); err != nil {
			return nil, err
		}
		project.TeamMembers = *input.TeamMembers
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project by id.
func (s *projectService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !authz.Can(actor.Role, authz.ActionProjectDelete) {
		return apperrors.ErrForbidden
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", zap.String("project_id", id.String()))
	return nil
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
