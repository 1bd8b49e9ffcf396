package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/authz"
	"github.com/taskhive-inc/taskhive/pkg/crypto"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
)

// CreateUserInput carries the fields for Admin-driven account creation.
// Unlike signup, the role is explicit.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.Role
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *models.Role
}

// ProfileInput carries the self-service profile fields. All are required.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UserService defines the interface for user management operations.
type UserService interface {
	Create(ctx context.Context, actor *models.User, input CreateUserInput) (*models.User, error)
	List(ctx context.Context, actor *models.User) ([]*models.User, error)
	Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error)
	// UpdateProfile lets any authenticated user edit their own name and email.
	UpdateProfile(ctx context.Context, actor *models.User, input ProfileInput) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service with dependencies.
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create registers an account with an explicit role.
func (s *userService) Create(ctx context.Context, actor *models.User, input CreateUserInput) (*models.User, error) {
	if !authz.Can(actor.Role, authz.ActionUserCreate) {
		return nil, apperrors.ErrForbidden
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", apperrors.ErrValidation)
	}
	if !models.IsValidRole(input.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, input.Role)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         input.Role,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

// List returns all users. An empty system yields NotFound.
func (s *userService) List(ctx context.Context, actor *models.User) ([]*models.User, error) {
	if !authz.Can(actor.Role, authz.ActionUserList) {
		return nil, apperrors.ErrForbidden
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return users, nil
}

// Get retrieves a single user by id.
func (s *userService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error) {
	if !authz.Can(actor.Role, authz.ActionUserGet) {
		return nil, apperrors.ErrForbidden
	}
	return s.userRepo.GetByID(ctx, id)
}

// Update applies a partial update to a user.
func (s *userService) Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	if !authz.Can(actor.Role, authz.ActionUserUpdate) {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		if !models.IsValidRole(*input.Role) {
			return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, *input.Role)
		}
		user.Role = *input.Role
	}
	if user.FirstName == "" || user.LastName == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: name and email cannot be empty", apperrors.ErrValidation)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile edits the caller's own name and email.
func (s *userService) UpdateProfile(ctx context.Context, actor *models.User, input ProfileInput) (*models.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.FirstName == "" || input.LastName == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: firstName, lastName and email are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Email = input.Email

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user by id.
func (s *userService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !authz.Can(actor.Role, authz.ActionUserDelete) {
		return apperrors.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
