package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/auth"
	"github.com/taskhive-inc/taskhive/pkg/crypto"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
)

// SignupInput carries the fields for self-service registration.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Session is the result of a successful login: the user plus both tokens.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// AuthService defines the interface for authentication operations.
type AuthService interface {
	// Signup registers a new account. Self-registered accounts are always
	// Admins; other roles are created by an Admin through the user service.
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	// Login verifies credentials and the claimed role, issues a token
	// pair, and persists the refresh token on the user row.
	Login(ctx context.Context, email, password string, role models.Role) (*Session, error)
	// Logout clears the stored refresh token.
	Logout(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService creates a new auth service with dependencies.
func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Signup registers a new Admin account.
func (s *authService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: all fields are required", apperrors.ErrValidation)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login verifies email, role, and password in that order. A missing user
// is NotFound, a role mismatch is rejected before the password is even
// checked, and a wrong password is InvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string, role models.Role) (*Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.Role != role {
		return nil, apperrors.ErrRoleMismatch
	}

	if !crypto.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return nil, err
	}
	user.RefreshToken = &refreshToken

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the stored refresh token for the user.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, nil); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user_id", userID.String()))
	return nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
