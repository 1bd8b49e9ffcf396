package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/models"
)

// AccessTokenCookie is the cookie browser clients carry the access token in.
const AccessTokenCookie = "accessToken"

// RefreshTokenCookie is the cookie the refresh token is set in on login.
const RefreshTokenCookie = "refreshToken"

// UserFinder resolves an authenticated user id to the full user record.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Middleware provides HTTP authentication middleware. Every protected
// operation runs behind RequireAuth, which resolves the token to a full
// user record for downstream authorization decisions.
type Middleware struct {
	tokens *TokenManager
	users  UserFinder
	logger *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(tokens *TokenManager, users UserFinder, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// RequireAuth validates the access token and loads the user it references.
// The token is taken from the accessToken cookie (browser clients) or the
// Authorization header with Bearer scheme (API clients).
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := extractToken(r)
		if !ok {
			m.unauthorized(w, "Unauthorized: no token provided")
			return
		}

		claims, err := m.tokens.ParseAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				m.unauthorized(w, "Unauthorized: token has expired")
				return
			}
			m.logger.Debug("Access token validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			m.unauthorized(w, "Unauthorized: invalid token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			m.unauthorized(w, "Unauthorized: invalid token")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// Token may outlive the account it was minted for.
			m.unauthorized(w, "Unauthorized: user not found")
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

// extractToken pulls the access token from the request, preferring the
// cookie over the Authorization header.
func extractToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
