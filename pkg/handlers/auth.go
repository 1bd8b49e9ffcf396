package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/auth"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/services"
)

// SignupRequest is the request body for self-service registration.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the request body for login. The role is part of the
// credentials: a correct password with the wrong role is rejected.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService services.AuthService
	tokens      *auth.TokenManager
	cookies     auth.CookieSettings
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService services.AuthService, tokens *auth.TokenManager, cookies auth.CookieSettings, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		cookies:     cookies,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/v1/auth/signup", h.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", authMiddleware.RequireAuth(h.Logout))
}

// Signup handles POST /api/v1/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(r.Context(), services.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /api/v1/auth/login. On success both session cookies
// are set and the sanitized user is returned.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "Email, password and role are required")
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	auth.SetSessionCookies(w, h.cookies,
		session.AccessToken, session.RefreshToken,
		h.tokens.AccessTTL(), h.tokens.RefreshTTL())

	writeSuccess(w, http.StatusOK, "Login successful", session.User)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	auth.ClearSessionCookies(w, h.cookies)
	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}
