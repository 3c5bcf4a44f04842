package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/auth"
	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
	"github.com/ba5maa/FileBlogSystem/internal/metrics"
	"github.com/ba5maa/FileBlogSystem/internal/middleware"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, time.Time, error)
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

// AuthHandler handles login and the current-user endpoint.
type AuthHandler struct {
	users     repository.UserRepository
	tokens    TokenIssuer
	validator *validator.Validator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users repository.UserRepository, tokens TokenIssuer, v *validator.Validator) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, validator: v}
}

// Login handles POST /api/auth/login. Unknown users and wrong passwords get
// the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateLogin(&req); err != nil {
		respondValidation(c, err)
		return
	}

	log := logger.WithRequestID(middleware.GetRequestID(c))

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil && !errors.Is(err, domain.ErrValidation) {
		metrics.ObserveLogin(metrics.ResultError)
		respondError(c, err)
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.HashedPassword) {
		metrics.ObserveLogin(metrics.LoginResultInvalid)
		log.Warn("Login failed", slog.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, expires, err := h.tokens.Issue(user)
	if err != nil {
		metrics.ObserveLogin(metrics.ResultError)
		respondError(c, err)
		return
	}

	metrics.ObserveLogin(metrics.ResultSuccess)
	log.Info("User logged in", slog.String("username", user.Username))
	c.JSON(http.StatusOK, LoginResponse{Token: token, Expires: expires.UTC().Format(TimeFormat)})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, principal)
}
