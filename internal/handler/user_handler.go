package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/domain"
	"github.com/ba5maa/FileBlogSystem/internal/repository"
	"github.com/ba5maa/FileBlogSystem/internal/validator"
)

// PasswordHasher turns a plain password into the stored hash.
type PasswordHasher func(password string) (string, error)

// UserResponse represents a user in API responses. The password hash is
// never returned.
type UserResponse struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func toUserResponse(u *domain.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{Username: u.Username, Email: u.Email, Roles: roles}
}

// UserHandler handles user profile requests.
type UserHandler struct {
	users     repository.UserRepository
	validator *validator.Validator
	hash      PasswordHasher
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users repository.UserRepository, v *validator.Validator, hash PasswordHasher) *UserHandler {
	return &UserHandler{users: users, validator: v, hash: hash}
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/users/:username.
func (h *UserHandler) Get(c *gin.Context) {
	username := c.Param("username")

	user, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("user %q not found", username)})
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req domain.UserInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateUserCreate(&req); err != nil {
		respondValidation(c, err)
		return
	}

	hash, err := h.hash(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), domain.CreateUserRequest{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hash,
		Roles:          req.Roles,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/api/users/"+user.Username)
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update handles PUT /api/users/:username. An empty password keeps the
// current one.
func (h *UserHandler) Update(c *gin.Context) {
	var req domain.UserInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.validator.ValidateUserUpdate(&req); err != nil {
		respondValidation(c, err)
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		if hash, err = h.hash(req.Password); err != nil {
			respondError(c, err)
			return
		}
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("username"), domain.UpdateUserRequest{
		Email:          req.Email,
		HashedPassword: hash,
		Roles:          req.Roles,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /api/users/:username.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
