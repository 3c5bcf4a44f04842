package domain

import "slices"

// Role names checked by the HTTP layer.
const (
	RoleAdmin  = "Admin"
	RoleAuthor = "Author"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleAdmin, RoleAuthor}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}

// User is persisted as users/{username}/profile.json.
type User struct {
	Username       string   `json:"Username"`
	Email          string   `json:"Email"`
	Roles          []string `json:"Roles"`
	HashedPassword string   `json:"HashedPassword"`
}

// HasRole reports whether the user holds any of the given roles.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}

// CreateUserRequest is the input for creating a user. HashedPassword must
// already be hashed.
type CreateUserRequest struct {
	Username       string
	Email          string
	HashedPassword string
	Roles          []string
}

// UpdateUserRequest replaces a user's email and roles. An empty
// HashedPassword keeps the stored hash.
type UpdateUserRequest struct {
	Email          string
	HashedPassword string
	Roles          []string
}

// UserInput is the body accepted when creating or updating a user. Password
// is plain text and is hashed before it reaches the store.
type UserInput struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
