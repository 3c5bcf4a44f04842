package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ba5maa/FileBlogSystem/internal/auth"
	"github.com/ba5maa/FileBlogSystem/internal/logger"
)

// PrincipalKey is the gin context key for the authenticated caller.
const PrincipalKey = "principal"

// TokenParser resolves a bearer token to a principal.
type TokenParser interface {
	Parse(token string) (*auth.Principal, error)
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			unauthorized(c)
			return
		}

		principal, err := parser.Parse(token)
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Warn("Rejected bearer token",
				slog.String("error", err.Error()))
			unauthorized(c)
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// OptionalAuth resolves the principal when a valid bearer token is present
// and otherwise lets the request through anonymously.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if principal, err := parser.Parse(token); err == nil {
				c.Set(PrincipalKey, principal)
			}
		}
		c.Next()
	}
}

// RequireRole allows the request when the principal holds any of roles.
// It must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			unauthorized(c)
			return
		}
		if !principal.HasRole(roles...) {
			logger.WithRequestID(GetRequestID(c)).Warn("Role check failed",
				slog.String("user", principal.Username),
				slog.Any("required", roles))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller or nil.
func GetPrincipal(c *gin.Context) *auth.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}
