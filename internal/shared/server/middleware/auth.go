package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	principalKey = "principal"
)

// TokenVerifier resolves a bearer token to a principal.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// Auth validates bearer tokens and stores the principal in context.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		principal, err := tokens.Verify(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// SetPrincipal stores an authenticated principal on the request context.
func SetPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(principalKey, p)
	c.Set(userIDKey, p.ID)
}

// UserIDFromContext fetches the user ID set by the auth middleware, or 0.
func UserIDFromContext(c *gin.Context) int64 {
	if c == nil {
		return 0
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(int64); ok {
		return id
	}
	return 0
}

// PrincipalFromContext fetches the principal set by the auth middleware.
func PrincipalFromContext(c *gin.Context) (auth.Principal, bool) {
	if c == nil {
		return auth.Principal{}, false
	}
	val, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := val.(auth.Principal)
	return p, ok
}
