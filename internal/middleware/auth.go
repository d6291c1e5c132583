package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/styllobarber/styllobarber-api/internal/handler"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/service/auth"
	"github.com/styllobarber/styllobarber-api/internal/service/authz"
)

const contextSession = "session"

type AuthMiddleware struct {
	authSvc *auth.Service
	checker *authz.Checker
}

func NewAuthMiddleware(authSvc *auth.Service, checker *authz.Checker) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, checker: checker}
}

// Authenticate validates the bearer token and stores the resolved session
// in the request context. A 401 carries the requested path back so the
// client can return to it after logging in.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.unauthorized(c, "invalid authorization format")
			return
		}

		session, err := m.authSvc.SessionFromToken(parts[1])
		if err != nil {
			m.unauthorized(c, "invalid token")
			return
		}

		c.Set(contextSession, session)
		c.Next()
	}
}

// RequireRole allows only sessions holding one of the given roles exactly.
// There is no hierarchy; list every acceptable role.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			m.unauthorized(c, "authentication required")
			return
		}
		if !m.checker.HasAnyRole(session, roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
			return
		}
		c.Next()
	}
}

// RequirePermission allows only sessions whose role grants the permission.
func (m *AuthMiddleware) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			m.unauthorized(c, "authentication required")
			return
		}
		if !m.checker.HasPermission(session, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, handler.NewErrorResponse("permission denied"))
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":   "error",
		"message":  message,
		"redirect": c.Request.URL.RequestURI(),
	})
}

// GetSession returns the session placed by Authenticate. The second return
// is false on unauthenticated routes; authorization fails closed on it.
func GetSession(c *gin.Context) (model.Session, bool) {
	v, exists := c.Get(contextSession)
	if !exists {
		return model.Session{}, false
	}
	session, ok := v.(model.Session)
	return session, ok
}
