package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/styllobarber/styllobarber-api/internal/email"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/service/auth"
	"github.com/styllobarber/styllobarber-api/internal/service/authz"
	pkgauth "github.com/styllobarber/styllobarber-api/pkg/auth"
	"github.com/styllobarber/styllobarber-api/pkg/logger"
)

func newTestAuthMiddleware() (*AuthMiddleware, pkgauth.JWTService) {
	jwtSvc := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	authSvc := auth.NewService(nil, jwtSvc, email.NoopService{}, logger.NewLogger(nil))
	return NewAuthMiddleware(authSvc, authz.NewChecker()), jwtSvc
}

func serveProtected(t *testing.T, mw *AuthMiddleware, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/appointments", mw.Authenticate(), func(c *gin.Context) {
		session, ok := GetSession(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"role": session.Role})
	})

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type unauthorizedBody struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

func TestAuthenticate(t *testing.T) {
	mw, jwtSvc := newTestAuthMiddleware()

	t.Run("missing header returns 401 echoing the requested path", func(t *testing.T) {
		w := serveProtected(t, mw, "/api/v1/appointments?date=2025-03-03", "")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body unauthorizedBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "/api/v1/appointments?date=2025-03-03", body.Redirect)
	})

	t.Run("garbage token returns 401 echoing the requested path", func(t *testing.T) {
		w := serveProtected(t, mw, "/api/v1/appointments", "not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body unauthorizedBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "/api/v1/appointments", body.Redirect)
	})

	t.Run("valid token reaches the handler with the session set", func(t *testing.T) {
		token, err := jwtSvc.GenerateAccessToken(&model.User{
			Base:         model.Base{ID: uuid.New()},
			BarbershopID: uuid.New(),
			Email:        "client@example.com",
			Role:         model.RoleClient,
		})
		require.NoError(t, err)

		w := serveProtected(t, mw, "/api/v1/appointments", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	mw, jwtSvc := newTestAuthMiddleware()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/barbershops", mw.Authenticate(), mw.RequireRole(model.RoleSaasOwner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := jwtSvc.GenerateAccessToken(&model.User{
		Base: model.Base{ID: uuid.New()},
		Role: model.RoleAdmin,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/barbershops", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Authenticated but wrong role: 403, not a 401 redirect.
	assert.Equal(t, http.StatusForbidden, w.Code)
}
