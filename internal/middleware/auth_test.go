package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"projector/internal/model"
	"projector/internal/rbac"
)

type fakeTokens map[string]uuid.UUID

func (f fakeTokens) Parse(token string) (uuid.UUID, error) {
	id, ok := f[token]
	if !ok {
		return uuid.Nil, errors.New("bad token")
	}
	return id, nil
}

type fakeUsers map[uuid.UUID]*model.User

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens TokenParser, users UserLookup, resource string, action model.Action) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", Authenticate(tokens, users), RequirePermission(resource, action), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentPrincipal(c).Email)
	})
	return r
}

func TestAuthenticateAndGate(t *testing.T) {
	devRole := &model.Role{Name: model.RoleDeveloper, Permissions: model.NewPermissionMatrix(model.PermissionMatrix{
		model.ResourceTasks: {Read: true},
	})}
	dev := &model.User{ID: uuid.New(), Email: "dev@example.com", Role: devRole}
	orphan := &model.User{ID: uuid.New(), Email: "orphan@example.com"}
	admin := &model.User{ID: uuid.New(), Email: "admin@example.com", Role: &model.Role{Name: model.RoleAdmin}}

	tokens := fakeTokens{"dev": dev.ID, "orphan": orphan.ID, "admin": admin.ID, "ghost": uuid.New()}
	users := fakeUsers{dev.ID: dev, orphan.ID: orphan, admin.ID: admin}

	tests := []struct {
		name     string
		header   string
		cookie   string
		action   model.Action
		status   int
		contains string
	}{
		{"missing credential", "", "", model.ActionRead, http.StatusUnauthorized, "Authorization is missing"},
		{"malformed header", "Token dev", "", model.ActionRead, http.StatusUnauthorized, "Bearer"},
		{"invalid token", "Bearer nope", "", model.ActionRead, http.StatusUnauthorized, "Invalid token"},
		{"deleted user", "Bearer ghost", "", model.ActionRead, http.StatusUnauthorized, "no longer exists"},
		{"granted via header", "Bearer dev", "", model.ActionRead, http.StatusOK, "dev@example.com"},
		{"granted via cookie", "", "dev", model.ActionRead, http.StatusOK, "dev@example.com"},
		{"insufficient", "Bearer dev", "", model.ActionDelete, http.StatusForbidden, "Access denied: insufficient permissions for tasks:delete"},
		{"no role", "Bearer orphan", "", model.ActionRead, http.StatusForbidden, "Access denied: no role assigned"},
		{"admin bypass", "Bearer admin", "", model.ActionDelete, http.StatusOK, "admin@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(tokens, users, model.ResourceTasks, tt.action)

			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestGateWithoutPrincipalIsUnauthorized(t *testing.T) {
	r := gin.New()
	called := false
	r.GET("/x", RequirePermission(model.ResourceTasks, model.ActionRead), func(c *gin.Context) {
		called = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestGateDeniesUnknownResource(t *testing.T) {
	r := gin.New()
	called := false
	r.GET("/x", func(c *gin.Context) {
		SetPrincipal(c, &rbac.Principal{UserID: uuid.New(), Role: &model.Role{
			Name:        "Custom",
			Permissions: model.PermissionMatrix{model.ResourceTasks: model.FullAccess()},
		}})
	}, RequirePermission("reports", model.ActionRead), func(c *gin.Context) {
		called = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "no permissions defined for reports")
	assert.False(t, called)
}

func TestSetTokenCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	SetTokenCookie(c, "tok", time.Hour, true)

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "access_token=tok")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "SameSite=None")
}
