package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"projector/internal/model"
	"projector/internal/rbac"
	"projector/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	principalKey    = "principal"
	userIDKey       = "userID"
	AccessTokenName = "access_token"
)

// TokenParser resolves a bearer token to the user ID it was issued for
type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

// UserLookup loads a user with its Role populated
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// SetTokenCookie stores the access token as an HttpOnly cookie.
// Release builds serve the frontend cross-origin and need SameSite=None with Secure.
func SetTokenCookie(c *gin.Context, token string, ttl time.Duration, release bool) {
	sameSite, secure := cookiePolicy(release)
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearTokenCookie removes the access_token cookie
func ClearTokenCookie(c *gin.Context, release bool) {
	sameSite, secure := cookiePolicy(release)
	c.SetSameSite(sameSite)
	c.SetCookie(AccessTokenName, "", -1, "/", "", secure, true)
}

func cookiePolicy(release bool) (http.SameSite, bool) {
	if release {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

// ExtractToken reads the access_token cookie first and falls back to the Authorization header
func ExtractToken(c *gin.Context) (string, string) {
	tokenString, cookieErr := c.Cookie(AccessTokenName)
	if cookieErr == nil && tokenString != "" {
		return tokenString, ""
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization is missing"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "Invalid authorization format. Expected 'Bearer <token>'"
	}
	return parts[1], ""
}

// Authenticate resolves the bearer credential to a principal with its Role loaded from the
// store. The role is never taken from the token.
func Authenticate(tokens TokenParser, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := ExtractToken(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, problem))
			return
		}

		userID, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User no longer exists"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load user"))
			return
		}

		SetPrincipal(c, rbac.NewPrincipal(user))
		c.Next()
	}
}

// RequirePermission lets the request through only when the principal's role grants action on
// resource. It neither logs nor mutates anything.
func RequirePermission(resource string, action model.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := rbac.Authorize(CurrentPrincipal(c), resource, action)
		if err == nil {
			c.Next()
			return
		}

		if errors.Is(err, rbac.ErrUnauthenticated) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: "+err.Error()))
	}
}

// SetPrincipal stores the authenticated principal on the request context
func SetPrincipal(c *gin.Context, p *rbac.Principal) {
	c.Set(principalKey, p)
	if p != nil {
		c.Set(userIDKey, p.UserID.String())
	}
}

// CurrentPrincipal returns the authenticated principal, or nil on unauthenticated requests
func CurrentPrincipal(c *gin.Context) *rbac.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*rbac.Principal)
	return p
}
