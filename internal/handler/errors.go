package handler

import (
	"errors"
	"net/http"

	"projector/internal/middleware"
	"projector/internal/rbac"
	"projector/internal/service"
	"projector/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps service and authorization errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, rbac.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrSystemRoleProtected),
		errors.Is(err, rbac.ErrNoRoleAssigned),
		errors.Is(err, rbac.ErrRoleHasNoPermissions),
		errors.Is(err, rbac.ErrResourceNotDefined),
		errors.Is(err, rbac.ErrInsufficientPermission):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRoleNameConflict),
		errors.Is(err, service.ErrRoleInUse),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "Internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// actorID is the authenticated user performing the request
func actorID(c *gin.Context) uuid.UUID {
	if p := middleware.CurrentPrincipal(c); p != nil {
		return p.UserID
	}
	return uuid.Nil
}
