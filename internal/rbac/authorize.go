// Package rbac decides whether an authenticated principal may perform an action on a
// resource, based on the permission matrix of the principal's role.
package rbac

import (
	"github.com/google/uuid"

	"projector/internal/model"
)

// Principal is the authenticated user together with its resolved role
type Principal struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   *model.Role
}

// NewPrincipal builds a principal from a user loaded with its role
func NewPrincipal(user *model.User) *Principal {
	return &Principal{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}
}

// Authorize returns nil when the principal may perform action on resource, otherwise a
// *DenialError. The checks run in a fixed order: the Admin bypass comes before any
// matrix lookup, and a missing matrix entry denies.
func Authorize(p *Principal, resource string, action model.Action) error {
	if p == nil {
		return deny(ErrUnauthenticated, resource, action)
	}

	role := p.Role
	if role == nil {
		return deny(ErrNoRoleAssigned, resource, action)
	}

	if role.Name == model.RoleAdmin {
		return nil
	}

	if role.Permissions == nil {
		return deny(ErrRoleHasNoPermissions, resource, action)
	}

	perm, ok := role.Permissions[resource]
	if !ok {
		return deny(ErrResourceNotDefined, resource, action)
	}

	if !perm.Allows(action) {
		return deny(ErrInsufficientPermission, resource, action)
	}
	return nil
}

// Can is the boolean form of Authorize
func Can(p *Principal, resource string, action model.Action) bool {
	return Authorize(p, resource, action) == nil
}
