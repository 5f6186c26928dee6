package rbac

import (
	"errors"
	"fmt"

	"projector/internal/model"
)

// Denial kinds. Every error returned by Authorize wraps exactly one of these.
var (
	ErrUnauthenticated        = errors.New("unauthorized")
	ErrNoRoleAssigned         = errors.New("no role assigned")
	ErrRoleHasNoPermissions   = errors.New("role has no permissions")
	ErrResourceNotDefined     = errors.New("no permissions defined")
	ErrInsufficientPermission = errors.New("insufficient permissions")
)

// DenialError carries the reason a request was denied. Its message is safe to show
// to the caller: it names the resource and action, never any data.
type DenialError struct {
	Kind     error
	Resource string
	Action   model.Action
}

func (e *DenialError) Error() string {
	switch e.Kind {
	case ErrResourceNotDefined:
		return fmt.Sprintf("no permissions defined for %s", e.Resource)
	case ErrInsufficientPermission:
		return fmt.Sprintf("insufficient permissions for %s:%s", e.Resource, e.Action)
	default:
		return e.Kind.Error()
	}
}

func (e *DenialError) Unwrap() error {
	return e.Kind
}

func deny(kind error, resource string, action model.Action) error {
	return &DenialError{Kind: kind, Resource: resource, Action: action}
}
