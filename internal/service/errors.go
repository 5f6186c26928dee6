package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrRoleNotFound        = fmt.Errorf("role %w", ErrNotFound)
	ErrRoleNameConflict    = errors.New("role already exists")
	ErrSystemRoleProtected = errors.New("system role is protected")
	ErrRoleInUse           = errors.New("role is in use")
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrEmailTaken          = errors.New("email already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

// RoleInUseError reports how many users still reference a role that was asked to be deleted
type RoleInUseError struct {
	Count int64
}

func (e *RoleInUseError) Error() string {
	return fmt.Sprintf("cannot delete role: it is assigned to %d users", e.Count)
}

func (e *RoleInUseError) Unwrap() error {
	return ErrRoleInUse
}

// protectedError keeps ErrSystemRoleProtected matchable while giving a specific message
type protectedError struct {
	msg string
}

func (e *protectedError) Error() string { return e.msg }

func (e *protectedError) Unwrap() error { return ErrSystemRoleProtected }

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
