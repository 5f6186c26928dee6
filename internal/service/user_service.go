package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"projector/internal/auth"
	"projector/internal/model"
	"projector/internal/rbac"
	"projector/internal/repository"
	"projector/pkg/pagination"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	RoleID       string `json:"role_id" binding:"required,uuid"`
	Skills       string `json:"skills"`
	Availability string `json:"availability"`
}

type UpdateUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email" binding:"omitempty,email"`
	Password     string `json:"password" binding:"omitempty,min=6"`
	RoleID       string `json:"role_id" binding:"omitempty,uuid"`
	Skills       string `json:"skills"`
	Availability string `json:"availability"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse never exposes the password hash. Role carries the full matrix so clients
// can hide actions the user cannot perform.
type UserResponse struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Skills       string        `json:"skills"`
	Availability string        `json:"availability"`
	RoleID       *uuid.UUID    `json:"role_id"`
	Role         *RoleResponse `json:"role,omitempty"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}

// UserService handles team members and sign-in
type UserService interface {
	CreateUser(ctx context.Context, actor *rbac.Principal, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*LoginResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page pagination.Params) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, actor *rbac.Principal, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor *rbac.Principal, id string) error
}

type userService struct {
	repo     repository.UserRepository
	roleRepo repository.RoleRepository
	tokens   *auth.TokenManager
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, roleRepo repository.RoleRepository, tokens *auth.TokenManager) UserService {
	return &userService{repo: repo, roleRepo: roleRepo, tokens: tokens}
}

func mapToUserResponse(user *model.User) *UserResponse {
	res := &UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Skills:       user.Skills,
		Availability: user.Availability,
		RoleID:       user.RoleID,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}
	if user.Role != nil {
		role := toRoleResponse(*user.Role)
		res.Role = &role
	}
	return res
}

func (s *userService) CreateUser(ctx context.Context, actor *rbac.Principal, req CreateUserRequest) (*UserResponse, error) {
	role, err := s.resolveRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if err := guardAdminAccounts(actor, role); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Name:         req.Name,
		Email:        email,
		Password:     string(hashedPassword),
		Skills:       req.Skills,
		Availability: req.Availability,
		RoleID:       &role.ID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.Role = role
	return mapToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: *mapToUserResponse(user)}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page pagination.Params) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToUserResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor *rbac.Principal, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guardAdminAccounts(actor, user.Role); err != nil {
		return nil, err
	}

	if req.RoleID != "" {
		role, err := s.resolveRole(ctx, req.RoleID)
		if err != nil {
			return nil, err
		}
		if err := guardAdminAccounts(actor, role); err != nil {
			return nil, err
		}
		user.RoleID = &role.ID
		user.Role = role
		user.LegacyRole = ""
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}

	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.Password = string(hashedPassword)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Skills != "" {
		user.Skills = req.Skills
	}
	if req.Availability != "" {
		user.Availability = req.Availability
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return mapToUserResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *rbac.Principal, id string) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if err := guardAdminAccounts(actor, user.Role); err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID)
}

// guardAdminAccounts keeps Admin accounts under the control of principals that may already change
// roles. Team permissions alone cannot grant the Admin role, nor edit or remove a user holding it.
func guardAdminAccounts(actor *rbac.Principal, role *model.Role) error {
	if !role.IsAdmin() || rbac.Can(actor, model.ResourceRoles, model.ActionUpdate) {
		return nil
	}
	return &protectedError{msg: "only principals allowed to update roles can manage Admin accounts"}
}

func (s *userService) findUser(ctx context.Context, id string) (*model.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("invalid user id")
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// resolveRole accepts only role IDs that exist; free-text role names are not assignable
func (s *userService) resolveRole(ctx context.Context, id string) (*model.Role, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidRole
	}
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRole
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}
	return role, nil
}
