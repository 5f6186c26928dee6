package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"projector/internal/model"
	"projector/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string                 `json:"name" binding:"required,max=50"`
	Description string                 `json:"description"`
	Permissions model.PermissionMatrix `json:"permissions"`
}

// UpdateRoleRequest carries any subset of the mutable fields; nil means "not sent"
type UpdateRoleRequest struct {
	Name        *string                `json:"name" binding:"omitempty,max=50"`
	Description *string                `json:"description"`
	Permissions model.PermissionMatrix `json:"permissions"`
}

type RoleResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	IsSystem    bool                   `json:"is_system"`
	Permissions model.PermissionMatrix `json:"permissions"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
}

// ResourceCatalogResponse lists what the matrix editor can grant
type ResourceCatalogResponse struct {
	Resources []string       `json:"resources"`
	Actions   []model.Action `json:"actions"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, actorID uuid.UUID, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, actorID uuid.UUID, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, actorID uuid.UUID, id string) error
	ResourceCatalog() ResourceCatalogResponse
}

type roleService struct {
	roleRepo  repository.RoleRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	events    Publisher
}

func NewRoleService(
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events Publisher,
) RoleService {
	return &roleService{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		events:    publisherOrNoop(events),
	}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roleRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	role, err := s.findRole(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(*role)
	return &resp, nil
}

// CreateRole stores a custom role. Custom roles are never system roles, whatever the caller sends.
func (s *roleService) CreateRole(ctx context.Context, actorID uuid.UUID, req CreateRoleRequest) (*RoleResponse, error) {
	if req.Name == "" {
		return nil, validationError("name is required")
	}

	role := model.Role{
		Name:        req.Name,
		Description: req.Description,
		IsSystem:    false,
		Permissions: model.NewPermissionMatrix(req.Permissions),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.roleRepo.FindByName(txCtx, req.Name); err == nil {
			return ErrRoleNameConflict
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check role name: %w", err)
		}

		if err := s.roleRepo.Create(txCtx, &role); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRoleNameConflict
			}
			return fmt.Errorf("failed to create role: %w", err)
		}

		return s.audit(txCtx, actorID, model.ActionCreateRole, &role, map[string]interface{}{
			"permissions": role.Permissions,
		})
	})
	if err != nil {
		return nil, err
	}

	resp := toRoleResponse(role)
	s.events.Publish(EventRolesChanged, roleChange("created", resp.ID))
	return &resp, nil
}

// UpdateRole applies the supplied fields. The Admin role rejects every update and other
// system roles reject a rename.
func (s *roleService) UpdateRole(ctx context.Context, actorID uuid.UUID, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	var updated model.Role

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.findRole(txCtx, id)
		if err != nil {
			return err
		}

		if role.IsAdmin() {
			return &protectedError{msg: "cannot modify the Admin role"}
		}
		if role.IsSystem && req.Name != nil && *req.Name != role.Name {
			return &protectedError{msg: "cannot rename system roles"}
		}

		if req.Name != nil && *req.Name != role.Name {
			if *req.Name == "" {
				return validationError("name cannot be empty")
			}
			if _, err := s.roleRepo.FindByName(txCtx, *req.Name); err == nil {
				return ErrRoleNameConflict
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check role name: %w", err)
			}
			role.Name = *req.Name
		}
		if req.Description != nil {
			role.Description = *req.Description
		}
		if req.Permissions != nil {
			role.Permissions = model.NewPermissionMatrix(req.Permissions)
		}

		if err := s.roleRepo.Update(txCtx, role); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrRoleNameConflict
			}
			return fmt.Errorf("failed to update role: %w", err)
		}

		updated = *role
		return s.audit(txCtx, actorID, model.ActionUpdateRole, role, map[string]interface{}{
			"name":        role.Name,
			"permissions": role.Permissions,
		})
	})
	if err != nil {
		return nil, err
	}

	resp := toRoleResponse(updated)
	s.events.Publish(EventRolesChanged, roleChange("updated", resp.ID))
	return &resp, nil
}

// DeleteRole removes a custom role nobody references. The in-use count and the delete are
// separate statements, so a user created with this role in between is not detected.
func (s *roleService) DeleteRole(ctx context.Context, actorID uuid.UUID, id string) error {
	var deletedID string
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.findRole(txCtx, id)
		if err != nil {
			return err
		}

		if role.IsSystem {
			return &protectedError{msg: "cannot delete system roles"}
		}

		count, err := s.userRepo.CountByRole(txCtx, role.ID)
		if err != nil {
			return fmt.Errorf("failed to count role users: %w", err)
		}
		if count > 0 {
			return &RoleInUseError{Count: count}
		}

		if err := s.roleRepo.Delete(txCtx, role.ID); err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}

		deletedID = role.ID.String()
		return s.audit(txCtx, actorID, model.ActionDeleteRole, role, nil)
	})
	if err != nil {
		return err
	}

	s.events.Publish(EventRolesChanged, roleChange("deleted", deletedID))
	return nil
}

func (s *roleService) ResourceCatalog() ResourceCatalogResponse {
	resources := make([]string, len(model.KnownResources))
	copy(resources, model.KnownResources)
	actions := make([]model.Action, len(model.Actions))
	copy(actions, model.Actions)
	return ResourceCatalogResponse{Resources: resources, Actions: actions}
}

// --- Helpers ---

func (s *roleService) findRole(ctx context.Context, id string) (*model.Role, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("invalid role id")
	}

	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}
	return role, nil
}

func (s *roleService) audit(ctx context.Context, actorID uuid.UUID, action string, role *model.Role, details map[string]interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	var userID *uuid.UUID
	if actorID != uuid.Nil {
		userID = &actorID
	}

	entry := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   role.ID.String(),
		EntityName: role.Name,
		Details:    string(payload),
	}
	if err := s.auditRepo.Log(ctx, &entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func roleChange(op, id string) map[string]string {
	return map[string]string{"op": op, "role_id": id}
}

func toRoleResponse(r model.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: r.Permissions,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
