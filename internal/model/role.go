package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action is one of the four CRUD verbs a permission can grant
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists every action in matrix column order
var Actions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// Resource keys known to the permission matrix
const (
	ResourceProjects     = "projects"
	ResourceTasks        = "tasks"
	ResourceBugs         = "bugs"
	ResourceDocuments    = "documents"
	ResourceCredentials  = "credentials"
	ResourceDecisionLogs = "decisionLogs"
	ResourceChat         = "chat"
	ResourceTeam         = "team"
	ResourceRoles        = "roles"
	ResourceClients      = "clients"
	ResourceRequirements = "requirements"
	ResourceEstimations  = "estimations"
	ResourceQuotations   = "quotations"
)

// KnownResources is the set of resource keys every new role is filled with
var KnownResources = []string{
	ResourceProjects,
	ResourceTasks,
	ResourceBugs,
	ResourceDocuments,
	ResourceCredentials,
	ResourceDecisionLogs,
	ResourceChat,
	ResourceTeam,
	ResourceRoles,
	ResourceClients,
	ResourceRequirements,
	ResourceEstimations,
	ResourceQuotations,
}

// System role names
const (
	RoleAdmin     = "Admin"
	RolePM        = "PM"
	RoleDeveloper = "Developer"
	RoleClient    = "Client"
)

// Permission holds the CRUD grants of a single resource
type Permission struct {
	Create bool `json:"create"`
	Read   bool `json:"read"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// Allows reports whether the given action is granted. Unknown actions are denied.
func (p Permission) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return p.Create
	case ActionRead:
		return p.Read
	case ActionUpdate:
		return p.Update
	case ActionDelete:
		return p.Delete
	default:
		return false
	}
}

// PermissionMatrix maps a resource key to its grants. It is an open mapping so new
// resource keys never require a schema change.
type PermissionMatrix map[string]Permission

// Grants is true iff the matrix has an entry for resource and that entry allows action.
func (m PermissionMatrix) Grants(resource string, action Action) bool {
	perm, ok := m[resource]
	if !ok {
		return false
	}
	return perm.Allows(action)
}

// NewPermissionMatrix fills every known resource with an all-false entry and then
// overlays the supplied entries, unknown keys included.
func NewPermissionMatrix(supplied PermissionMatrix) PermissionMatrix {
	matrix := make(PermissionMatrix, len(KnownResources)+len(supplied))
	for _, resource := range KnownResources {
		matrix[resource] = Permission{}
	}
	for resource, perm := range supplied {
		matrix[resource] = perm
	}
	return matrix
}

// FullAccess is the all-granted entry
func FullAccess() Permission {
	return Permission{Create: true, Read: true, Update: true, Delete: true}
}

// ReadOnly grants read only
func ReadOnly() Permission {
	return Permission{Read: true}
}

// FullAccessMatrix grants every action on every known resource
func FullAccessMatrix() PermissionMatrix {
	matrix := make(PermissionMatrix, len(KnownResources))
	for _, resource := range KnownResources {
		matrix[resource] = FullAccess()
	}
	return matrix
}

// Role is a named bundle of a permission matrix. Users reference it by ID.
type Role struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	IsSystem    bool             `gorm:"default:false" json:"is_system"` // Built-in roles: no rename, no delete
	Permissions PermissionMatrix `gorm:"type:jsonb;serializer:json" json:"permissions"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// BeforeCreate assigns the surrogate key
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether this is the Admin role
func (r *Role) IsAdmin() bool {
	return r != nil && r.Name == RoleAdmin
}
