package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"projector/internal/config"
	"projector/internal/model"
	"projector/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type systemRole struct {
	name        string
	description string
	permissions model.PermissionMatrix
}

// systemRoles returns the four built-in roles with their canonical matrices
func systemRoles() []systemRole {
	read := model.ReadOnly()
	none := model.Permission{}
	cru := model.Permission{Create: true, Read: true, Update: true}
	cr := model.Permission{Create: true, Read: true}
	ru := model.Permission{Read: true, Update: true}

	pm := model.FullAccessMatrix()
	pm[model.ResourceTeam] = cru
	pm[model.ResourceRoles] = read

	return []systemRole{
		{
			name:        model.RoleAdmin,
			description: "Full access to every resource",
			permissions: model.FullAccessMatrix(),
		},
		{
			name:        model.RolePM,
			description: "Project manager: runs projects and the team",
			permissions: pm,
		},
		{
			name:        model.RoleDeveloper,
			description: "Works on tasks and bugs",
			permissions: model.NewPermissionMatrix(model.PermissionMatrix{
				model.ResourceProjects:     read,
				model.ResourceTasks:        ru,
				model.ResourceBugs:         cru,
				model.ResourceDocuments:    cr,
				model.ResourceCredentials:  read,
				model.ResourceDecisionLogs: cr,
				model.ResourceChat:         cr,
				model.ResourceTeam:         read,
				model.ResourceRoles:        none,
				model.ResourceClients:      read,
				model.ResourceRequirements: read,
				model.ResourceEstimations:  read,
				model.ResourceQuotations:   read,
			}),
		},
		{
			name:        model.RoleClient,
			description: "External client with access to its own projects",
			permissions: model.NewPermissionMatrix(model.PermissionMatrix{
				model.ResourceProjects:     read,
				model.ResourceTasks:        read,
				model.ResourceBugs:         cr,
				model.ResourceDocuments:    read,
				model.ResourceCredentials:  none,
				model.ResourceDecisionLogs: read,
				model.ResourceChat:         cr,
				model.ResourceTeam:         none,
				model.ResourceRoles:        none,
				model.ResourceClients:      none,
				model.ResourceRequirements: cru,
				model.ResourceEstimations:  read,
				model.ResourceQuotations:   read,
			}),
		},
	}
}

// Bootstrapper brings roles and users into shape before the server accepts requests.
// Every step is a check-then-act against storage, so running it again is harmless.
type Bootstrapper struct {
	roleRepo  repository.RoleRepository
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	admin     config.AdminConfig
	log       logrus.FieldLogger
}

func NewBootstrapper(
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	admin config.AdminConfig,
	log logrus.FieldLogger,
) *Bootstrapper {
	return &Bootstrapper{
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		admin:     admin,
		log:       log,
	}
}

// Run executes seed, migrate and admin provisioning in that order. A failing step is
// logged and the next one still runs; the joined error is returned for the caller to log.
func (b *Bootstrapper) Run(ctx context.Context) error {
	var errs []error
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"seed roles", b.SeedRoles},
		{"migrate legacy roles", b.MigrateLegacyRoles},
		{"ensure admin account", b.EnsureAdminAccount},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			b.log.WithError(err).WithField("step", step.name).Error("bootstrap step failed")
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	return errors.Join(errs...)
}

// SeedRoles creates missing system roles and resets the Admin matrix to full access.
// Existing non-Admin roles are left as they are, so keys added later stay denied there.
func (b *Bootstrapper) SeedRoles(ctx context.Context) error {
	var errs []error
	var created []string

	for _, def := range systemRoles() {
		existing, err := b.roleRepo.FindByName(ctx, def.name)
		switch {
		case err == nil:
			if existing.IsAdmin() {
				existing.Permissions = model.FullAccessMatrix()
				if err := b.roleRepo.Update(ctx, existing); err != nil {
					errs = append(errs, fmt.Errorf("failed to reset %s permissions: %w", def.name, err))
				}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			role := model.Role{
				Name:        def.name,
				Description: def.description,
				IsSystem:    true,
				Permissions: def.permissions,
			}
			if err := b.roleRepo.Create(ctx, &role); err != nil {
				// Another instance seeding concurrently won the insert
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				errs = append(errs, fmt.Errorf("failed to create %s: %w", def.name, err))
				continue
			}
			created = append(created, def.name)
		default:
			errs = append(errs, fmt.Errorf("failed to look up %s: %w", def.name, err))
		}
	}

	if len(created) > 0 {
		b.log.WithField("roles", created).Info("seeded system roles")
		details, _ := json.Marshal(map[string]interface{}{"roles": created})
		if err := b.auditRepo.Log(ctx, &model.AuditLog{
			Action:     model.ActionSeedRoles,
			EntityName: "roles",
			Details:    string(details),
		}); err != nil {
			b.log.WithError(err).Warn("failed to audit role seeding")
		}
	}

	return errors.Join(errs...)
}

// MigrateLegacyRoles points every user that still has only a textual role at the Role of
// that name, falling back to Developer. Users that fail are logged and skipped.
func (b *Bootstrapper) MigrateLegacyRoles(ctx context.Context) error {
	users, err := b.userRepo.ListWithoutRoleRef(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	roles, err := b.roleRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list roles: %w", err)
	}
	byName := make(map[string]*model.Role, len(roles))
	for i := range roles {
		byName[roles[i].Name] = &roles[i]
	}

	fallback, ok := byName[model.RoleDeveloper]
	if !ok {
		return fmt.Errorf("fallback role %s is missing", model.RoleDeveloper)
	}

	migrated := 0
	for _, u := range users {
		target, ok := byName[u.LegacyRole]
		if !ok {
			target = fallback
		}

		if err := b.userRepo.AssignRole(ctx, u.ID, target.ID); err != nil {
			b.log.WithError(err).WithField("user_id", u.ID).Warn("failed to migrate user role")
			continue
		}
		migrated++
	}

	b.log.WithFields(logrus.Fields{"migrated": migrated, "total": len(users)}).Info("migrated legacy user roles")
	return nil
}

// EnsureAdminAccount provisions the configured admin user on an empty system
func (b *Bootstrapper) EnsureAdminAccount(ctx context.Context) error {
	if _, err := b.userRepo.GetByEmail(ctx, b.admin.Email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	adminRole, err := b.roleRepo.FindByName(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to find admin role: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := &model.User{
		Name:     b.admin.Name,
		Email:    b.admin.Email,
		Password: string(hashedPassword),
		RoleID:   &adminRole.ID,
	}
	if err := b.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	b.log.WithField("email", b.admin.Email).Warn("created default admin account; change its password")
	return nil
}
