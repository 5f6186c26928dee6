package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/auth"
	"projector/internal/model"
	"projector/internal/rbac"
	"projector/pkg/pagination"
)

func newUserService(t *testing.T) (*fixture, UserService, *auth.TokenManager) {
	f := seeded(t)
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return f, NewUserService(f.users, f.roles, tokens), tokens
}

func TestCreateUserAndLogin(t *testing.T) {
	f, svc, tokens := newUserService(t)
	ctx := context.Background()
	dev := f.role(t, model.RoleDeveloper)
	pm := f.principal(t, "pm@example.com", model.RolePM)

	created, err := svc.CreateUser(ctx, pm, CreateUserRequest{
		Name:     "Dev",
		Email:    "Dev@Example.com",
		Password: "secret1",
		RoleID:   dev.ID.String(),
		Skills:   "go, sql",
	})
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", created.Email)
	require.NotNil(t, created.Role)
	assert.Equal(t, model.RoleDeveloper, created.Role.Name)

	_, err = svc.CreateUser(ctx, pm, CreateUserRequest{Name: "Dup", Email: "dev@example.com", Password: "secret1", RoleID: dev.ID.String()})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Login(ctx, LoginUserRequest{Email: "dev@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginUserRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, LoginUserRequest{Email: "dev@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.User.ID)

	subject, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, subject)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	_, svc, _ := newUserService(t)

	for _, roleID := range []string{"Developer", uuid.NewString()} {
		_, err := svc.CreateUser(context.Background(), nil, CreateUserRequest{
			Name: "x", Email: "x@example.com", Password: "secret1", RoleID: roleID,
		})
		assert.ErrorIs(t, err, ErrInvalidRole, roleID)
	}
}

func TestUpdateUserReassignsRole(t *testing.T) {
	f, svc, _ := newUserService(t)
	ctx := context.Background()
	pm := f.principal(t, "pm@example.com", model.RolePM)
	u := f.user(t, "a@example.com", f.role(t, model.RoleDeveloper))
	f.user(t, "b@example.com", f.role(t, model.RoleDeveloper))

	res, err := svc.UpdateUser(ctx, pm, u.ID.String(), UpdateUserRequest{RoleID: f.role(t, model.RolePM).ID.String(), Availability: "part-time"})
	require.NoError(t, err)
	assert.Equal(t, model.RolePM, res.Role.Name)
	assert.Equal(t, "part-time", res.Availability)

	reloaded, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolePM, reloaded.Role.Name)

	_, err = svc.UpdateUser(ctx, pm, u.ID.String(), UpdateUserRequest{Email: "b@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestListAndDeleteUsers(t *testing.T) {
	f, svc, _ := newUserService(t)
	ctx := context.Background()
	pm := f.principal(t, "pm@example.com", model.RolePM)
	u := f.user(t, "a@example.com", f.role(t, model.RoleClient))
	f.user(t, "b@example.com", f.role(t, model.RoleClient))

	list, total, err := svc.ListUsers(ctx, pagination.New(1, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteUser(ctx, pm, u.ID.String()))
	_, err = svc.GetUserByID(ctx, u.ID.String())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminAccountsNeedRoleManagement(t *testing.T) {
	f, svc, _ := newUserService(t)
	ctx := context.Background()
	adminRole := f.role(t, model.RoleAdmin)
	pmUser := f.user(t, "pm@example.com", f.role(t, model.RolePM))
	pmReloaded, err := f.users.GetByID(ctx, pmUser.ID)
	require.NoError(t, err)
	pm := rbac.NewPrincipal(pmReloaded)
	admin := f.principal(t, "root@example.com", model.RoleAdmin)
	existingAdmin := f.user(t, "other-admin@example.com", adminRole)

	_, err = svc.UpdateUser(ctx, pm, pmUser.ID.String(), UpdateUserRequest{RoleID: adminRole.ID.String()})
	assert.ErrorIs(t, err, ErrSystemRoleProtected)

	_, err = svc.CreateUser(ctx, pm, CreateUserRequest{
		Name: "Backdoor", Email: "backdoor@example.com", Password: "secret1", RoleID: adminRole.ID.String(),
	})
	assert.ErrorIs(t, err, ErrSystemRoleProtected)

	_, err = svc.UpdateUser(ctx, pm, existingAdmin.ID.String(), UpdateUserRequest{Password: "takeover1"})
	assert.ErrorIs(t, err, ErrSystemRoleProtected)
	assert.ErrorIs(t, svc.DeleteUser(ctx, pm, existingAdmin.ID.String()), ErrSystemRoleProtected)

	reloaded, err := f.users.GetByID(ctx, pmUser.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolePM, reloaded.Role.Name)

	// A principal allowed to change roles may grant Admin
	res, err := svc.UpdateUser(ctx, admin, pmUser.ID.String(), UpdateUserRequest{RoleID: adminRole.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.Role.Name)
}
