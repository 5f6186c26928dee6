package rbac

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/model"
)

func principalWith(role *model.Role) *Principal {
	return &Principal{UserID: uuid.New(), Name: "u", Email: "u@example.com", Role: role}
}

func TestAdminBypassesMatrix(t *testing.T) {
	matrices := []model.PermissionMatrix{
		nil,
		{},
		{model.ResourceTasks: {}},
	}
	resources := append([]string{"not-a-resource"}, model.KnownResources...)

	for _, m := range matrices {
		p := principalWith(&model.Role{Name: model.RoleAdmin, Permissions: m})
		for _, r := range resources {
			for _, a := range model.Actions {
				assert.NoError(t, Authorize(p, r, a), "%s:%s", r, a)
			}
		}
	}
}

func TestUnknownResourceFailsClosed(t *testing.T) {
	p := principalWith(&model.Role{Name: "Custom", Permissions: model.PermissionMatrix{
		model.ResourceTasks: model.FullAccess(),
	}})

	for _, a := range model.Actions {
		err := Authorize(p, "reports", a)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResourceNotDefined)
		assert.Equal(t, "no permissions defined for reports", err.Error())
	}
}

func TestMatrixFidelity(t *testing.T) {
	p := principalWith(&model.Role{Name: "Reader", Permissions: model.PermissionMatrix{
		model.ResourceTasks: {Read: true},
	}})

	assert.NoError(t, Authorize(p, model.ResourceTasks, model.ActionRead))

	err := Authorize(p, model.ResourceTasks, model.ActionCreate)
	assert.ErrorIs(t, err, ErrInsufficientPermission)
	assert.Equal(t, "insufficient permissions for tasks:create", err.Error())
}

func TestCustomRoleScenario(t *testing.T) {
	qa := &model.Role{
		Name: "QA",
		Permissions: model.NewPermissionMatrix(model.PermissionMatrix{
			model.ResourceBugs: {Read: true, Update: true},
		}),
	}
	p := principalWith(qa)

	assert.True(t, Can(p, model.ResourceBugs, model.ActionUpdate))
	assert.False(t, Can(p, model.ResourceBugs, model.ActionDelete))
	assert.False(t, Can(p, model.ResourceProjects, model.ActionRead))
}

func TestDenialOrder(t *testing.T) {
	tests := []struct {
		name string
		p    *Principal
		want error
		msg  string
	}{
		{"no principal", nil, ErrUnauthenticated, "unauthorized"},
		{"no role", principalWith(nil), ErrNoRoleAssigned, "no role assigned"},
		{"no matrix", principalWith(&model.Role{Name: "Empty"}), ErrRoleHasNoPermissions, "role has no permissions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.p, model.ResourceTasks, model.ActionRead)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			assert.Equal(t, tt.msg, err.Error())

			var denial *DenialError
			require.ErrorAs(t, err, &denial)
			assert.Equal(t, model.ResourceTasks, denial.Resource)
			assert.Equal(t, model.ActionRead, denial.Action)
		})
	}
}
