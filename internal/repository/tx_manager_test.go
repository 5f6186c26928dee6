package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/database/dbtest"
	"projector/internal/model"
)

func TestRunInTxRollsBack(t *testing.T) {
	db := dbtest.New(t)
	roles := NewRoleRepository(db)
	tx := NewTransactionManager(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, roles.Create(txCtx, &model.Role{Name: "QA"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = roles.FindByName(ctx, "QA")
	assert.Error(t, err)
}

func TestRunInTxJoinsOuterTransaction(t *testing.T) {
	db := dbtest.New(t)
	roles := NewRoleRepository(db)
	tx := NewTransactionManager(db)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(outer context.Context) error {
		require.NoError(t, tx.RunInTx(outer, func(inner context.Context) error {
			return roles.Create(inner, &model.Role{Name: "Inner"})
		}))
		return errors.New("outer fails")
	})
	require.Error(t, err)

	_, err = roles.FindByName(ctx, "Inner")
	assert.Error(t, err, "inner work is rolled back with the outer transaction")
}

func TestUserRoleQueries(t *testing.T) {
	db := dbtest.New(t)
	roles := NewRoleRepository(db)
	users := NewUserRepository(db)
	ctx := context.Background()

	dev := &model.Role{Name: model.RoleDeveloper, Permissions: model.NewPermissionMatrix(nil)}
	require.NoError(t, roles.Create(ctx, dev))

	legacy := &model.User{Name: "l", Email: "l@example.com", Password: "x", LegacyRole: "PM"}
	require.NoError(t, users.Create(ctx, legacy))
	linked := &model.User{Name: "k", Email: "k@example.com", Password: "x", RoleID: &dev.ID}
	require.NoError(t, users.Create(ctx, linked))

	pending, err := users.ListWithoutRoleRef(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "PM", pending[0].LegacyRole)

	count, err := users.CountByRole(ctx, dev.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, users.AssignRole(ctx, legacy.ID, dev.ID))
	reloaded, err := users.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Role)
	assert.Equal(t, model.RoleDeveloper, reloaded.Role.Name)
	assert.Empty(t, reloaded.LegacyRole)

	stored, err := roles.FindByID(ctx, dev.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Permissions, len(model.KnownResources))
}
