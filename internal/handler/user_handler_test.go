package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/model"
)

func TestTeamPermissionsCannotGrantAdmin(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	adminRole, err := s.roles.FindByName(ctx, model.RoleAdmin)
	require.NoError(t, err)
	pmToken := s.tokenFor(t, "pm@example.com", model.RolePM)
	pm, err := s.users.GetByEmail(ctx, "pm@example.com")
	require.NoError(t, err)
	admin, err := s.users.GetByEmail(ctx, "admin@projector.com")
	require.NoError(t, err)

	w := s.do(t, http.MethodDelete, "/api/roles/"+adminRole.ID.String(), pmToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/"+pm.ID.String(), pmToken, map[string]string{"role_id": adminRole.ID.String()})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/users", pmToken, map[string]string{
		"name": "Backdoor", "email": "backdoor@example.com", "password": "secret1", "role_id": adminRole.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/"+admin.ID.String(), pmToken, map[string]string{"password": "takeover1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/roles", pmToken, map[string]string{"name": "Backdoor"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	reloaded, err := s.users.GetByID(ctx, pm.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RolePM, reloaded.Role.Name)

	// Team updates that do not touch Admin accounts still work for the PM
	w = s.do(t, http.MethodPut, "/api/users/"+pm.ID.String(), pmToken, map[string]string{"availability": "part-time"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/"+pm.ID.String(), s.adminToken(t), map[string]string{"role_id": adminRole.ID.String()})
	assert.Equal(t, http.StatusOK, w.Code)
}
