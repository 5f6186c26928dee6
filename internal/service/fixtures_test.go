package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"projector/internal/config"
	"projector/internal/database/dbtest"
	"projector/internal/model"
	"projector/internal/rbac"
	"projector/internal/repository"
)

type published struct {
	eventType  string
	payload    interface{}
	recipients []uuid.UUID
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}, recipients ...uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{eventType, payload, recipients})
}

type fixture struct {
	db        *gorm.DB
	roles     repository.RoleRepository
	users     repository.UserRepository
	audit     repository.AuditRepository
	tx        repository.TransactionManager
	boot      *Bootstrapper
	hook      *logrustest.Hook
	publisher *recordingPublisher
}

var testAdmin = config.AdminConfig{Email: "admin@projector.com", Password: "password123", Name: "Admin User"}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	log, hook := logrustest.NewNullLogger()

	f := &fixture{
		db:        db,
		roles:     repository.NewRoleRepository(db),
		users:     repository.NewUserRepository(db),
		audit:     repository.NewAuditRepository(db),
		tx:        repository.NewTransactionManager(db),
		hook:      hook,
		publisher: &recordingPublisher{},
	}
	f.boot = NewBootstrapper(f.roles, f.users, f.audit, testAdmin, log)
	return f
}

// seeded returns a fixture whose system roles exist
func seeded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	require.NoError(t, f.boot.SeedRoles(context.Background()))
	return f
}

func (f *fixture) roleService() RoleService {
	return NewRoleService(f.roles, f.users, f.audit, f.tx, f.publisher)
}

func (f *fixture) role(t *testing.T, name string) *model.Role {
	t.Helper()
	r, err := f.roles.FindByName(context.Background(), name)
	require.NoError(t, err)
	return r
}

func (f *fixture) user(t *testing.T, email string, role *model.Role) *model.User {
	t.Helper()
	u := &model.User{Name: email, Email: email, Password: "x"}
	if role != nil {
		u.RoleID = &role.ID
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

// principal creates a user holding the named role and returns it as an authenticated principal
func (f *fixture) principal(t *testing.T, email, roleName string) *rbac.Principal {
	t.Helper()
	u := f.user(t, email, f.role(t, roleName))
	loaded, err := f.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	return rbac.NewPrincipal(loaded)
}
