package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/database/dbtest"
	"projector/internal/model"
	"projector/internal/repository"
	"projector/pkg/pagination"
)

func TestFilterSpecBuild(t *testing.T) {
	spec := filterSpec{"project_id": true, "status": false}
	id := uuid.New()

	got, err := spec.build(map[string]string{"project_id": id.String(), "status": "Open", "page": "2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"project_id": id, "status": "Open"}, got)

	got, err = spec.build(map[string]string{"status": ""})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = spec.build(map[string]string{"project_id": "nope"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProjectUpdatesArePartial(t *testing.T) {
	svc := NewProjectService(repository.NewProjectRepository(dbtest.New(t)))
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	p, err := svc.Create(ctx, uuid.Nil, CreateProjectRequest{Name: "  Portal  ", Description: "keep me", StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, "Portal", p.Name)
	assert.Equal(t, model.ProjectPlanning, p.Status)

	_, err = svc.Update(ctx, p.ID.String(), UpdateProjectRequest{Status: strPtr("Paused")})
	assert.ErrorIs(t, err, ErrValidation)

	before := start.Add(-time.Hour)
	_, err = svc.Update(ctx, p.ID.String(), UpdateProjectRequest{EndDate: &before})
	assert.ErrorIs(t, err, ErrValidation)

	p, err = svc.Update(ctx, p.ID.String(), UpdateProjectRequest{Status: strPtr(model.ProjectActive)})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectActive, p.Status)
	assert.Equal(t, "keep me", p.Description)
	require.NotNil(t, p.StartDate)
	assert.True(t, start.Equal(*p.StartDate))
	assert.Nil(t, p.EndDate)

	_, err = svc.Get(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProjectScopedRecordsRequireProject(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	uploader := f.user(t, "dev@example.com", f.role(t, model.RoleDeveloper))
	records := NewRecordServices(f.db, repository.NewEstimationRepository(f.db))
	project := uuid.New()

	doc, err := records.Documents.Create(ctx, uploader.ID, CreateDocumentRequest{
		ProjectID: project.String(), Title: "Spec", FilePath: "uploads/spec.pdf", OriginalName: "spec.pdf", Size: 42,
	})
	require.NoError(t, err)
	require.NotNil(t, doc.UploaderID)
	assert.Equal(t, uploader.ID, *doc.UploaderID)
	require.NotNil(t, doc.Uploader)
	assert.Equal(t, uploader.Email, doc.Uploader.Email)

	_, _, err = records.Documents.List(ctx, ListQuery{Page: pagination.New(1, 10)})
	assert.ErrorIs(t, err, ErrValidation)

	docs, total, err := records.Documents.List(ctx, ListQuery{Page: pagination.New(1, 10), Filters: map[string]string{"project_id": project.String()}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, docs, 1)

	_, err = records.Credentials.Update(ctx, uuid.NewString(), UpdateCredentialRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	cred, err := records.Credentials.Create(ctx, uploader.ID, CreateCredentialRequest{ProjectID: project.String(), Title: "staging", Password: "s3cret"})
	require.NoError(t, err)
	_, err = records.Credentials.Update(ctx, cred.ID.String(), UpdateCredentialRequest{Password: strPtr("")})
	assert.ErrorIs(t, err, ErrValidation)

	cred, err = records.Credentials.Update(ctx, cred.ID.String(), UpdateCredentialRequest{Username: strPtr("deploy")})
	require.NoError(t, err)
	assert.Equal(t, "deploy", cred.Username)
	assert.Equal(t, "s3cret", cred.Password)

	require.NoError(t, records.Credentials.Delete(ctx, cred.ID.String()))
	_, err = records.Credentials.Get(ctx, cred.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBugAssigneeCanBeCleared(t *testing.T) {
	f := seeded(t)
	ctx := context.Background()
	dev := f.user(t, "dev@example.com", f.role(t, model.RoleDeveloper))
	bugs := NewBugService(repository.NewBugRepository(f.db))

	bug, err := bugs.Create(ctx, dev.ID, CreateBugRequest{
		ProjectID: uuid.NewString(), Title: "Crash", Severity: model.SeverityCritical, AssigneeID: dev.ID.String(),
	})
	require.NoError(t, err)
	require.NotNil(t, bug.Assignee)
	assert.Equal(t, model.BugOpen, bug.Status)

	bug, err = bugs.Update(ctx, bug.ID.String(), UpdateBugRequest{AssigneeID: strPtr(""), Status: strPtr(model.BugResolved)})
	require.NoError(t, err)
	assert.Nil(t, bug.AssigneeID)
	assert.Nil(t, bug.Assignee)
	assert.Equal(t, model.BugResolved, bug.Status)
	assert.Equal(t, model.SeverityCritical, bug.Severity)

	_, err = bugs.Update(ctx, bug.ID.String(), UpdateBugRequest{AssigneeID: strPtr("nope")})
	assert.ErrorIs(t, err, ErrValidation)
}
