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
)

func TestDecisionLogLifecycle(t *testing.T) {
	svc := NewDecisionLogService(repository.NewDecisionLogRepository(dbtest.New(t)))
	ctx := context.Background()
	project := uuid.NewString()

	first, err := svc.Create(ctx, CreateDecisionLogRequest{
		ProjectID: project, Title: "Use Postgres", Context: "c", Decision: "d", Rationale: "r",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DecisionStatusProposed, first.Status)

	time.Sleep(time.Millisecond)
	second, err := svc.Create(ctx, CreateDecisionLogRequest{
		ProjectID: project, Title: "Use Gin", Status: model.DecisionStatusApproved, Context: "c", Decision: "d", Rationale: "r",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateDecisionLogRequest{
		ProjectID: uuid.NewString(), Title: "Elsewhere", Context: "c", Decision: "d", Rationale: "r",
	})
	require.NoError(t, err)

	logs, err := svc.List(ctx, project)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[0].ID, "newest first")

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	updated, err := svc.Update(ctx, first.ID.String(), UpdateDecisionLogRequest{Status: model.DecisionStatusRejected})
	require.NoError(t, err)
	assert.Equal(t, model.DecisionStatusRejected, updated.Status)
	assert.Equal(t, "Use Postgres", updated.Title)

	require.NoError(t, svc.Delete(ctx, first.ID.String()))
	_, err = svc.Get(ctx, first.ID.String())
	assert.ErrorIs(t, err, ErrDecisionLogNotFound)

	_, err = svc.List(ctx, "nope")
	assert.ErrorIs(t, err, ErrValidation)
}
