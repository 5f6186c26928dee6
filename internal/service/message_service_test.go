package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector/internal/model"
	"projector/internal/repository"
)

func TestSendMessageValidation(t *testing.T) {
	f := seeded(t)
	svc := NewMessageService(repository.NewMessageRepository(f.db), f.publisher)
	sender := f.user(t, "s@example.com", f.role(t, model.RoleDeveloper))

	_, err := svc.Send(context.Background(), sender.ID, SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Send(context.Background(), sender.ID, SendMessageRequest{ProjectID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.List(context.Background(), sender.ID, MessageQuery{})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, f.publisher.events)
}

func TestDirectMessagesReachOnlyParticipants(t *testing.T) {
	f := seeded(t)
	svc := NewMessageService(repository.NewMessageRepository(f.db), f.publisher)
	ctx := context.Background()
	alice := f.user(t, "alice@example.com", f.role(t, model.RoleDeveloper))
	bob := f.user(t, "bob@example.com", f.role(t, model.RolePM))
	carol := f.user(t, "carol@example.com", f.role(t, model.RoleClient))

	_, err := svc.Send(ctx, alice.ID, SendMessageRequest{Content: "first", RecipientID: bob.ID.String()})
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob.ID, SendMessageRequest{Content: "second", RecipientID: alice.ID.String()})
	require.NoError(t, err)
	_, err = svc.Send(ctx, carol.ID, SendMessageRequest{Content: "other", RecipientID: alice.ID.String()})
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, EventMessageNew, f.publisher.events[0].eventType)
	assert.ElementsMatch(t, []uuid.UUID{alice.ID, bob.ID}, f.publisher.events[0].recipients)

	thread, err := svc.List(ctx, alice.ID, MessageQuery{UserID: bob.ID.String()})
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].Content)
	assert.Equal(t, "second", thread[1].Content)
	require.NotNil(t, thread[0].Sender)
	assert.Equal(t, alice.Email, thread[0].Sender.Email)
}

func TestProjectMessagesBroadcast(t *testing.T) {
	f := seeded(t)
	svc := NewMessageService(repository.NewMessageRepository(f.db), f.publisher)
	ctx := context.Background()
	sender := f.user(t, "s@example.com", f.role(t, model.RolePM))
	project := uuid.New()

	msg, err := svc.Send(ctx, sender.ID, SendMessageRequest{Content: "standup", ProjectID: project.String()})
	require.NoError(t, err)
	require.NotNil(t, msg.ProjectID)

	require.Len(t, f.publisher.events, 1)
	assert.Empty(t, f.publisher.events[0].recipients)

	thread, err := svc.List(ctx, sender.ID, MessageQuery{ProjectID: project.String()})
	require.NoError(t, err)
	assert.Len(t, thread, 1)
}
