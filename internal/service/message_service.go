package service

import (
	"context"
	"fmt"

	"projector/internal/model"
	"projector/internal/repository"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	ProjectID   string `json:"project_id" binding:"omitempty,uuid"`
	RecipientID string `json:"recipient_id" binding:"omitempty,uuid"`
}

// MessageQuery selects a project thread or a direct conversation with UserID
type MessageQuery struct {
	ProjectID string
	UserID    string
}

type MessageService interface {
	Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*model.Message, error)
	List(ctx context.Context, viewerID uuid.UUID, q MessageQuery) ([]model.Message, error)
}

type messageService struct {
	repo   repository.MessageRepository
	events Publisher
}

func NewMessageService(repo repository.MessageRepository, events Publisher) MessageService {
	return &messageService{repo: repo, events: publisherOrNoop(events)}
}

// Send stores the message and pushes it to the conversation participants, or to everyone
// for project threads.
func (s *messageService) Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*model.Message, error) {
	if req.Content == "" {
		return nil, validationError("content is required")
	}
	if req.ProjectID == "" && req.RecipientID == "" {
		return nil, validationError("project_id or recipient_id is required")
	}

	msg := &model.Message{SenderID: senderID, Content: req.Content}
	if req.ProjectID != "" {
		id, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return nil, validationError("invalid project_id")
		}
		msg.ProjectID = &id
	}
	if req.RecipientID != "" {
		id, err := uuid.Parse(req.RecipientID)
		if err != nil {
			return nil, validationError("invalid recipient_id")
		}
		msg.RecipientID = &id
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	if stored, err := s.repo.FindByID(ctx, msg.ID); err == nil {
		msg = stored
	}

	if msg.ProjectID == nil && msg.RecipientID != nil {
		s.events.Publish(EventMessageNew, msg, senderID, *msg.RecipientID)
	} else {
		s.events.Publish(EventMessageNew, msg)
	}
	return msg, nil
}

func (s *messageService) List(ctx context.Context, viewerID uuid.UUID, q MessageQuery) ([]model.Message, error) {
	switch {
	case q.ProjectID != "":
		id, err := uuid.Parse(q.ProjectID)
		if err != nil {
			return nil, validationError("invalid project_id")
		}
		return s.repo.ListByProject(ctx, id)
	case q.UserID != "":
		id, err := uuid.Parse(q.UserID)
		if err != nil {
			return nil, validationError("invalid user_id")
		}
		return s.repo.ListConversation(ctx, viewerID, id)
	default:
		return nil, validationError("project_id or user_id is required")
	}
}
