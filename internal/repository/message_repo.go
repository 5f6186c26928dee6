package repository

import (
	"context"

	"projector/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Message, error)
	ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]model.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *model.Message) error {
	return GetDB(ctx, r.db).Omit("Sender").Create(msg).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	if err := GetDB(ctx, r.db).Preload("Sender").First(&msg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByProject returns the project thread, oldest first
func (r *messageRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.Message, error) {
	var msgs []model.Message
	err := GetDB(ctx, r.db).Preload("Sender").
		Where("project_id = ?", projectID).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}

// ListConversation returns the direct messages exchanged between two users, oldest first
func (r *messageRepository) ListConversation(ctx context.Context, userA, userB uuid.UUID) ([]model.Message, error) {
	var msgs []model.Message
	err := GetDB(ctx, r.db).Preload("Sender").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", userA, userB, userB, userA).
		Order("created_at asc").
		Find(&msgs).Error
	return msgs, err
}
