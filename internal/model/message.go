package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a chat entry, either posted to a project thread or sent directly to a user
type Message struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_conversation,priority:1" json:"sender_id"`
	Sender      *User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	RecipientID *uuid.UUID `gorm:"type:uuid;index:idx_messages_conversation,priority:2" json:"recipient_id"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index:idx_messages_project,priority:1" json:"project_id"`
	Content     string     `gorm:"type:text" json:"content"`
	CreatedAt   time.Time  `gorm:"index:idx_messages_project,priority:2;index:idx_messages_conversation,priority:3" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
