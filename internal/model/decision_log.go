package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Decision log statuses
const (
	DecisionStatusProposed = "Proposed"
	DecisionStatusApproved = "Approved"
	DecisionStatusRejected = "Rejected"
)

// DecisionLog records an architectural or product decision taken on a project
type DecisionLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Status    string    `gorm:"type:varchar(20);not null;default:Proposed" json:"status"`
	Context   string    `gorm:"type:text;not null" json:"context"`
	Decision  string    `gorm:"type:text;not null" json:"decision"`
	Rationale string    `gorm:"type:text;not null" json:"rationale"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *DecisionLog) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
