package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a customer the team writes requirements and quotations for
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Company   string    `gorm:"type:varchar(255)" json:"company"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Requirement statuses
const (
	RequirementDraft     = "Draft"
	RequirementFinalized = "Finalized"
	RequirementArchived  = "Archived"
)

// RequirementStatuses in workflow order
var RequirementStatuses = []string{RequirementDraft, RequirementFinalized, RequirementArchived}

// Requirement is a client's written scope that estimations price
type Requirement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Details   string    `gorm:"type:text;not null" json:"details"`
	ClientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client    *Client   `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Requirement) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Quotation statuses
const (
	QuotationDraft    = "Draft"
	QuotationSent     = "Sent"
	QuotationApproved = "Approved"
	QuotationRejected = "Rejected"
)

var QuotationStatuses = []string{QuotationDraft, QuotationSent, QuotationApproved, QuotationRejected}

// Quotation offers an estimation to its client until ValidUntil
type Quotation struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	EstimationID uuid.UUID   `gorm:"type:uuid;not null;index" json:"estimation_id"`
	Estimation   *Estimation `gorm:"foreignKey:EstimationID;constraint:OnDelete:CASCADE" json:"estimation,omitempty"`
	ClientID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"client_id"`
	Client       *Client     `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Status       string      `gorm:"type:varchar(20);not null" json:"status"`
	ValidUntil   time.Time   `gorm:"not null" json:"valid_until"`
	CreatedAt    time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
