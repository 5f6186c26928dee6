package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Iron triangle constraints
const (
	ConstraintScope = "Scope"
	ConstraintTime  = "Time"
	ConstraintCost  = "Cost"
)

// EstimationItem is a single line of work. Cost is always Hours x Rate.
type EstimationItem struct {
	Description string          `json:"description"`
	Role        string          `json:"role"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
	Cost        decimal.Decimal `json:"cost"`
}

// IronTriangle fixes two of scope, time and cost and leaves the third flexible
type IronTriangle struct {
	Fixed    []string `json:"fixed"`
	Flexible string   `json:"flexible"`
}

// Estimation prices a client requirement
type Estimation struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	RequirementID uuid.UUID        `gorm:"type:uuid;not null;index" json:"requirement_id"`
	Requirement   *Requirement     `gorm:"foreignKey:RequirementID;constraint:OnDelete:CASCADE" json:"requirement,omitempty"`
	ClientID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client          `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Items         []EstimationItem `gorm:"type:jsonb;serializer:json" json:"items"`
	IronTriangle  IronTriangle     `gorm:"type:jsonb;serializer:json" json:"iron_triangle"`
	Currency      string           `gorm:"type:varchar(10);not null;default:USD" json:"currency"`
	TotalHours    decimal.Decimal  `gorm:"type:numeric(14,2)" json:"total_hours"`
	TotalCost     decimal.Decimal  `gorm:"type:numeric(14,2)" json:"total_cost"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (e *Estimation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
