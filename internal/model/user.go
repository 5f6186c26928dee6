package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a team member. Authorization always resolves through RoleID.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Skills       string     `gorm:"type:text" json:"skills"`
	Availability string     `gorm:"type:varchar(50)" json:"availability"`
	RoleID       *uuid.UUID `gorm:"type:uuid;index" json:"role_id"`
	Role         *Role      `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	// LegacyRole is the free-text role name stored before roles became documents.
	// It is only read by the startup migration and cleared once RoleID is set.
	LegacyRole string    `gorm:"column:role;type:varchar(50)" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the surrogate key
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
