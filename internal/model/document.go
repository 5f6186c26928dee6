package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is the metadata of a file attached to a project. The bytes live wherever FilePath points.
type Document struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	FilePath     string     `gorm:"type:text;not null" json:"file_path"`
	OriginalName string     `gorm:"type:varchar(255);not null" json:"original_name"`
	MimeType     string     `gorm:"type:varchar(100)" json:"mime_type"`
	Size         int64      `json:"size"`
	UploaderID   *uuid.UUID `gorm:"type:uuid;index" json:"uploader_id"`
	Uploader     *User      `gorm:"foreignKey:UploaderID;constraint:OnDelete:SET NULL" json:"uploader,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Credential is a shared login for a project environment. Access is governed by the
// credentials resource key alone.
type Credential struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	URL         string    `gorm:"type:text" json:"url"`
	Username    string    `gorm:"type:varchar(255)" json:"username"`
	Password    string    `gorm:"type:text;not null" json:"password"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
