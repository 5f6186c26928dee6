package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project statuses
const (
	ProjectPlanning  = "Planning"
	ProjectActive    = "Active"
	ProjectOnHold    = "On Hold"
	ProjectCompleted = "Completed"
)

var ProjectStatuses = []string{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted}

// Project groups tasks, bugs, documents, credentials and decisions
type Project struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Status      string      `gorm:"type:varchar(20);not null" json:"status"`
	StartDate   *time.Time  `json:"start_date"`
	EndDate     *time.Time  `json:"end_date"`
	ClientID    *uuid.UUID  `gorm:"type:uuid;index" json:"client_id"`
	Client      *Client     `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
	ManagerID   *uuid.UUID  `gorm:"type:uuid;index" json:"manager_id"`
	Manager     *User       `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL" json:"manager,omitempty"`
	Team        []uuid.UUID `gorm:"type:jsonb;serializer:json" json:"team"` // Member user IDs
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Task statuses and priorities
const (
	TaskTodo       = "To Do"
	TaskInProgress = "In Progress"
	TaskDone       = "Done"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

var (
	TaskStatuses   = []string{TaskTodo, TaskInProgress, TaskDone}
	TaskPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"type:varchar(20);not null" json:"status"`
	Priority    string     `gorm:"type:varchar(20);not null" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`
	Assignee    *User      `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Bug severities and statuses
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"

	BugOpen       = "Open"
	BugInProgress = "In Progress"
	BugResolved   = "Resolved"
	BugClosed     = "Closed"
)

var (
	BugSeverities = []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	BugStatuses   = []string{BugOpen, BugInProgress, BugResolved, BugClosed}
)

type Bug struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project           *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Title             string     `gorm:"type:varchar(255);not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Severity          string     `gorm:"type:varchar(20);not null" json:"severity"`
	Status            string     `gorm:"type:varchar(20);not null" json:"status"`
	ReproductionSteps string     `gorm:"type:text" json:"reproduction_steps"`
	AssigneeID        *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id"`
	Assignee          *User      `gorm:"foreignKey:AssigneeID;constraint:OnDelete:SET NULL" json:"assignee,omitempty"`
	ReporterID        *uuid.UUID `gorm:"type:uuid;index" json:"reporter_id"` // Nil once the reporter is removed
	Reporter          *User      `gorm:"foreignKey:ReporterID;constraint:OnDelete:SET NULL" json:"reporter,omitempty"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (b *Bug) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
