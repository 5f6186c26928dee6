package repository

import (
	"context"

	"projector/internal/model"
	"projector/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditFilter narrows the role history. Zero fields match everything.
type AuditFilter struct {
	Action   string
	EntityID string
	UserID   *uuid.UUID
}

func (f AuditFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Action != "" {
		db = db.Where("action = ?", f.Action)
	}
	if f.EntityID != "" {
		db = db.Where("entity_id = ?", f.EntityID)
	}
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	return db
}

// AuditRepository appends and reads role management history. Entries are never updated.
type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditFilter, page pagination.Params) ([]model.AuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Log joins the caller's transaction, so an entry is only kept when the change it describes commits
func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

// List returns one page of matching entries, newest first, with the acting user loaded
func (r *auditRepository) List(ctx context.Context, filter AuditFilter, page pagination.Params) ([]model.AuditLog, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.AuditLog{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.AuditLog
	err := GetDB(ctx, r.db).
		Scopes(filter.scope, page.Scope()).
		Preload("User").
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
