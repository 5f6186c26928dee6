package repository

import (
	"context"

	"projector/internal/model"
	"projector/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRepository stores one kind of project record. Writes never touch associations; reads
// load the associations named at construction.
type RecordRepository[T any] interface {
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	// List matches filter by column equality and returns one page, newest first
	List(ctx context.Context, filter map[string]interface{}, page pagination.Params) ([]T, int64, error)
}

type recordRepository[T any] struct {
	db       *gorm.DB
	preloads []string
}

func NewRecordRepository[T any](db *gorm.DB, preloads ...string) RecordRepository[T] {
	return &recordRepository[T]{db: db, preloads: preloads}
}

func NewClientRepository(db *gorm.DB) RecordRepository[model.Client] {
	return NewRecordRepository[model.Client](db)
}

func NewProjectRepository(db *gorm.DB) RecordRepository[model.Project] {
	return NewRecordRepository[model.Project](db, "Client", "Manager")
}

func NewRequirementRepository(db *gorm.DB) RecordRepository[model.Requirement] {
	return NewRecordRepository[model.Requirement](db, "Client")
}

func NewQuotationRepository(db *gorm.DB) RecordRepository[model.Quotation] {
	return NewRecordRepository[model.Quotation](db, "Client", "Estimation")
}

func NewTaskRepository(db *gorm.DB) RecordRepository[model.Task] {
	return NewRecordRepository[model.Task](db, "Assignee")
}

func NewBugRepository(db *gorm.DB) RecordRepository[model.Bug] {
	return NewRecordRepository[model.Bug](db, "Assignee", "Reporter")
}

func NewDocumentRepository(db *gorm.DB) RecordRepository[model.Document] {
	return NewRecordRepository[model.Document](db, "Uploader")
}

func NewCredentialRepository(db *gorm.DB) RecordRepository[model.Credential] {
	return NewRecordRepository[model.Credential](db)
}

func (r *recordRepository[T]) Create(ctx context.Context, rec *T) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(rec).Error
}

func (r *recordRepository[T]) Update(ctx context.Context, rec *T) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(rec).Error
}

func (r *recordRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(new(T)).Error
}

func (r *recordRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var rec T
	if err := GetDB(ctx, r.db).Scopes(r.withAssociations).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepository[T]) List(ctx context.Context, filter map[string]interface{}, page pagination.Params) ([]T, int64, error) {
	matching := func(db *gorm.DB) *gorm.DB {
		if len(filter) == 0 {
			return db
		}
		return db.Where(filter)
	}

	var total int64
	if err := GetDB(ctx, r.db).Model(new(T)).Scopes(matching).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []T
	err := GetDB(ctx, r.db).
		Scopes(matching, r.withAssociations, page.Scope()).
		Order("created_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

func (r *recordRepository[T]) withAssociations(db *gorm.DB) *gorm.DB {
	for _, name := range r.preloads {
		db = db.Preload(name)
	}
	return db
}
