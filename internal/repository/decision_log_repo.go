package repository

import (
	"context"

	"projector/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DecisionLogRepository interface {
	Create(ctx context.Context, log *model.DecisionLog) error
	Update(ctx context.Context, log *model.DecisionLog) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DecisionLog, error)
	List(ctx context.Context, projectID *uuid.UUID) ([]model.DecisionLog, error)
}

type decisionLogRepository struct {
	db *gorm.DB
}

func NewDecisionLogRepository(db *gorm.DB) DecisionLogRepository {
	return &decisionLogRepository{db: db}
}

func (r *decisionLogRepository) Create(ctx context.Context, log *model.DecisionLog) error {
	return GetDB(ctx, r.db).Create(log).Error
}

func (r *decisionLogRepository) Update(ctx context.Context, log *model.DecisionLog) error {
	return GetDB(ctx, r.db).Save(log).Error
}

func (r *decisionLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.DecisionLog{}).Error
}

func (r *decisionLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DecisionLog, error) {
	var log model.DecisionLog
	if err := GetDB(ctx, r.db).First(&log, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// List returns decision logs newest first, optionally restricted to one project
func (r *decisionLogRepository) List(ctx context.Context, projectID *uuid.UUID) ([]model.DecisionLog, error) {
	var logs []model.DecisionLog
	query := GetDB(ctx, r.db).Model(&model.DecisionLog{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if err := query.Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
