package repository

import (
	"context"

	"projector/internal/model"
	"projector/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EstimationRepository interface {
	Create(ctx context.Context, estimation *model.Estimation) error
	Update(ctx context.Context, estimation *model.Estimation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Estimation, error)
	List(ctx context.Context, clientID *uuid.UUID, page pagination.Params) ([]model.Estimation, int64, error)
}

type estimationRepository struct {
	db *gorm.DB
}

func NewEstimationRepository(db *gorm.DB) EstimationRepository {
	return &estimationRepository{db: db}
}

func (r *estimationRepository) Create(ctx context.Context, estimation *model.Estimation) error {
	return GetDB(ctx, r.db).Create(estimation).Error
}

func (r *estimationRepository) Update(ctx context.Context, estimation *model.Estimation) error {
	return GetDB(ctx, r.db).Save(estimation).Error
}

func (r *estimationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Estimation{}).Error
}

func (r *estimationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Estimation, error) {
	var estimation model.Estimation
	if err := GetDB(ctx, r.db).First(&estimation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &estimation, nil
}

func (r *estimationRepository) List(ctx context.Context, clientID *uuid.UUID, page pagination.Params) ([]model.Estimation, int64, error) {
	var estimations []model.Estimation
	var total int64

	byClient := func(db *gorm.DB) *gorm.DB {
		if clientID != nil {
			return db.Where("client_id = ?", *clientID)
		}
		return db
	}

	if err := GetDB(ctx, r.db).Model(&model.Estimation{}).Scopes(byClient).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := GetDB(ctx, r.db).Scopes(byClient, page.Scope()).Order("created_at desc").Find(&estimations).Error; err != nil {
		return nil, 0, err
	}

	return estimations, total, nil
}
