package service

import (
	"context"
	"errors"
	"fmt"

	"projector/internal/model"
	"projector/internal/repository"
	"projector/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrEstimationNotFound = fmt.Errorf("estimation %w", ErrNotFound)

type EstimationItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Role        string          `json:"role"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        decimal.Decimal `json:"rate"`
}

type EstimationRequest struct {
	Title         string                  `json:"title" binding:"required"`
	RequirementID string                  `json:"requirement_id" binding:"required,uuid"`
	ClientID      string                  `json:"client_id" binding:"required,uuid"`
	Currency      string                  `json:"currency"`
	Items         []EstimationItemRequest `json:"items" binding:"dive"`
	IronTriangle  model.IronTriangle      `json:"iron_triangle"`
}

type EstimationService interface {
	List(ctx context.Context, clientID string, page pagination.Params) ([]model.Estimation, int64, error)
	Get(ctx context.Context, id string) (*model.Estimation, error)
	Create(ctx context.Context, req EstimationRequest) (*model.Estimation, error)
	Update(ctx context.Context, id string, req EstimationRequest) (*model.Estimation, error)
	Delete(ctx context.Context, id string) error
}

type estimationService struct {
	repo repository.EstimationRepository
}

func NewEstimationService(repo repository.EstimationRepository) EstimationService {
	return &estimationService{repo: repo}
}

func (s *estimationService) List(ctx context.Context, clientID string, page pagination.Params) ([]model.Estimation, int64, error) {
	var filter *uuid.UUID
	if clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			return nil, 0, validationError("invalid client_id")
		}
		filter = &id
	}

	return s.repo.List(ctx, filter, page)
}

func (s *estimationService) Get(ctx context.Context, id string) (*model.Estimation, error) {
	estimationID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("invalid estimation id")
	}

	estimation, err := s.repo.FindByID(ctx, estimationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstimationNotFound
		}
		return nil, fmt.Errorf("failed to fetch estimation: %w", err)
	}
	return estimation, nil
}

func (s *estimationService) Create(ctx context.Context, req EstimationRequest) (*model.Estimation, error) {
	estimation := &model.Estimation{}
	if err := applyEstimation(estimation, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, estimation); err != nil {
		return nil, fmt.Errorf("failed to create estimation: %w", err)
	}
	return estimation, nil
}

func (s *estimationService) Update(ctx context.Context, id string, req EstimationRequest) (*model.Estimation, error) {
	estimation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyEstimation(estimation, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, estimation); err != nil {
		return nil, fmt.Errorf("failed to update estimation: %w", err)
	}
	return estimation, nil
}

func (s *estimationService) Delete(ctx context.Context, id string) error {
	estimation, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, estimation.ID)
}

// applyEstimation copies the request onto e and recomputes every cost and total
func applyEstimation(e *model.Estimation, req EstimationRequest) error {
	requirementID, err := uuid.Parse(req.RequirementID)
	if err != nil {
		return validationError("invalid requirement_id")
	}
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return validationError("invalid client_id")
	}
	if err := ValidateIronTriangle(req.IronTriangle); err != nil {
		return err
	}

	items := make([]model.EstimationItem, 0, len(req.Items))
	for i, it := range req.Items {
		if it.Hours.IsNegative() || it.Rate.IsNegative() {
			return validationError("item %d: hours and rate must not be negative", i)
		}
		role := it.Role
		if role == "" {
			role = model.RoleDeveloper
		}
		items = append(items, model.EstimationItem{
			Description: it.Description,
			Role:        role,
			Hours:       it.Hours,
			Rate:        it.Rate,
			Cost:        it.Hours.Mul(it.Rate),
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	e.Title = req.Title
	e.RequirementID = requirementID
	e.ClientID = clientID
	e.Currency = currency
	e.Items = items
	e.IronTriangle = req.IronTriangle
	e.TotalHours, e.TotalCost = EstimationTotals(items)
	return nil
}

// EstimationTotals sums hours and costs of the items
func EstimationTotals(items []model.EstimationItem) (hours, cost decimal.Decimal) {
	hours, cost = decimal.Zero, decimal.Zero
	for _, it := range items {
		hours = hours.Add(it.Hours)
		cost = cost.Add(it.Cost)
	}
	return hours, cost
}

// ValidateIronTriangle requires two distinct fixed constraints and the third one flexible
func ValidateIronTriangle(t model.IronTriangle) error {
	valid := map[string]bool{
		model.ConstraintScope: true,
		model.ConstraintTime:  true,
		model.ConstraintCost:  true,
	}

	if len(t.Fixed) != 2 {
		return validationError("iron triangle needs exactly two fixed constraints")
	}
	for _, f := range t.Fixed {
		if !valid[f] {
			return validationError("unknown constraint %q", f)
		}
	}
	if t.Fixed[0] == t.Fixed[1] {
		return validationError("fixed constraints must differ")
	}

	delete(valid, t.Fixed[0])
	delete(valid, t.Fixed[1])
	if !valid[t.Flexible] {
		return validationError("flexible constraint must be the one not fixed")
	}
	return nil
}
