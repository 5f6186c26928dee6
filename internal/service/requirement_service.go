package service

import (
	"context"
	"errors"
	"time"

	"projector/internal/model"
	"projector/internal/repository"

	"github.com/google/uuid"
)

type CreateRequirementRequest struct {
	ClientID string `json:"client_id" binding:"required,uuid"`
	Title    string `json:"title" binding:"required"`
	Details  string `json:"details" binding:"required"`
	Status   string `json:"status"`
}

type UpdateRequirementRequest struct {
	Title   *string `json:"title"`
	Details *string `json:"details"`
	Status  *string `json:"status"`
}

type RequirementService = RecordService[model.Requirement, CreateRequirementRequest, UpdateRequirementRequest]

func NewRequirementService(repo repository.RecordRepository[model.Requirement]) RequirementService {
	return newRecordService(repo, recordKind[model.Requirement, CreateRequirementRequest, UpdateRequirementRequest]{
		name:    "requirement",
		filters: filterSpec{"client_id": true, "status": false},
		id:      func(r *model.Requirement) uuid.UUID { return r.ID },
		build: func(_ context.Context, _ uuid.UUID, req CreateRequirementRequest) (*model.Requirement, error) {
			r := &model.Requirement{Title: req.Title, Details: req.Details}

			var err error
			if r.ClientID, err = parseID("client_id", req.ClientID); err != nil {
				return nil, err
			}
			if r.Status, err = oneOf("status", req.Status, model.RequirementDraft, model.RequirementStatuses); err != nil {
				return nil, err
			}
			return r, nil
		},
		apply: func(_ context.Context, r *model.Requirement, req UpdateRequirementRequest) error {
			setString(&r.Title, req.Title)
			setString(&r.Details, req.Details)
			if req.Status != nil {
				status, err := oneOf("status", *req.Status, r.Status, model.RequirementStatuses)
				if err != nil {
					return err
				}
				r.Status = status
			}
			return nil
		},
	})
}

type CreateQuotationRequest struct {
	EstimationID string    `json:"estimation_id" binding:"required,uuid"`
	Status       string    `json:"status"`
	ValidUntil   time.Time `json:"valid_until" binding:"required"`
}

type UpdateQuotationRequest struct {
	Status     *string    `json:"status"`
	ValidUntil *time.Time `json:"valid_until"`
}

type QuotationService = RecordService[model.Quotation, CreateQuotationRequest, UpdateQuotationRequest]

// NewQuotationService issues quotations to the client of the quoted estimation
func NewQuotationService(repo repository.RecordRepository[model.Quotation], estimations repository.EstimationRepository) QuotationService {
	quoted := NewEstimationService(estimations)
	return newRecordService(repo, recordKind[model.Quotation, CreateQuotationRequest, UpdateQuotationRequest]{
		name:    "quotation",
		filters: filterSpec{"estimation_id": true, "client_id": true, "status": false},
		id:      func(q *model.Quotation) uuid.UUID { return q.ID },
		build: func(ctx context.Context, _ uuid.UUID, req CreateQuotationRequest) (*model.Quotation, error) {
			estimation, err := quoted.Get(ctx, req.EstimationID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil, validationError("estimation %s does not exist", req.EstimationID)
				}
				return nil, err
			}
			if req.ValidUntil.IsZero() {
				return nil, validationError("valid_until is required")
			}

			q := &model.Quotation{
				EstimationID: estimation.ID,
				ClientID:     estimation.ClientID,
				ValidUntil:   req.ValidUntil,
			}
			if q.Status, err = oneOf("status", req.Status, model.QuotationDraft, model.QuotationStatuses); err != nil {
				return nil, err
			}
			return q, nil
		},
		apply: func(_ context.Context, q *model.Quotation, req UpdateQuotationRequest) error {
			if req.ValidUntil != nil {
				if req.ValidUntil.IsZero() {
					return validationError("valid_until is required")
				}
				q.ValidUntil = *req.ValidUntil
			}
			if req.Status != nil {
				status, err := oneOf("status", *req.Status, q.Status, model.QuotationStatuses)
				if err != nil {
					return err
				}
				q.Status = status
			}
			return nil
		},
	})
}
