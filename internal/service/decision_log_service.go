package service

import (
	"context"
	"errors"
	"fmt"

	"projector/internal/model"
	"projector/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDecisionLogNotFound = fmt.Errorf("decision log %w", ErrNotFound)

type CreateDecisionLogRequest struct {
	ProjectID string `json:"project_id" binding:"required,uuid"`
	Title     string `json:"title" binding:"required"`
	Status    string `json:"status" binding:"omitempty,oneof=Proposed Approved Rejected"`
	Context   string `json:"context" binding:"required"`
	Decision  string `json:"decision" binding:"required"`
	Rationale string `json:"rationale" binding:"required"`
}

// UpdateDecisionLogRequest changes only the non-empty fields
type UpdateDecisionLogRequest struct {
	Title     string `json:"title"`
	Status    string `json:"status" binding:"omitempty,oneof=Proposed Approved Rejected"`
	Context   string `json:"context"`
	Decision  string `json:"decision"`
	Rationale string `json:"rationale"`
}

type DecisionLogService interface {
	List(ctx context.Context, projectID string) ([]model.DecisionLog, error)
	Get(ctx context.Context, id string) (*model.DecisionLog, error)
	Create(ctx context.Context, req CreateDecisionLogRequest) (*model.DecisionLog, error)
	Update(ctx context.Context, id string, req UpdateDecisionLogRequest) (*model.DecisionLog, error)
	Delete(ctx context.Context, id string) error
}

type decisionLogService struct {
	repo repository.DecisionLogRepository
}

func NewDecisionLogService(repo repository.DecisionLogRepository) DecisionLogService {
	return &decisionLogService{repo: repo}
}

func (s *decisionLogService) List(ctx context.Context, projectID string) ([]model.DecisionLog, error) {
	var filter *uuid.UUID
	if projectID != "" {
		id, err := uuid.Parse(projectID)
		if err != nil {
			return nil, validationError("invalid project_id")
		}
		filter = &id
	}

	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch decision logs: %w", err)
	}
	return logs, nil
}

func (s *decisionLogService) Get(ctx context.Context, id string) (*model.DecisionLog, error) {
	logID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("invalid decision log id")
	}

	log, err := s.repo.FindByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDecisionLogNotFound
		}
		return nil, fmt.Errorf("failed to fetch decision log: %w", err)
	}
	return log, nil
}

func (s *decisionLogService) Create(ctx context.Context, req CreateDecisionLogRequest) (*model.DecisionLog, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, validationError("invalid project_id")
	}

	status := req.Status
	if status == "" {
		status = model.DecisionStatusProposed
	}

	log := &model.DecisionLog{
		ProjectID: projectID,
		Title:     req.Title,
		Status:    status,
		Context:   req.Context,
		Decision:  req.Decision,
		Rationale: req.Rationale,
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to create decision log: %w", err)
	}
	return log, nil
}

func (s *decisionLogService) Update(ctx context.Context, id string, req UpdateDecisionLogRequest) (*model.DecisionLog, error) {
	log, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		log.Title = req.Title
	}
	if req.Status != "" {
		log.Status = req.Status
	}
	if req.Context != "" {
		log.Context = req.Context
	}
	if req.Decision != "" {
		log.Decision = req.Decision
	}
	if req.Rationale != "" {
		log.Rationale = req.Rationale
	}

	if err := s.repo.Update(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to update decision log: %w", err)
	}
	return log, nil
}

func (s *decisionLogService) Delete(ctx context.Context, id string) error {
	log, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, log.ID)
}
