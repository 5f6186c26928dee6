package service

import (
	"context"
	"fmt"

	"projector/internal/repository"
	"projector/pkg/pagination"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditQuery filters the role history, e.g. every change of one role through EntityID
type AuditQuery struct {
	Action   string
	EntityID string
	UserID   string
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, q AuditQuery, page pagination.Params) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns role management history, newest first. Entries without a user come from startup jobs.
func (s *auditService) GetAuditLogs(ctx context.Context, q AuditQuery, page pagination.Params) ([]AuditLogResponse, int64, error) {
	filter := repository.AuditFilter{Action: q.Action, EntityID: q.EntityID}
	if q.UserID != "" {
		userID, err := uuid.Parse(q.UserID)
		if err != nil {
			return nil, 0, validationError("invalid user_id")
		}
		filter.UserID = &userID
	}

	logs, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		userName := "System"
		userID := ""
		if l.User != nil {
			userName = l.User.Name
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			UserName:   userName,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return res, total, nil
}
