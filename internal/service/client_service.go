package service

import (
	"context"
	"strings"

	"projector/internal/model"
	"projector/internal/repository"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Company *string `json:"company"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type ClientService = RecordService[model.Client, CreateClientRequest, UpdateClientRequest]

func NewClientService(repo repository.RecordRepository[model.Client]) ClientService {
	return newRecordService(repo, recordKind[model.Client, CreateClientRequest, UpdateClientRequest]{
		name:    "client",
		filters: filterSpec{"company": false, "email": false},
		id:      func(c *model.Client) uuid.UUID { return c.ID },
		build: func(_ context.Context, _ uuid.UUID, req CreateClientRequest) (*model.Client, error) {
			c := &model.Client{
				Name:    strings.TrimSpace(req.Name),
				Company: req.Company,
				Email:   req.Email,
				Phone:   req.Phone,
				Address: req.Address,
			}
			if c.Name == "" {
				return nil, validationError("client name is required")
			}
			return c, nil
		},
		apply: func(_ context.Context, c *model.Client, req UpdateClientRequest) error {
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return validationError("client name is required")
				}
				c.Name = name
			}
			setString(&c.Company, req.Company)
			setString(&c.Email, req.Email)
			setString(&c.Phone, req.Phone)
			setString(&c.Address, req.Address)
			return nil
		},
	})
}
