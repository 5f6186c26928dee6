package service

import (
	"context"

	"projector/internal/model"
	"projector/internal/repository"

	"github.com/google/uuid"
)

// CreateDocumentRequest registers an already stored file. FilePath is opaque to the API.
type CreateDocumentRequest struct {
	ProjectID    string `json:"project_id" binding:"required,uuid"`
	Title        string `json:"title" binding:"required"`
	FilePath     string `json:"file_path" binding:"required"`
	OriginalName string `json:"original_name" binding:"required"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size" binding:"min=0"`
}

type UpdateDocumentRequest struct {
	Title *string `json:"title"`
}

type DocumentService = RecordService[model.Document, CreateDocumentRequest, UpdateDocumentRequest]

func NewDocumentService(repo repository.RecordRepository[model.Document]) DocumentService {
	return newRecordService(repo, recordKind[model.Document, CreateDocumentRequest, UpdateDocumentRequest]{
		name:     "document",
		filters:  filterSpec{"project_id": true, "mime_type": false},
		required: []string{"project_id"},
		id:       func(d *model.Document) uuid.UUID { return d.ID },
		build: func(_ context.Context, actor uuid.UUID, req CreateDocumentRequest) (*model.Document, error) {
			projectID, err := parseID("project_id", req.ProjectID)
			if err != nil {
				return nil, err
			}
			if req.Size < 0 {
				return nil, validationError("size must not be negative")
			}
			d := &model.Document{
				ProjectID:    projectID,
				Title:        req.Title,
				FilePath:     req.FilePath,
				OriginalName: req.OriginalName,
				MimeType:     req.MimeType,
				Size:         req.Size,
			}
			if actor != uuid.Nil {
				d.UploaderID = &actor
			}
			return d, nil
		},
		apply: func(_ context.Context, d *model.Document, req UpdateDocumentRequest) error {
			if req.Title != nil && *req.Title == "" {
				return validationError("document title is required")
			}
			setString(&d.Title, req.Title)
			return nil
		},
	})
}

type CreateCredentialRequest struct {
	ProjectID   string `json:"project_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"omitempty,url"`
	Username    string `json:"username"`
	Password    string `json:"password" binding:"required"`
	Description string `json:"description"`
}

type UpdateCredentialRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url" binding:"omitempty,url"`
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	Description *string `json:"description"`
}

type CredentialService = RecordService[model.Credential, CreateCredentialRequest, UpdateCredentialRequest]

func NewCredentialService(repo repository.RecordRepository[model.Credential]) CredentialService {
	return newRecordService(repo, recordKind[model.Credential, CreateCredentialRequest, UpdateCredentialRequest]{
		name:     "credential",
		filters:  filterSpec{"project_id": true},
		required: []string{"project_id"},
		id:       func(c *model.Credential) uuid.UUID { return c.ID },
		build: func(_ context.Context, _ uuid.UUID, req CreateCredentialRequest) (*model.Credential, error) {
			projectID, err := parseID("project_id", req.ProjectID)
			if err != nil {
				return nil, err
			}
			return &model.Credential{
				ProjectID:   projectID,
				Title:       req.Title,
				URL:         req.URL,
				Username:    req.Username,
				Password:    req.Password,
				Description: req.Description,
			}, nil
		},
		apply: func(_ context.Context, c *model.Credential, req UpdateCredentialRequest) error {
			if req.Password != nil && *req.Password == "" {
				return validationError("password must not be empty")
			}
			setString(&c.Title, req.Title)
			setString(&c.URL, req.URL)
			setString(&c.Username, req.Username)
			setString(&c.Password, req.Password)
			setString(&c.Description, req.Description)
			return nil
		},
	})
}
