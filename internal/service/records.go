package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"projector/internal/repository"
	"projector/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListQuery is one page of records narrowed by query string filters. Keys a record kind does not
// filter on are ignored.
type ListQuery struct {
	Page    pagination.Params
	Filters map[string]string
}

// RecordService is the CRUD surface shared by the project record kinds
type RecordService[T any, C any, U any] interface {
	List(ctx context.Context, q ListQuery) ([]T, int64, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, actor uuid.UUID, req C) (*T, error)
	Update(ctx context.Context, id string, req U) (*T, error)
	Delete(ctx context.Context, id string) error
}

// recordKind describes how requests become records of one kind
type recordKind[T any, C any, U any] struct {
	name     string
	filters  filterSpec
	required []string // filters every list must carry
	id       func(rec *T) uuid.UUID
	build    func(ctx context.Context, actor uuid.UUID, req C) (*T, error)
	apply    func(ctx context.Context, rec *T, req U) error
}

type recordService[T any, C any, U any] struct {
	repo repository.RecordRepository[T]
	kind recordKind[T, C, U]
}

func newRecordService[T any, C any, U any](repo repository.RecordRepository[T], kind recordKind[T, C, U]) RecordService[T, C, U] {
	return &recordService[T, C, U]{repo: repo, kind: kind}
}

func (s *recordService[T, C, U]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	for _, key := range s.kind.required {
		if q.Filters[key] == "" {
			return nil, 0, validationError("%s is required", key)
		}
	}

	filter, err := s.kind.filters.build(q.Filters)
	if err != nil {
		return nil, 0, err
	}

	recs, total, err := s.repo.List(ctx, filter, q.Page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %ss: %w", s.kind.name, err)
	}
	return recs, total, nil
}

func (s *recordService[T, C, U]) Get(ctx context.Context, id string) (*T, error) {
	recID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("invalid %s id", s.kind.name)
	}
	return s.find(ctx, recID)
}

func (s *recordService[T, C, U]) Create(ctx context.Context, actor uuid.UUID, req C) (*T, error) {
	rec, err := s.kind.build(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, s.saveError("create", err)
	}
	return s.find(ctx, s.kind.id(rec))
}

func (s *recordService[T, C, U]) Update(ctx context.Context, id string, req U) (*T, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.kind.apply(ctx, rec, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, s.saveError("update", err)
	}
	return s.find(ctx, s.kind.id(rec))
}

func (s *recordService[T, C, U]) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.kind.id(rec)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.kind.name, err)
	}
	return nil
}

func (s *recordService[T, C, U]) find(ctx context.Context, id uuid.UUID) (*T, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %w", s.kind.name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", s.kind.name, err)
	}
	return rec, nil
}

func (s *recordService[T, C, U]) saveError(op string, err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return validationError("referenced record does not exist")
	}
	return fmt.Errorf("failed to %s %s: %w", op, s.kind.name, err)
}

// filterSpec maps a filterable column to whether its value is a UUID
type filterSpec map[string]bool

func (f filterSpec) build(values map[string]string) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for col, isID := range f {
		v := values[col]
		if v == "" {
			continue
		}
		if !isID {
			out[col] = v
			continue
		}
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, validationError("invalid %s", col)
		}
		out[col] = id
	}
	return out, nil
}

func parseID(field, v string) (uuid.UUID, error) {
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, validationError("invalid %s", field)
	}
	return id, nil
}

// parseOptionalID treats an empty value as no reference
func parseOptionalID(field, v string) (*uuid.UUID, error) {
	if v == "" {
		return nil, nil
	}
	id, err := parseID(field, v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// setOptionalID applies a partial update of a nullable reference; "" clears it
func setOptionalID(dst **uuid.UUID, field string, v *string) error {
	if v == nil {
		return nil
	}
	id, err := parseOptionalID(field, *v)
	if err != nil {
		return err
	}
	*dst = id
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setTime(dst **time.Time, v *time.Time) {
	if v != nil {
		*dst = v
	}
}

// oneOf accepts an empty value as def
func oneOf(field, v, def string, allowed []string) (string, error) {
	if v == "" {
		return def, nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", validationError("invalid %s %q", field, v)
}

// RecordServices groups the services of every project record kind
type RecordServices struct {
	Clients      ClientService
	Projects     ProjectService
	Requirements RequirementService
	Quotations   QuotationService
	Tasks        TaskService
	Bugs         BugService
	Documents    DocumentService
	Credentials  CredentialService
}

func NewRecordServices(db *gorm.DB, estimations repository.EstimationRepository) RecordServices {
	return RecordServices{
		Clients:      NewClientService(repository.NewClientRepository(db)),
		Projects:     NewProjectService(repository.NewProjectRepository(db)),
		Requirements: NewRequirementService(repository.NewRequirementRepository(db)),
		Quotations:   NewQuotationService(repository.NewQuotationRepository(db), estimations),
		Tasks:        NewTaskService(repository.NewTaskRepository(db)),
		Bugs:         NewBugService(repository.NewBugRepository(db)),
		Documents:    NewDocumentService(repository.NewDocumentRepository(db)),
		Credentials:  NewCredentialService(repository.NewCredentialRepository(db)),
	}
}
