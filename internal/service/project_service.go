package service

import (
	"context"
	"strings"
	"time"

	"projector/internal/model"
	"projector/internal/repository"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ClientID    string     `json:"client_id" binding:"omitempty,uuid"`
	ManagerID   string     `json:"manager_id" binding:"omitempty,uuid"`
	Team        []string   `json:"team" binding:"dive,uuid"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ClientID    *string    `json:"client_id"`
	ManagerID   *string    `json:"manager_id"`
	Team        []string   `json:"team" binding:"omitempty,dive,uuid"` // Replaces the team when present
}

type ProjectService = RecordService[model.Project, CreateProjectRequest, UpdateProjectRequest]

func NewProjectService(repo repository.RecordRepository[model.Project]) ProjectService {
	return newRecordService(repo, recordKind[model.Project, CreateProjectRequest, UpdateProjectRequest]{
		name:    "project",
		filters: filterSpec{"status": false, "client_id": true, "manager_id": true},
		id:      func(p *model.Project) uuid.UUID { return p.ID },
		build: func(_ context.Context, _ uuid.UUID, req CreateProjectRequest) (*model.Project, error) {
			p := &model.Project{
				Name:        strings.TrimSpace(req.Name),
				Description: req.Description,
				StartDate:   req.StartDate,
				EndDate:     req.EndDate,
			}
			if p.Name == "" {
				return nil, validationError("project name is required")
			}

			var err error
			if p.Status, err = oneOf("status", req.Status, model.ProjectPlanning, model.ProjectStatuses); err != nil {
				return nil, err
			}
			if p.ClientID, err = parseOptionalID("client_id", req.ClientID); err != nil {
				return nil, err
			}
			if p.ManagerID, err = parseOptionalID("manager_id", req.ManagerID); err != nil {
				return nil, err
			}
			if p.Team, err = parseTeam(req.Team); err != nil {
				return nil, err
			}
			return p, checkSchedule(p)
		},
		apply: func(_ context.Context, p *model.Project, req UpdateProjectRequest) error {
			if req.Name != nil {
				name := strings.TrimSpace(*req.Name)
				if name == "" {
					return validationError("project name is required")
				}
				p.Name = name
			}
			setString(&p.Description, req.Description)
			setTime(&p.StartDate, req.StartDate)
			setTime(&p.EndDate, req.EndDate)

			if req.Status != nil {
				status, err := oneOf("status", *req.Status, p.Status, model.ProjectStatuses)
				if err != nil {
					return err
				}
				p.Status = status
			}
			if err := setOptionalID(&p.ClientID, "client_id", req.ClientID); err != nil {
				return err
			}
			if err := setOptionalID(&p.ManagerID, "manager_id", req.ManagerID); err != nil {
				return err
			}
			if req.Team != nil {
				team, err := parseTeam(req.Team)
				if err != nil {
					return err
				}
				p.Team = team
			}
			return checkSchedule(p)
		},
	})
}

func checkSchedule(p *model.Project) error {
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return validationError("end_date must not be before start_date")
	}
	return nil
}

// parseTeam drops duplicate members
func parseTeam(ids []string) ([]uuid.UUID, error) {
	team := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, v := range ids {
		id, err := parseID("team member id", v)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			team = append(team, id)
		}
	}
	return team, nil
}

type CreateTaskRequest struct {
	ProjectID   string     `json:"project_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  string     `json:"assignee_id" binding:"omitempty,uuid"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assignee_id"`
}

type TaskService = RecordService[model.Task, CreateTaskRequest, UpdateTaskRequest]

// NewTaskService lists tasks one project at a time
func NewTaskService(repo repository.RecordRepository[model.Task]) TaskService {
	return newRecordService(repo, recordKind[model.Task, CreateTaskRequest, UpdateTaskRequest]{
		name:     "task",
		filters:  filterSpec{"project_id": true, "status": false, "priority": false, "assignee_id": true},
		required: []string{"project_id"},
		id:       func(t *model.Task) uuid.UUID { return t.ID },
		build: func(_ context.Context, _ uuid.UUID, req CreateTaskRequest) (*model.Task, error) {
			t := &model.Task{Title: req.Title, Description: req.Description, DueDate: req.DueDate}

			var err error
			if t.ProjectID, err = parseID("project_id", req.ProjectID); err != nil {
				return nil, err
			}
			if t.Status, err = oneOf("status", req.Status, model.TaskTodo, model.TaskStatuses); err != nil {
				return nil, err
			}
			if t.Priority, err = oneOf("priority", req.Priority, model.PriorityMedium, model.TaskPriorities); err != nil {
				return nil, err
			}
			if t.AssigneeID, err = parseOptionalID("assignee_id", req.AssigneeID); err != nil {
				return nil, err
			}
			return t, nil
		},
		apply: func(_ context.Context, t *model.Task, req UpdateTaskRequest) error {
			setString(&t.Title, req.Title)
			setString(&t.Description, req.Description)
			setTime(&t.DueDate, req.DueDate)

			var err error
			if req.Status != nil {
				if t.Status, err = oneOf("status", *req.Status, t.Status, model.TaskStatuses); err != nil {
					return err
				}
			}
			if req.Priority != nil {
				if t.Priority, err = oneOf("priority", *req.Priority, t.Priority, model.TaskPriorities); err != nil {
					return err
				}
			}
			return setOptionalID(&t.AssigneeID, "assignee_id", req.AssigneeID)
		},
	})
}

type CreateBugRequest struct {
	ProjectID         string `json:"project_id" binding:"required,uuid"`
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	Severity          string `json:"severity"`
	Status            string `json:"status"`
	ReproductionSteps string `json:"reproduction_steps"`
	AssigneeID        string `json:"assignee_id" binding:"omitempty,uuid"`
}

type UpdateBugRequest struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	Severity          *string `json:"severity"`
	Status            *string `json:"status"`
	ReproductionSteps *string `json:"reproduction_steps"`
	AssigneeID        *string `json:"assignee_id"`
}

type BugService = RecordService[model.Bug, CreateBugRequest, UpdateBugRequest]

// NewBugService records the creating user as the reporter
func NewBugService(repo repository.RecordRepository[model.Bug]) BugService {
	return newRecordService(repo, recordKind[model.Bug, CreateBugRequest, UpdateBugRequest]{
		name:     "bug",
		filters:  filterSpec{"project_id": true, "status": false, "severity": false, "assignee_id": true},
		required: []string{"project_id"},
		id:       func(b *model.Bug) uuid.UUID { return b.ID },
		build: func(_ context.Context, actor uuid.UUID, req CreateBugRequest) (*model.Bug, error) {
			b := &model.Bug{
				Title:             req.Title,
				Description:       req.Description,
				ReproductionSteps: req.ReproductionSteps,
			}
			if actor != uuid.Nil {
				b.ReporterID = &actor
			}

			var err error
			if b.ProjectID, err = parseID("project_id", req.ProjectID); err != nil {
				return nil, err
			}
			if b.Severity, err = oneOf("severity", req.Severity, model.SeverityMedium, model.BugSeverities); err != nil {
				return nil, err
			}
			if b.Status, err = oneOf("status", req.Status, model.BugOpen, model.BugStatuses); err != nil {
				return nil, err
			}
			if b.AssigneeID, err = parseOptionalID("assignee_id", req.AssigneeID); err != nil {
				return nil, err
			}
			return b, nil
		},
		apply: func(_ context.Context, b *model.Bug, req UpdateBugRequest) error {
			setString(&b.Title, req.Title)
			setString(&b.Description, req.Description)
			setString(&b.ReproductionSteps, req.ReproductionSteps)

			var err error
			if req.Severity != nil {
				if b.Severity, err = oneOf("severity", *req.Severity, b.Severity, model.BugSeverities); err != nil {
					return err
				}
			}
			if req.Status != nil {
				if b.Status, err = oneOf("status", *req.Status, b.Status, model.BugStatuses); err != nil {
					return err
				}
			}
			return setOptionalID(&b.AssigneeID, "assignee_id", req.AssigneeID)
		},
	})
}
