package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// CreateTaskInput carries the optional task fields; zero values get defaults.
type CreateTaskInput struct {
	Name        string
	Description string
	Tags        []string
	Status      string
	Priority    string
	Due         *time.Time
	ProjectID   *string
}

// TaskPatch carries a partial update. A nil field was absent from the payload
// and is left untouched; a non-nil field overwrites, even with an empty value.
type TaskPatch struct {
	Name        *string
	Description *string
	Tags        *[]string
	Status      *string
	Priority    *string
	Due         *time.Time
}

// TaskService handles ownership-scoped task operations.
type TaskService interface {
	List(ctx context.Context, ownerID, search string) ([]model.Task, error)
	Create(ctx context.Context, ownerID string, in CreateTaskInput) (*model.Task, error)
	Patch(ctx context.Context, ownerID, id string, patch TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type taskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

func (s *taskService) List(ctx context.Context, ownerID, search string) ([]model.Task, error) {
	return s.taskRepo.ListByOwner(ctx, ownerID, search)
}

func (s *taskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*model.Task, error) {
	if in.Name == "" {
		return nil, apperrors.ErrTaskNameRequired
	}

	// An empty projectId means "no project". A non-empty one is validated by
	// the repository inside the insert itself, so the referenced project
	// provably exists, owned by the same user, at the moment the task lands.
	if in.ProjectID != nil && *in.ProjectID == "" {
		in.ProjectID = nil
	}

	now := time.Now()
	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		Description: in.Description,
		Tags:        in.Tags,
		Status:      in.Status,
		Priority:    in.Priority,
		Due:         now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = model.TaskPriorityMedium
	}
	if in.Due != nil {
		task.Due = *in.Due
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Patch looks the task up by id alone: a missing task is NotFound while an
// existing task owned by someone else is Forbidden. Present fields overwrite
// unconditionally; UpdatedAt is refreshed even for an empty patch.
func (s *taskService) Patch(ctx context.Context, ownerID, id string, patch TaskPatch) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != ownerID {
		return nil, apperrors.ErrTaskForbidden
	}

	if patch.Name != nil {
		task.Name = *patch.Name
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Tags != nil {
		task.Tags = *patch.Tags
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Due != nil {
		task.Due = *patch.Due
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id string) error {
	return s.taskRepo.DeleteByOwner(ctx, ownerID, id)
}
