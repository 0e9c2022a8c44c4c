package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

// ProjectService handles ownership-scoped project operations.
type ProjectService interface {
	List(ctx context.Context, ownerID, search string) ([]model.Project, error)
	Create(ctx context.Context, ownerID, name, description string) (*model.Project, error)
	Update(ctx context.Context, ownerID, id, name, description string) (*model.Project, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

func (s *projectService) List(ctx context.Context, ownerID, search string) ([]model.Project, error) {
	return s.projectRepo.ListByOwner(ctx, ownerID, search)
}

func (s *projectService) Create(ctx context.Context, ownerID, name, description string) (*model.Project, error) {
	if name == "" {
		return nil, apperrors.ErrProjectNameRequired
	}

	now := time.Now()
	project := &model.Project{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update applies name and description only when non-empty, so an empty value
// leaves the stored field untouched (a description cannot be cleared this
// way). UpdatedAt is refreshed even for a no-op payload.
func (s *projectService) Update(ctx context.Context, ownerID, id, name, description string) (*model.Project, error) {
	project, err := s.projectRepo.FindByIDAndOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		project.Name = name
	}
	if description != "" {
		project.Description = description
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, ownerID, id string) error {
	return s.projectRepo.DeleteCascade(ctx, ownerID, id)
}
