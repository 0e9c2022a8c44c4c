package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
)

// ProjectRepository defines ownership-scoped project persistence operations.
// Every lookup takes the owner id explicitly; the store has no notion of a
// current user.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByIDAndOwner(ctx context.Context, ownerID, id string) (*model.Project, error)
	// ListByOwner returns the owner's projects whose name contains search
	// case-insensitively. An empty search matches everything.
	ListByOwner(ctx context.Context, ownerID, search string) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	// DeleteCascade removes the project and every task whose projectId matches
	// it, atomically. The cascade is keyed purely on the projectId.
	DeleteCascade(ctx context.Context, ownerID, id string) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a MySQL-backed project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) FindByIDAndOwner(ctx context.Context, ownerID, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID, search string) ([]model.Project, error) {
	projects := make([]model.Project, 0)
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if err := q.Order("created_at").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) DeleteCascade(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&project).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProjectNotFound
			}
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}
