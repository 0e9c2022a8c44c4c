package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
)

// TaskRepository defines task persistence operations. FindByID is deliberately
// unscoped: the patch path distinguishes a missing task from one owned by
// another user, so the caller needs the record either way.
type TaskRepository interface {
	// Create inserts the task. When ProjectID is set, the referenced project
	// must exist and belong to the task's owner at insert time; the check and
	// the insert are one atomic store operation and a stale reference yields
	// ErrInvalidProjectID.
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID, search string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	// DeleteByOwner removes the task only when it exists and is owned by
	// ownerID; both failures collapse to ErrTaskNotFound.
	DeleteByOwner(ctx context.Context, ownerID, id string) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a MySQL-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ProjectID == nil {
		return r.db.WithContext(ctx).Create(task).Error
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Where("id = ? AND user_id = ?", *task.ProjectID, task.UserID).
			First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvalidProjectID
			}
			return err
		}
		return tx.Create(task).Error
	})
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID, search string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if err := q.Order("created_at").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) DeleteByOwner(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTaskNotFound
	}
	return nil
}
