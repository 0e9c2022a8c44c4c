package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "taskhub/internal/errors"
	"taskhub/internal/model"
	"taskhub/internal/repository/memory"
)

func newTaskFixtures() (TaskService, ProjectService) {
	store := memory.NewStore()
	return NewTaskService(store.Tasks()), NewProjectService(store.Projects())
}

func strPtr(s string) *string { return &s }

func TestTaskService_Create_Defaults(t *testing.T) {
	taskSvc, _ := newTaskFixtures()
	ctx := context.Background()

	task, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "t1"})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "owner-1", task.UserID)
	assert.Nil(t, task.ProjectID)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, []string{}, task.Tags)
	assert.Equal(t, model.TaskStatusPending, task.Status)
	assert.Equal(t, model.TaskPriorityMedium, task.Priority)
	assert.Equal(t, task.CreatedAt, task.Due)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
}

func TestTaskService_Create_Validation(t *testing.T) {
	taskSvc, projectSvc := newTaskFixtures()
	ctx := context.Background()

	_, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{})
	assert.ErrorIs(t, err, apperrors.ErrTaskNameRequired)

	project, err := projectSvc.Create(ctx, "owner-1", "P", "")
	require.NoError(t, err)

	t.Run("valid project reference", func(t *testing.T) {
		task, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "t1", ProjectID: &project.ID})
		require.NoError(t, err)
		require.NotNil(t, task.ProjectID)
		assert.Equal(t, project.ID, *task.ProjectID)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "t1", ProjectID: strPtr("missing")})
		assert.ErrorIs(t, err, apperrors.ErrInvalidProjectID)
	})

	t.Run("another user's project", func(t *testing.T) {
		_, err := taskSvc.Create(ctx, "owner-2", CreateTaskInput{Name: "t1", ProjectID: &project.ID})
		assert.ErrorIs(t, err, apperrors.ErrInvalidProjectID)
	})
}

func TestTaskService_Create_ExplicitFields(t *testing.T) {
	taskSvc, _ := newTaskFixtures()
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	task, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{
		Name:        "t1",
		Description: "write the report",
		Tags:        []string{"work", "urgent"},
		Status:      "todo",
		Priority:    "high",
		Due:         &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "write the report", task.Description)
	assert.Equal(t, []string{"work", "urgent"}, task.Tags)
	assert.Equal(t, "todo", task.Status)
	assert.Equal(t, "high", task.Priority)
	assert.Equal(t, due, task.Due)
}

func TestTaskService_Patch(t *testing.T) {
	taskSvc, _ := newTaskFixtures()
	ctx := context.Background()

	task, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{
		Name:        "t1",
		Description: "desc",
		Tags:        []string{"a"},
	})
	require.NoError(t, err)

	t.Run("missing task is not found", func(t *testing.T) {
		_, err := taskSvc.Patch(ctx, "owner-1", "missing", TaskPatch{})
		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("another owner's task is forbidden", func(t *testing.T) {
		_, err := taskSvc.Patch(ctx, "owner-2", task.ID, TaskPatch{Status: strPtr("done")})
		assert.ErrorIs(t, err, apperrors.ErrTaskForbidden)
	})

	t.Run("empty patch only bumps updatedAt", func(t *testing.T) {
		time.Sleep(time.Millisecond)
		patched, err := taskSvc.Patch(ctx, "owner-1", task.ID, TaskPatch{})
		require.NoError(t, err)
		assert.Equal(t, task.Name, patched.Name)
		assert.Equal(t, task.Description, patched.Description)
		assert.Equal(t, task.Tags, patched.Tags)
		assert.Equal(t, task.Status, patched.Status)
		assert.Equal(t, task.Priority, patched.Priority)
		assert.Equal(t, task.Due, patched.Due)
		assert.True(t, patched.UpdatedAt.After(patched.CreatedAt))
	})

	t.Run("single field overwrite", func(t *testing.T) {
		patched, err := taskSvc.Patch(ctx, "owner-1", task.ID, TaskPatch{Status: strPtr("done")})
		require.NoError(t, err)
		assert.Equal(t, "done", patched.Status)
		assert.Equal(t, "t1", patched.Name)
		assert.Equal(t, "desc", patched.Description)
	})

	t.Run("explicit empty values overwrite", func(t *testing.T) {
		empty := []string{}
		patched, err := taskSvc.Patch(ctx, "owner-1", task.ID, TaskPatch{
			Description: strPtr(""),
			Tags:        &empty,
		})
		require.NoError(t, err)
		assert.Equal(t, "", patched.Description)
		assert.Equal(t, []string{}, patched.Tags)
	})

	t.Run("due is overwritten when present", func(t *testing.T) {
		due := time.Now().Add(24 * time.Hour).Truncate(time.Second)
		patched, err := taskSvc.Patch(ctx, "owner-1", task.ID, TaskPatch{Due: &due})
		require.NoError(t, err)
		assert.Equal(t, due, patched.Due)
	})
}

func TestTaskService_Delete(t *testing.T) {
	taskSvc, _ := newTaskFixtures()
	ctx := context.Background()

	task, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "t1"})
	require.NoError(t, err)

	// Delete conflates "not owned" with "missing", unlike patch.
	err = taskSvc.Delete(ctx, "owner-2", task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	require.NoError(t, taskSvc.Delete(ctx, "owner-1", task.ID))

	err = taskSvc.Delete(ctx, "owner-1", task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestProjectDelete_CascadesToTasks(t *testing.T) {
	taskSvc, projectSvc := newTaskFixtures()
	ctx := context.Background()

	project, err := projectSvc.Create(ctx, "owner-1", "P", "")
	require.NoError(t, err)
	other, err := projectSvc.Create(ctx, "owner-1", "Other", "")
	require.NoError(t, err)

	_, err = taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "attached 1", ProjectID: &project.ID})
	require.NoError(t, err)
	_, err = taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "attached 2", ProjectID: &project.ID})
	require.NoError(t, err)
	survivor, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "elsewhere", ProjectID: &other.ID})
	require.NoError(t, err)
	standalone, err := taskSvc.Create(ctx, "owner-1", CreateTaskInput{Name: "standalone"})
	require.NoError(t, err)

	require.NoError(t, projectSvc.Delete(ctx, "owner-1", project.ID))

	tasks, err := taskSvc.List(ctx, "owner-1", "")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, survivor.ID, tasks[0].ID)
	assert.Equal(t, standalone.ID, tasks[1].ID)
}
