package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskhub/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation payload. Only name is
// required; everything else gets a default.
type CreateTaskRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Due         *time.Time `json:"due"`
	ProjectID   *string    `json:"projectId"`
}

// PatchTaskRequest represents a partial task update. Pointer fields
// distinguish "absent" from "explicitly empty": a present empty string or
// empty tag list does overwrite.
type PatchTaskRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Tags        *[]string  `json:"tags"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Due         *time.Time `json:"due"`
}

// List godoc
// @Summary List the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive name filter"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.List(c.Request().Context(), identity.ID, c.QueryParam("search"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tasks": tasks, "total": len(tasks)})
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task payload"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	task, err := h.taskService.Create(c.Request().Context(), identity.ID, service.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      req.Status,
		Priority:    req.Priority,
		Due:         req.Due,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// Patch godoc
// @Summary Partially update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body PatchTaskRequest true "Fields to update"
// @Success 200 {object} model.Task
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Patch(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req PatchTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	task, err := h.taskService.Patch(c.Request().Context(), identity.ID, c.Param("id"), service.TaskPatch{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Status:      req.Status,
		Priority:    req.Priority,
		Due:         req.Due,
	})
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), identity.ID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
