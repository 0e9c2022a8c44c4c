package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	projectService service.ProjectService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ProjectRequest represents a project create or update payload. On update,
// empty fields are ignored rather than clearing the stored value.
type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List godoc
// @Summary List the caller's projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive name filter"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.List(c.Request().Context(), identity.ID, c.QueryParam("search"))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"projects": projects, "total": len(projects)})
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProjectRequest true "Project payload"
// @Success 201 {object} model.Project
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	project, err := h.projectService.Create(c.Request().Context(), identity.ID, req.Name, req.Description)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, project)
}

// Update godoc
// @Summary Update a project's name or description
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body ProjectRequest true "Fields to update"
// @Success 200 {object} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	var req ProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	project, err := h.projectService.Update(c.Request().Context(), identity.ID, c.Param("id"), req.Name, req.Description)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, project)
}

// Delete godoc
// @Summary Delete a project and all of its tasks
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	identity, err := identityFromContext(c)
	if err != nil {
		return err
	}

	if err := h.projectService.Delete(c.Request().Context(), identity.ID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
