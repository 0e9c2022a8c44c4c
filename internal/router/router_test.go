package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/auth"
	"taskhub/internal/handler"
	"taskhub/internal/repository/memory"
	"taskhub/internal/service"
)

func newTestServer() *echo.Echo {
	store := memory.NewStore()
	jwtService := auth.NewJWTService("test-secret")
	tokenStore := auth.NewTokenStore(nil)

	authService := service.NewAuthService(store.Users(), jwtService, tokenStore)
	projectService := service.NewProjectService(store.Projects())
	taskService := service.NewTaskService(store.Tasks())

	e := echo.New()
	e.Logger.SetOutput(io.Discard)
	Register(e,
		jwtService,
		handler.NewAuthHandler(authService),
		handler.NewProjectHandler(projectService),
		handler.NewTaskHandler(taskService),
	)
	return e
}

func doRequest(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, e *echo.Echo, name, email string) (token, userID string) {
	t.Helper()
	rec := doRequest(e, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "pass12345",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	return body["token"].(string), body["id"].(string)
}

func TestHealthz(t *testing.T) {
	e := newTestServer()
	rec := doRequest(e, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"status": "ok"}, decode(t, rec))
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestServer()

	rec := doRequest(e, http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "T",
		"email":    "T@X.com ",
		"password": "p",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "t@x.com", body["email"])
	assert.Equal(t, "T", body["name"])
	assert.NotEmpty(t, body["token"])
	assert.NotContains(t, body, "password")

	t.Run("duplicate normalized email", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/auth/register", "", map[string]string{
			"name":     "T2",
			"email":    "t@x.com",
			"password": "p",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already registered", decode(t, rec)["error"])
	})

	t.Run("login with correct credentials", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "t@x.com",
			"password": "p",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "t@x.com", body["email"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password and unknown email fail alike", func(t *testing.T) {
		wrongPass := doRequest(e, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "t@x.com",
			"password": "nope",
		})
		unknown := doRequest(e, http.MethodPost, "/auth/login", "", map[string]string{
			"email":    "ghost@x.com",
			"password": "p",
		})
		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, decode(t, wrongPass)["error"], decode(t, unknown)["error"])
	})
}

func TestAuthRequired(t *testing.T) {
	e := newTestServer()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/projects"},
		{http.MethodPost, "/projects"},
		{http.MethodGet, "/tasks"},
		{http.MethodPatch, "/tasks/some-id"},
		{http.MethodDelete, "/projects/some-id"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := doRequest(e, tc.method, tc.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			rec = doRequest(e, tc.method, tc.path, "garbage-token", nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestProjectEndpoints(t *testing.T) {
	e := newTestServer()
	token, userID := registerUser(t, e, "U", "u@example.com")
	otherToken, _ := registerUser(t, e, "V", "v@example.com")

	rec := doRequest(e, http.MethodPost, "/projects", token, map[string]string{
		"name":        "My Project",
		"description": "desc",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	project := decode(t, rec)
	projectID := project["id"].(string)
	assert.Equal(t, userID, project["userId"])
	assert.Equal(t, "My Project", project["name"])

	t.Run("missing name", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/projects", token, map[string]string{"description": "x"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Project name is required", decode(t, rec)["error"])
	})

	t.Run("list is owner scoped", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/projects", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, float64(1), body["total"])

		rec = doRequest(e, http.MethodGet, "/projects", otherToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(0), decode(t, rec)["total"])
	})

	t.Run("search filter", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/projects?search=my", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(1), decode(t, rec)["total"])

		rec = doRequest(e, http.MethodGet, "/projects?search=nope", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(0), decode(t, rec)["total"])
	})

	t.Run("update by non-owner is not found", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/projects/"+projectID, otherToken, map[string]string{"name": "Hijack"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Project not found", decode(t, rec)["error"])
	})

	t.Run("update ignores empty fields", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/projects/"+projectID, token, map[string]string{"name": "Renamed"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Renamed", body["name"])
		assert.Equal(t, "desc", body["description"])
	})

	t.Run("delete by non-owner is not found", func(t *testing.T) {
		rec := doRequest(e, http.MethodDelete, "/projects/"+projectID, otherToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doRequest(e, http.MethodDelete, "/projects/"+projectID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Project deleted successfully", decode(t, rec)["message"])

		rec = doRequest(e, http.MethodDelete, "/projects/"+projectID, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskEndpoints(t *testing.T) {
	e := newTestServer()
	token, userID := registerUser(t, e, "U", "u@example.com")
	otherToken, _ := registerUser(t, e, "V", "v@example.com")

	rec := doRequest(e, http.MethodPost, "/projects", token, map[string]string{"name": "P"})
	require.Equal(t, http.StatusCreated, rec.Code)
	projectID := decode(t, rec)["id"].(string)

	t.Run("missing name", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/tasks", token, map[string]interface{}{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Task name is required", decode(t, rec)["error"])
	})

	t.Run("another user's project is an invalid reference", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/tasks", otherToken, map[string]interface{}{
			"name":      "t1",
			"projectId": projectID,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid project ID", decode(t, rec)["error"])
	})

	rec = doRequest(e, http.MethodPost, "/tasks", token, map[string]interface{}{
		"name":      "Task A",
		"projectId": projectID,
		"status":    "todo",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode(t, rec)
	taskID := task["id"].(string)
	assert.Equal(t, userID, task["userId"])
	assert.Equal(t, projectID, task["projectId"])
	assert.Equal(t, "todo", task["status"])
	assert.Equal(t, "medium", task["priority"])
	assert.Equal(t, []interface{}{}, task["tags"])

	t.Run("patch by non-owner is forbidden", func(t *testing.T) {
		rec := doRequest(e, http.MethodPatch, "/tasks/"+taskID, otherToken, map[string]string{"status": "done"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Forbidden", decode(t, rec)["error"])
	})

	t.Run("patch of missing task is not found", func(t *testing.T) {
		rec := doRequest(e, http.MethodPatch, "/tasks/missing", token, map[string]string{"status": "done"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decode(t, rec)["error"])
	})

	t.Run("patch overwrites only present fields", func(t *testing.T) {
		time.Sleep(2 * time.Millisecond)
		rec := doRequest(e, http.MethodPatch, "/tasks/"+taskID, token, map[string]string{"status": "done"})
		require.Equal(t, http.StatusOK, rec.Code)
		patched := decode(t, rec)
		assert.Equal(t, "done", patched["status"])
		assert.Equal(t, task["name"], patched["name"])
		assert.Equal(t, task["priority"], patched["priority"])
		assert.Equal(t, task["due"], patched["due"])

		createdAt, err := time.Parse(time.RFC3339Nano, patched["createdAt"].(string))
		require.NoError(t, err)
		updatedAt, err := time.Parse(time.RFC3339Nano, patched["updatedAt"].(string))
		require.NoError(t, err)
		assert.True(t, updatedAt.After(createdAt))
	})

	t.Run("delete by non-owner is not found", func(t *testing.T) {
		rec := doRequest(e, http.MethodDelete, "/tasks/"+taskID, otherToken, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decode(t, rec)["error"])
	})

	t.Run("delete", func(t *testing.T) {
		rec := doRequest(e, http.MethodDelete, "/tasks/"+taskID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Task deleted successfully", decode(t, rec)["message"])

		rec = doRequest(e, http.MethodGet, "/tasks", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(0), decode(t, rec)["total"])
	})
}

func TestProjectDeleteCascadesOverHTTP(t *testing.T) {
	e := newTestServer()
	token, _ := registerUser(t, e, "U", "u@example.com")

	rec := doRequest(e, http.MethodPost, "/projects", token, map[string]string{"name": "Doomed"})
	require.Equal(t, http.StatusCreated, rec.Code)
	projectID := decode(t, rec)["id"].(string)

	for _, name := range []string{"attached 1", "attached 2"} {
		rec := doRequest(e, http.MethodPost, "/tasks", token, map[string]interface{}{
			"name":      name,
			"projectId": projectID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec = doRequest(e, http.MethodPost, "/tasks", token, map[string]interface{}{"name": "standalone"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/projects/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, float64(1), body["total"])
	tasks := body["tasks"].([]interface{})
	assert.Equal(t, "standalone", tasks[0].(map[string]interface{})["name"])
}
