package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailRegistered is returned when registering an email that already exists.
	ErrEmailRegistered = errors.New("Email already registered")
	// ErrInvalidCredentials is returned for unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrUserNotFound is returned by repositories when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrProjectNameRequired is returned when creating a project without a name.
	ErrProjectNameRequired = errors.New("Project name is required")
	// ErrTaskNameRequired is returned when creating a task without a name.
	ErrTaskNameRequired = errors.New("Task name is required")
	// ErrInvalidProjectID is returned when a task references a project that does
	// not exist or belongs to another user.
	ErrInvalidProjectID = errors.New("Invalid project ID")
	// ErrProjectNotFound is returned when no project matches id and owner.
	ErrProjectNotFound = errors.New("Project not found")
	// ErrTaskNotFound is returned when a task does not exist (or, on delete, is
	// not owned by the caller).
	ErrTaskNotFound = errors.New("Task not found")
	// ErrTaskForbidden is returned when patching a task owned by another user.
	ErrTaskForbidden = errors.New("Forbidden")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse to
// a generic 500 so internals never leak to clients.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailRegistered):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_REGISTERED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrProjectNameRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PROJECT_NAME_REQUIRED")
	case errors.Is(err, ErrTaskNameRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TASK_NAME_REQUIRED")
	case errors.Is(err, ErrInvalidProjectID):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PROJECT_ID")
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROJECT_NOT_FOUND")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrTaskForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
