package http

import (
	"fmt"
	"net/http"
)

// AppError is an API error carrying the HTTP status it renders with.
// Handlers return it for failures that map to a client-visible status;
// anything else renders as a 500.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// BadRequestErrorf creates a 400 error with formatting.
func BadRequestErrorf(format string, a ...interface{}) *AppError {
	return &AppError{
		Code:    "ERR_BAD_REQUEST",
		Message: fmt.Sprintf(format, a...),
		Status:  http.StatusBadRequest,
	}
}

// NotFoundErrorf creates a 404 error with formatting.
func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return &AppError{
		Code:    "ERR_NOT_FOUND",
		Message: fmt.Sprintf(format, a...),
		Status:  http.StatusNotFound,
	}
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return &AppError{
		Code:    "ERR_INTERNAL",
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}
