// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response. The body carries a
// "detail" field so browser and CLI clients can surface one message.
type APIError struct {
	Status int    `json:"-"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Detail
}

// NewBadRequest creates a 400 Bad Request error
func NewBadRequest(detail string) *APIError {
	return &APIError{
		Status: http.StatusBadRequest,
		Code:   "BAD_REQUEST",
		Detail: detail,
	}
}

// NewNotFound creates a 404 Not Found error
func NewNotFound(detail string) *APIError {
	return &APIError{
		Status: http.StatusNotFound,
		Code:   "NOT_FOUND",
		Detail: detail,
	}
}

// NewInternal creates a 500 Internal Server Error
func NewInternal(detail string) *APIError {
	return &APIError{
		Status: http.StatusInternalServerError,
		Code:   "INTERNAL_ERROR",
		Detail: detail,
	}
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status: e.Code,
			Code:   "HTTP_ERROR",
			Detail: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status: http.StatusInternalServerError,
			Code:   "UNKNOWN_ERROR",
			Detail: "An unexpected error occurred",
		}
	}

	if !c.Response().Committed {
		c.JSON(apiErr.Status, apiErr)
	}
}
