// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/DanNano/FFQueryAnalyzer/internal/service"
	"github.com/gin-gonic/gin"
)

// Messages the frontend matches on.
const (
	MsgDatabase       = "Error connecting to the database"
	MsgPlayerNotFound = "Player not found"
	MsgInvalidInput   = "one or more fields are invalid"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Acquisition and execution failures share one body; details go to the log only.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     MsgInvalidInput,
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found", Message: MsgPlayerNotFound}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error", Message: MsgDatabase}
	}
}

// WriteError writes an error response and aborts the context.
// The error is attached to the context so the request logger can record it.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
