// Package handler holds the HTTP response envelope and error mapping shared
// by the per-entity handler packages.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    apperrors.ErrorCode `json:"code,omitempty"`
	Message string              `json:"message"`
	Fields  map[string]string   `json:"fields,omitempty"`
}

func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// Error maps an application error onto the wire. Internal failures and
// unrecognized errors share one opaque 500 body; the cause stays in the logs.
func Error(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrValidation:
		status = http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
	}

	body := &APIError{Code: appErr.Code, Message: appErr.Message, Fields: appErr.Fields}
	if status == http.StatusInternalServerError {
		body.Message = "internal server error"
		c.Error(err)
	}
	c.JSON(status, Response{Success: false, Error: body})
}

// BindError converts a gin binding failure into a 400 with the same envelope.
func BindError(c *gin.Context, err error) {
	Error(c, apperrors.Validation(map[string]string{"body": err.Error()}))
}
