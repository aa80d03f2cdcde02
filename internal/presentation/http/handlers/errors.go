// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/security"
)

// statusFor maps domain and service errors to HTTP status codes. Lookups that
// miss are 404, refusals that depend on the current state are 409 and
// malformed requests are 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrPageNotFound),
		errors.Is(err, services.ErrLayoutNotFound),
		errors.Is(err, editor.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrLastColumn),
		errors.Is(err, editor.ErrLastRow),
		errors.Is(err, editor.ErrAtOldestState),
		errors.Is(err, editor.ErrAtNewestState),
		errors.Is(err, editor.ErrNoDrag):
		return http.StatusConflict
	case errors.Is(err, editor.ErrUnknownLayout),
		errors.Is(err, editor.ErrUnknownCommand),
		errors.Is(err, editor.ErrInvalidCommand),
		errors.Is(err, builder.ErrUnknownModuleKind),
		errors.Is(err, services.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrAuthNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
