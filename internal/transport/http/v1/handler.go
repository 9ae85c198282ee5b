// Package v1 provides the HTTP handlers of the session API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the session API with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Sessions
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.DELETE("/v1/sessions/:session_id", h.EndSession)

	// Conversation
	e.GET("/v1/sessions/:session_id/messages", h.GetMessages)
	e.POST("/v1/sessions/:session_id/messages", h.SendMessage)
	e.DELETE("/v1/sessions/:session_id/messages", h.ClearMessages)
	e.POST("/v1/sessions/:session_id/actions", h.ExecuteAction)

	// Turn trace
	e.GET("/v1/sessions/:session_id/events", h.GetEvents)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps service errors onto status codes.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrUserIDRequired),
		errors.Is(err, domain.ErrUnknownActionKind),
		errors.Is(err, domain.ErrInvalidActionData):
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
