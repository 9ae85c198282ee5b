package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// CreateSessionRequest starts a session for a user.
type CreateSessionRequest struct {
	Role   domain.Role `json:"role"`
	UserID string      `json:"user_id"`
	domain.SessionExtra
}

// CreateSession starts a session and returns its welcome history.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	info, err := h.service.InitSession(ctx, req.Role, req.UserID, req.SessionExtra)
	if err != nil {
		return errorResponse(c, err)
	}

	messages, err := h.service.Messages(info.SessionID, 0)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"session_id": info.SessionID,
		"context":    info.Context,
		"messages":   nonNil(messages),
	})
}

// GetSession returns the current session context.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	sessionID := c.Param("session_id")

	sc, err := h.service.SessionContext(sessionID)
	if err != nil {
		return errorResponse(c, err)
	}
	// History is served by the messages endpoint.
	sc.History = nil

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"context":    sc,
	})
}

// EndSession drops a session.
// DELETE /v1/sessions/:session_id
func (h *Handler) EndSession(c echo.Context) error {
	if err := h.service.EndSession(c.Request().Context(), c.Param("session_id")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func nonNil(messages []domain.Message) []domain.Message {
	if messages == nil {
		return []domain.Message{}
	}
	return messages
}
