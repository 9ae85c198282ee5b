package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// SendMessageRequest is one line of user input.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// GetMessages returns the most recent messages of a session.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}

	messages, err := h.service.Messages(sessionID, limit)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": nonNil(messages),
	})
}

// SendMessage runs one turn and returns the bot reply that ended it.
// POST /v1/sessions/:session_id/messages
func (h *Handler) SendMessage(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	reply, err := h.service.Send(ctx, sessionID, req.Text)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": reply,
	})
}

// ClearMessages empties the session history.
// DELETE /v1/sessions/:session_id/messages
func (h *Handler) ClearMessages(c echo.Context) error {
	if err := h.service.Clear(c.Request().Context(), c.Param("session_id")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
