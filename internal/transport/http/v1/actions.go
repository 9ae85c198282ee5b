package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// ExecuteActionRequest invokes an action offered in a message.
type ExecuteActionRequest struct {
	Action *domain.Action `json:"action"`
}

// ExecuteAction runs an action and returns its result. A failed action is
// still a 200: the failure is part of the result and of the history.
// POST /v1/sessions/:session_id/actions
func (h *Handler) ExecuteAction(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var req ExecuteActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Action == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "action is required"})
	}

	result, err := h.service.ExecuteAction(ctx, sessionID, *req.Action)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
