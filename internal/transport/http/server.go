// Package http provides the HTTP server of the assistant.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/xiaot623/gogo/assistant/internal/config"
	"github.com/xiaot623/gogo/assistant/internal/hub"
	"github.com/xiaot623/gogo/assistant/internal/service"
	v1 "github.com/xiaot623/gogo/assistant/internal/transport/http/v1"
	"github.com/xiaot623/gogo/assistant/internal/transport/ws"
)

// NewServer creates and configures the HTTP server. It serves the session
// API and the session subscription channel.
func NewServer(cfg *config.Config, svc *service.Service, h *hub.Hub) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsServer := ws.NewServer(cfg, h, svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	e.GET("/v1/sessions/:session_id/ws", wsServer.HandleWebSocket)

	return e
}
