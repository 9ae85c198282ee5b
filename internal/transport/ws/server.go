// Package ws serves the session subscription channel: every connection is
// bound to one session and receives the events the publisher broadcasts for
// it. Subscribers may also send text and clear requests.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/xiaot623/gogo/assistant/internal/config"
	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/hub"
	"github.com/xiaot623/gogo/assistant/internal/protocol"
)

const (
	maxMessageSize = 64 * 1024
	// pendingTurns bounds the requests a connection may queue ahead of its worker.
	pendingTurns = 32
)

// Sessions is the part of the assistant service used by subscribers.
type Sessions interface {
	HasSession(sessionID string) bool
	Send(ctx context.Context, sessionID, text string) (*domain.Message, error)
	Clear(ctx context.Context, sessionID string) error
}

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	hub      *hub.Hub
	sessions Sessions
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server.
func NewServer(cfg *config.Config, h *hub.Hub, sessions Sessions) *Server {
	return &Server{
		cfg:      cfg,
		hub:      h,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades the request and binds the connection to the
// session named in the path.
// GET /v1/sessions/:session_id/ws
func (s *Server) HandleWebSocket(c echo.Context) error {
	sessionID := c.Param("session_id")
	if !s.sessions.HasSession(sessionID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": domain.ErrSessionNotFound.Error()})
	}

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return nil
	}

	conn := s.hub.NewConnection(ws, sessionID)
	s.hub.Register(conn)
	ws.SetReadLimit(maxMessageSize)

	turns := make(chan protocol.ClientMessage, pendingTurns)
	go s.writePump(conn)
	go s.turnWorker(conn.SessionID, turns)
	go s.readPump(conn, turns)

	return nil
}

func (s *Server) readTimeout() time.Duration {
	return 2 * s.cfg.PingInterval
}

func (s *Server) readPump(conn *hub.Connection, turns chan<- protocol.ClientMessage) {
	defer func() {
		close(turns)
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(s.readTimeout()))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.readTimeout()))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		s.handleMessage(conn, turns, message)
	}
}

// turnWorker runs the send and clear requests of one connection in arrival
// order, off the read loop so pings keep flowing. Results arrive as events.
// The connection may be gone by the time a request fails, so errors go
// through the hub.
func (s *Server) turnWorker(sessionID string, turns <-chan protocol.ClientMessage) {
	for msg := range turns {
		var err error
		switch msg.Type {
		case protocol.TypeSend:
			_, err = s.sessions.Send(context.Background(), sessionID, msg.Text)
		case protocol.TypeClear:
			err = s.sessions.Clear(context.Background(), sessionID)
		}
		if err != nil {
			log.Printf("WARN: session %s %s failed: %v", sessionID, msg.Type, err)
			s.hub.BroadcastJSON(sessionID, errorEvent(sessionID, errorText(err)))
		}
	}
}

func (s *Server) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(conn *hub.Connection, turns chan<- protocol.ClientMessage, data []byte) {
	var msg protocol.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, "invalid JSON message")
		return
	}

	switch msg.Type {
	case protocol.TypeSend, protocol.TypeClear:
		select {
		case turns <- msg:
		default:
			s.sendError(conn, "too many pending messages")
		}
	default:
		s.sendError(conn, "unknown message type: "+msg.Type)
	}
}

func errorText(err error) string {
	if errors.Is(err, domain.ErrSessionNotFound) {
		return "session ended"
	}
	return err.Error()
}

func errorEvent(sessionID, message string) protocol.ErrorEvent {
	return protocol.ErrorEvent{
		BaseEvent: protocol.BaseEvent{
			Type:      protocol.TypeError,
			Ts:        time.Now().UnixMilli(),
			SessionID: sessionID,
		},
		Message: message,
	}
}

func (s *Server) sendError(conn *hub.Connection, message string) {
	if err := s.hub.SendJSONToConnection(conn, errorEvent(conn.SessionID, message)); err != nil {
		log.Printf("WARN: failed to send error to %s: %v", conn.ID, err)
	}
}
