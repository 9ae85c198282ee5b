// Package protocol defines the events pushed to session subscribers over
// WebSocket.
package protocol

import "github.com/xiaot623/gogo/assistant/internal/domain"

// Event types from the assistant to subscribers.
const (
	TypeMessage  = "message"
	TypeCleared  = "cleared"
	TypeNavigate = "navigate"
	TypeOpenURL  = "open_url"
	TypeError    = "error"
)

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	Type      string `json:"type"`
	Ts        int64  `json:"ts"`
	SessionID string `json:"session_id"`
}

// MessageEvent carries a message appended to the session history.
type MessageEvent struct {
	BaseEvent
	Message domain.Message `json:"message"`
}

// ClearedEvent is sent after the history was cleared.
type ClearedEvent struct {
	BaseEvent
}

// NavigateEvent asks the client to switch to a route.
type NavigateEvent struct {
	BaseEvent
	Route string `json:"route"`
}

// OpenURLEvent asks the client to open or download a file.
type OpenURLEvent struct {
	BaseEvent
	URL      string `json:"url"`
	FileName string `json:"file_name,omitempty"`
}

// ErrorEvent reports a problem with the subscription itself.
type ErrorEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// Message types from subscribers to the assistant.
const (
	TypeSend  = "send"
	TypeClear = "clear"
)

// ClientMessage is a request sent by a subscriber over its connection.
type ClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
