package domain

import "encoding/json"

// SessionContext is the identity and conversational state of one chat.
type SessionContext struct {
	Role         Role      `json:"role"`
	UserID       string    `json:"user_id"`
	PropertyID   string    `json:"property_id,omitempty"`
	TenantID     string    `json:"tenant_id,omitempty"`
	LandlordID   string    `json:"landlord_id,omitempty"`
	UserName     string    `json:"user_name,omitempty"`
	UserEmail    string    `json:"user_email,omitempty"`
	CurrentTopic string    `json:"current_topic,omitempty"`
	History      []Message `json:"history"`
}

// SessionExtra carries the optional identity fields supplied at session init.
type SessionExtra struct {
	PropertyID string `json:"property_id,omitempty"`
	TenantID   string `json:"tenant_id,omitempty"`
	LandlordID string `json:"landlord_id,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	UserEmail  string `json:"user_email,omitempty"`
}

// Event represents a turn trace event.
type Event struct {
	EventID   string          `json:"event_id"`
	SessionID string          `json:"session_id"`
	Ts        int64           `json:"ts"` // Unix milliseconds
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
