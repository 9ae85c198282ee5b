// Package domain defines the core domain models for the assistant.
package domain

// Role is the kind of user a session belongs to.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTenant || r == RoleLandlord
}

// Label returns the human readable name of the role.
func (r Role) Label() string {
	switch r {
	case RoleTenant:
		return "Tenant"
	case RoleLandlord:
		return "Landlord"
	}
	return "User"
}

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// MessageKind classifies how a message should be rendered.
type MessageKind string

const (
	MessageKindText          MessageKind = "text"
	MessageKindQuickReply    MessageKind = "quick_reply"
	MessageKindAction        MessageKind = "action"
	MessageKindIssueCreation MessageKind = "issue_creation"
	MessageKindDocumentList  MessageKind = "document_list"
	MessageKindImageGallery  MessageKind = "image_gallery"
)

// EventType represents the type of a turn trace event.
type EventType string

const (
	EventTypeSessionStarted EventType = "session_started"
	EventTypeTurnReceived   EventType = "turn_received"
	EventTypeIntentMatched  EventType = "intent_matched"
	EventTypeLLMCallDone    EventType = "llm_call_done"
	EventTypeActionExecuted EventType = "action_executed"
	EventTypeSessionCleared EventType = "session_cleared"
)

// TicketCategory is the closed set of maintenance categories.
type TicketCategory string

const (
	CategoryPlumbing    TicketCategory = "Plumbing"
	CategoryElectrical  TicketCategory = "Electrical"
	CategoryAppliance   TicketCategory = "Appliance"
	CategoryHVAC        TicketCategory = "HVAC"
	CategoryStructural  TicketCategory = "Structural"
	CategoryPestControl TicketCategory = "Pest Control"
	CategoryOther       TicketCategory = "Other"
)

// TicketPriority is the closed set of maintenance priorities.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
	PriorityUrgent TicketPriority = "Urgent"
)

// TicketStatus is the lifecycle state reported by the ticket service.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)
