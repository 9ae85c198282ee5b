package domain

import "time"

// Message is one entry of a conversation. Messages are never mutated after
// they are appended to a history.
type Message struct {
	ID        string           `json:"id"`
	Content   string           `json:"content"`
	Sender    Sender           `json:"sender"`
	Timestamp time.Time        `json:"timestamp"`
	Kind      MessageKind      `json:"kind"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// MessageMetadata holds the optional structured parts of a message.
type MessageMetadata struct {
	QuickReplies []QuickReply  `json:"quick_replies,omitempty"`
	Actions      []Action      `json:"actions,omitempty"`
	IssueDraft   *IssueDraft   `json:"issue_draft,omitempty"`
	Documents    []DisplayItem `json:"documents,omitempty"`
	Images       []DisplayItem `json:"images,omitempty"`
}

// QuickReplies returns the quick replies attached to m, if any.
func (m Message) QuickReplies() []QuickReply {
	if m.Metadata == nil {
		return nil
	}
	return m.Metadata.QuickReplies
}

// Actions returns the actions attached to m, if any.
func (m Message) Actions() []Action {
	if m.Metadata == nil {
		return nil
	}
	return m.Metadata.Actions
}

// QuickReply is a canned follow-up utterance a client can replay as input.
type QuickReply struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// IssueDraft is a ticket proposal shown to the user before creation.
type IssueDraft struct {
	SuggestedTitle       string `json:"suggested_title"`
	SuggestedDescription string `json:"suggested_description"`
	SuggestedCategory    string `json:"suggested_category"`
	SuggestedPriority    string `json:"suggested_priority"`
}

// DisplayItem is a document or image prepared for rendering in the chat.
type DisplayItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type,omitempty"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
