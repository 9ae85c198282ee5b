package reply

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// Response is a bot reply before it becomes a Message.
type Response struct {
	Text         string
	QuickReplies []domain.QuickReply
	Actions      []domain.Action
	IssueDraft   *domain.IssueDraft

	// Kind, when set, skips classification.
	Kind domain.MessageKind
}

// Classify picks the message kind for a response: issue_creation, then
// action, then quick_reply, then text.
func Classify(resp Response) domain.MessageKind {
	switch {
	case resp.IssueDraft != nil:
		return domain.MessageKindIssueCreation
	case len(resp.Actions) > 0:
		return domain.MessageKindAction
	case len(resp.QuickReplies) > 0:
		return domain.MessageKindQuickReply
	}
	return domain.MessageKindText
}

// Compose turns a response into a bot message.
func Compose(resp Response, now time.Time) domain.Message {
	kind := resp.Kind
	if kind == "" {
		kind = Classify(resp)
	}

	var meta *domain.MessageMetadata
	if len(resp.QuickReplies) > 0 || len(resp.Actions) > 0 || resp.IssueDraft != nil {
		meta = &domain.MessageMetadata{
			QuickReplies: resp.QuickReplies,
			Actions:      resp.Actions,
			IssueDraft:   resp.IssueDraft,
		}
	}
	return newMessage(domain.SenderBot, kind, resp.Text, meta, now)
}

// UserMessage builds the message recorded for user input.
func UserMessage(text string, now time.Time) domain.Message {
	return newMessage(domain.SenderUser, domain.MessageKindText, text, nil, now)
}

// BotMessage builds a bot message of an explicit kind, for messages produced
// by actions.
func BotMessage(kind domain.MessageKind, text string, meta *domain.MessageMetadata, now time.Time) domain.Message {
	return newMessage(domain.SenderBot, kind, text, meta, now)
}

// Welcome is the first message of every session.
func Welcome(sc domain.SessionContext, now time.Time) domain.Message {
	greeting := "Hello!"
	if sc.UserName != "" {
		greeting = fmt.Sprintf("Hello %s!", sc.UserName)
	}

	var text string
	if sc.Role == domain.RoleLandlord {
		text = greeting + " I'm your property assistant. I can show your properties, documents and images, and keep you on top of tenant issues and payments."
	} else {
		text = greeting + " I'm your home assistant. I can help you report maintenance issues, check their status, and find your documents and property images."
	}
	return Compose(Response{Text: text, QuickReplies: RoleDefaults(sc.Role)}, now)
}

// Apology is the message appended when a turn could not produce anything else.
func Apology(role domain.Role, now time.Time) domain.Message {
	return Compose(Response{
		Text:         "Sorry, something went wrong while handling that. Please try again or pick one of the options below.",
		QuickReplies: RoleDefaults(role),
		Kind:         domain.MessageKindText,
	}, now)
}

// NewID returns a prefixed random identifier.
func NewID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

func newMessage(sender domain.Sender, kind domain.MessageKind, text string, meta *domain.MessageMetadata, now time.Time) domain.Message {
	return domain.Message{
		ID:        NewID("msg"),
		Content:   text,
		Sender:    sender,
		Timestamp: now,
		Kind:      kind,
		Metadata:  meta,
	}
}
