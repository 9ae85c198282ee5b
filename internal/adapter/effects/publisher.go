// Package effects publishes navigation, download and history events to the
// WebSocket subscribers of a session.
package effects

import (
	"log"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/conversation"
	"github.com/xiaot623/gogo/assistant/internal/protocol"
)

// Broadcaster is the part of the hub the publisher needs.
type Broadcaster interface {
	BroadcastJSON(sessionID string, v interface{}) error
}

// Publisher turns engine effects into subscriber events. Every method is
// fire-and-forget.
type Publisher struct {
	out Broadcaster
	now func() time.Time
}

// NewPublisher creates a publisher on top of a broadcaster.
func NewPublisher(out Broadcaster) *Publisher {
	return &Publisher{out: out, now: time.Now}
}

// Navigate asks the session's clients to switch to route.
func (p *Publisher) Navigate(sessionID, route string) {
	p.send(sessionID, protocol.NavigateEvent{
		BaseEvent: p.base(protocol.TypeNavigate, sessionID),
		Route:     route,
	})
}

// OpenURL asks the session's clients to open or download url.
func (p *Publisher) OpenURL(sessionID, url, fileName string) {
	p.send(sessionID, protocol.OpenURLEvent{
		BaseEvent: p.base(protocol.TypeOpenURL, sessionID),
		URL:       url,
		FileName:  fileName,
	})
}

// StoreUpdate forwards a conversation store update.
func (p *Publisher) StoreUpdate(sessionID string, u conversation.Update) {
	switch u.Type {
	case conversation.UpdateAppended:
		if u.Message == nil {
			return
		}
		p.send(sessionID, protocol.MessageEvent{
			BaseEvent: p.base(protocol.TypeMessage, sessionID),
			Message:   *u.Message,
		})
	case conversation.UpdateCleared:
		p.send(sessionID, protocol.ClearedEvent{BaseEvent: p.base(protocol.TypeCleared, sessionID)})
	}
}

func (p *Publisher) base(eventType, sessionID string) protocol.BaseEvent {
	return protocol.BaseEvent{Type: eventType, Ts: p.now().UnixMilli(), SessionID: sessionID}
}

func (p *Publisher) send(sessionID string, v interface{}) {
	if err := p.out.BroadcastJSON(sessionID, v); err != nil {
		log.Printf("WARN: failed to publish event for session %s: %v", sessionID, err)
	}
}
