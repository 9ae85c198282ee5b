package service

import (
	"context"
	"log"
	"strings"

	"github.com/xiaot623/gogo/assistant/internal/conversation"
	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

const emptyInputText = "I didn't catch that. What can I help you with?"

// turn wraps a store for one turn and remembers the last bot message
// appended through it.
type turn struct {
	*conversation.Store
	lastBot *domain.Message
}

func (t *turn) Append(msg domain.Message) {
	t.Store.Append(msg)
	if msg.Sender == domain.SenderBot {
		m := msg
		t.lastBot = &m
	}
}

// Send runs one turn: it appends the user message and at least one bot
// message, and returns the last bot message of the turn. When the input
// triggers an action, the action's own messages are the reply. The only
// error is domain.ErrSessionNotFound.
func (s *Service) Send(ctx context.Context, sessionID, text string) (*domain.Message, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	t := &turn{Store: sess.store}
	user := reply.UserMessage(text, s.now())
	t.Append(user)
	s.trace(ctx, sessionID, domain.EventTypeTurnReceived, map[string]interface{}{
		"message_id": user.ID,
		"text":       text,
	})

	s.respond(ctx, sess, t, text)

	if t.lastBot == nil {
		log.Printf("WARN: turn for session %s produced no reply, appending apology", sessionID)
		t.Append(reply.Apology(sess.store.Context().Role, s.now()))
	}
	return t.lastBot, nil
}

func (s *Service) respond(ctx context.Context, sess *session, t *turn, text string) {
	sc := sess.store.Context()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: turn for session %s panicked: %v", sess.id, r)
		}
	}()

	if strings.TrimSpace(text) == "" {
		t.Append(reply.Compose(reply.Response{Text: emptyInputText, QuickReplies: reply.RoleDefaults(sc.Role), Kind: domain.MessageKindText}, s.now()))
		return
	}

	if out, ok := s.matcher.Match(text, sc); ok {
		payload := map[string]interface{}{"rule": out.Rule}
		if out.Trigger != nil {
			payload["action"] = out.Trigger.Kind
		}
		s.trace(ctx, sess.id, domain.EventTypeIntentMatched, payload)

		sess.store.UpdateContext(func(c domain.SessionContext) domain.SessionContext {
			c.CurrentTopic = out.Rule
			return c
		})

		if out.Trigger != nil {
			s.runAction(ctx, sess, t, *out.Trigger)
			return
		}
		t.Append(reply.Compose(*out.Response, s.now()))
		return
	}

	res := s.fallback.Complete(ctx, text, sess.store.Recent(s.fallback.Window()), sc)
	payload := map[string]interface{}{
		"degraded":   res.Degraded,
		"latency_ms": res.Latency.Milliseconds(),
	}
	if res.Err != nil {
		log.Printf("WARN: AI fallback failed for session %s: %v", sess.id, res.Err)
		payload["error"] = res.Err.Error()
	}
	s.trace(ctx, sess.id, domain.EventTypeLLMCallDone, payload)
	t.Append(reply.Compose(res.Response, s.now()))
}
