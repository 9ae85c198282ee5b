package service

import (
	"context"

	"github.com/xiaot623/gogo/assistant/internal/action"
	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// ExecuteAction runs an action outside a text turn, for example when the
// user picks an action offered in a message. It waits for a running turn of
// the same session to finish.
func (s *Service) ExecuteAction(ctx context.Context, sessionID string, a domain.Action) (domain.Result, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return domain.Result{}, err
	}

	sess.turnMu.Lock()
	defer sess.turnMu.Unlock()

	return s.runAction(ctx, sess, sess.store, a), nil
}

func (s *Service) runAction(ctx context.Context, sess *session, conv action.Conversation, a domain.Action) domain.Result {
	res := s.dispatcher.Execute(ctx, sess.id, conv, a)
	s.trace(ctx, sess.id, domain.EventTypeActionExecuted, map[string]interface{}{
		"action_id": a.ID,
		"kind":      a.Kind,
		"success":   res.Success,
		"message":   res.Message,
	})
	return res
}
