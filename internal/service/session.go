package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/xiaot623/gogo/assistant/internal/conversation"
	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

type session struct {
	id    string
	store *conversation.Store

	// turnMu serialises turns and explicit actions of one session.
	turnMu      sync.Mutex
	unsubscribe func()
}

// SessionInfo is returned when a session starts.
type SessionInfo struct {
	SessionID string                `json:"session_id"`
	Context   domain.SessionContext `json:"context"`
}

// InitSession creates a session and appends the welcome message.
func (s *Service) InitSession(ctx context.Context, role domain.Role, userID string, extra domain.SessionExtra) (*SessionInfo, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}
	if userID == "" {
		return nil, domain.ErrUserIDRequired
	}

	sess := &session{
		id:    reply.NewID("sess"),
		store: conversation.Init(role, userID, extra, s.now()),
	}
	// Nobody can be subscribed before the id is returned, so the welcome
	// message is only served through the history.
	if s.publisher != nil {
		id := sess.id
		sess.unsubscribe = sess.store.Subscribe(func(u conversation.Update) {
			s.publisher.StoreUpdate(id, u)
		})
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.trace(ctx, sess.id, domain.EventTypeSessionStarted, map[string]interface{}{
		"role":    role,
		"user_id": userID,
	})
	log.Printf("Session started: %s (role: %s, user: %s)", sess.id, role, userID)

	return &SessionInfo{SessionID: sess.id, Context: sess.store.Context()}, nil
}

// EndSession drops a session and its history.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}

	if sess.unsubscribe != nil {
		sess.unsubscribe()
	}
	log.Printf("Session ended: %s", sessionID)
	return nil
}

// Clear empties the session history and keeps its identity. It does not
// wait for a running turn; see conversation.Store.Clear.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.store.Clear()
	s.trace(ctx, sessionID, domain.EventTypeSessionCleared, nil)
	return nil
}

// Messages returns the last limit messages, or the whole history when
// limit is not positive.
func (s *Service) Messages(sessionID string, limit int) ([]domain.Message, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return sess.store.Snapshot(), nil
	}
	return sess.store.Recent(limit), nil
}

// SessionContext returns the current context of a session.
func (s *Service) SessionContext(sessionID string) (domain.SessionContext, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return domain.SessionContext{}, err
	}
	return sess.store.Context(), nil
}

// HasSession reports whether sessionID is active.
func (s *Service) HasSession(sessionID string) bool {
	_, err := s.session(sessionID)
	return err == nil
}

func (s *Service) session(sessionID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}
