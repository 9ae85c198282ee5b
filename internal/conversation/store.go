// Package conversation holds the message history and context of one chat session.
package conversation

import (
	"sync"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

// UpdateType identifies what changed in a store.
type UpdateType string

const (
	UpdateAppended UpdateType = "appended"
	UpdateCleared  UpdateType = "cleared"
)

// Update is published to subscribers after every change.
type Update struct {
	Type     UpdateType
	Message  *domain.Message // set for UpdateAppended
	Snapshot []domain.Message
}

// Subscriber receives store updates in the order they happened.
type Subscriber func(Update)

// Store is the conversation store of a single session. The history slice is
// copy-on-write: readers always get a slice that is never modified again.
type Store struct {
	mu      sync.RWMutex
	context domain.SessionContext
	history []domain.Message

	// pubMu serialises mutation+publication so subscribers see updates in order.
	pubMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int
}

// New creates a store with an empty history.
func New(role domain.Role, userID string, extra domain.SessionExtra) *Store {
	return &Store{
		context: domain.SessionContext{
			Role:       role,
			UserID:     userID,
			PropertyID: extra.PropertyID,
			TenantID:   extra.TenantID,
			LandlordID: extra.LandlordID,
			UserName:   extra.UserName,
			UserEmail:  extra.UserEmail,
		},
		subs: make(map[int]Subscriber),
	}
}

// Init creates a store and appends the role-specific welcome message.
func Init(role domain.Role, userID string, extra domain.SessionExtra, now time.Time) *Store {
	s := New(role, userID, extra)
	s.Append(reply.Welcome(s.Context(), now))
	return s
}

// Append pushes msg onto the history and publishes the new snapshot.
func (s *Store) Append(msg domain.Message) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	next := make([]domain.Message, len(s.history), len(s.history)+1)
	copy(next, s.history)
	next = append(next, msg)
	s.history = next
	subs := s.subscribers()
	s.mu.Unlock()

	appended := msg
	for _, fn := range subs {
		fn(Update{Type: UpdateAppended, Message: &appended, Snapshot: next})
	}
}

// Clear resets the history. Identity fields of the context are kept.
//
// Clear does not wait for an in-flight turn: messages appended after Clear
// land in the new, empty history.
func (s *Store) Clear() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.history = nil
	s.context.CurrentTopic = ""
	subs := s.subscribers()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Update{Type: UpdateCleared, Snapshot: []domain.Message{}})
	}
}

// Recent returns the last n messages. The result is safe to retain.
func (s *Store) Recent(n int) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return []domain.Message{}
	}
	start := len(s.history) - n
	if start < 0 {
		start = 0
	}
	out := make([]domain.Message, len(s.history)-start)
	copy(out, s.history[start:])
	return out
}

// Len returns the number of messages in the history.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// Snapshot returns the full history.
func (s *Store) Snapshot() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history[:len(s.history):len(s.history)]
}

// Context returns a copy of the session context including its history.
func (s *Store) Context() domain.SessionContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contextLocked()
}

// UpdateContext replaces the context with the value returned by fn.
// History is owned by the store and cannot be changed this way.
func (s *Store) UpdateContext(fn func(domain.SessionContext) domain.SessionContext) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := fn(s.contextLocked())
	next.History = nil
	s.context = next
}

// Subscribe registers fn for future updates and returns a function that
// removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) contextLocked() domain.SessionContext {
	c := s.context
	c.History = s.history[:len(s.history):len(s.history)]
	return c
}

// subscribers must be called with mu held.
func (s *Store) subscribers() []Subscriber {
	out := make([]Subscriber, 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
