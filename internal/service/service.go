// Package service hosts assistant sessions: it owns one conversation store
// per session and runs turns through the intent matcher, the action
// dispatcher and the AI fallback.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/action"
	"github.com/xiaot623/gogo/assistant/internal/adapter/llm"
	"github.com/xiaot623/gogo/assistant/internal/config"
	"github.com/xiaot623/gogo/assistant/internal/conversation"
	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/intent"
)

// EventStore persists turn trace events.
type EventStore interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error)
}

// Publisher receives every conversation store update of every session.
type Publisher interface {
	StoreUpdate(sessionID string, u conversation.Update)
}

type Service struct {
	matcher    *intent.Matcher
	dispatcher *action.Dispatcher
	fallback   *Fallback
	events     EventStore
	publisher  Publisher
	config     *config.Config
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// New creates a service. publisher may be nil.
func New(matcher *intent.Matcher, dispatcher *action.Dispatcher, llmClient llm.LLMClient, events EventStore, publisher Publisher, cfg *config.Config) *Service {
	return &Service{
		matcher:    matcher,
		dispatcher: dispatcher,
		fallback:   NewFallback(llmClient, cfg.LLMModel, cfg.LLMTimeout, cfg.HistoryWindow),
		events:     events,
		publisher:  publisher,
		config:     cfg,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
}
