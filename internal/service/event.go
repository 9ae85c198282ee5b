package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

func (s *Service) recordEvent(ctx context.Context, sessionID string, eventType domain.EventType, payload interface{}) error {
	var payloadBytes json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		payloadBytes = data
	}

	event := &domain.Event{
		EventID:   reply.NewID("evt"),
		SessionID: sessionID,
		Ts:        s.now().UnixMilli(),
		Type:      eventType,
		Payload:   payloadBytes,
	}
	return s.events.CreateEvent(ctx, event)
}

// trace records an event and only logs failures. Tracing never affects a turn.
func (s *Service) trace(ctx context.Context, sessionID string, eventType domain.EventType, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.recordEvent(context.WithoutCancel(ctx), sessionID, eventType, payload); err != nil {
		log.Printf("WARN: failed to record %s event for session %s: %v", eventType, sessionID, err)
	}
}

// GetEvents returns the trace events of a session.
func (s *Service) GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	if s.events == nil {
		return []domain.Event{}, nil
	}
	events, err := s.events.GetEvents(ctx, sessionID, afterTs, types, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}
