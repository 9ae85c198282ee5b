package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xiaot623/gogo/assistant/internal/adapter/llm"
	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/reply"
)

const degradedText = "I'm having trouble answering that right now. Please try again in a moment, or pick one of the options below."

// Fallback answers input no intent rule matched by asking the completion
// provider. It never fails: provider errors produce the degraded response.
type Fallback struct {
	client  llm.LLMClient
	model   string
	timeout time.Duration
	window  int
}

// FallbackResult is the outcome of one completion attempt.
type FallbackResult struct {
	Response reply.Response
	Degraded bool
	Err      error
	Latency  time.Duration
}

// NewFallback creates a fallback over client. window is the number of recent
// messages sent as history.
func NewFallback(client llm.LLMClient, model string, timeout time.Duration, window int) *Fallback {
	if window <= 0 {
		window = 10
	}
	return &Fallback{client: client, model: model, timeout: timeout, window: window}
}

// Window is the number of recent messages sent as history.
func (f *Fallback) Window() int {
	return f.window
}

// Complete answers text. history holds the most recent messages of the
// session, oldest first, and may already end with text itself.
func (f *Fallback) Complete(ctx context.Context, text string, history []domain.Message, sc domain.SessionContext) FallbackResult {
	start := time.Now()
	answer, err := f.ask(ctx, text, history, sc)
	latency := time.Since(start)

	if err != nil {
		return FallbackResult{Response: Degraded(sc.Role), Degraded: true, Err: err, Latency: latency}
	}
	return FallbackResult{
		Response: reply.Response{
			Text:         answer,
			QuickReplies: reply.ContextualReplies(answer, sc.Role),
			Kind:         domain.MessageKindText,
		},
		Latency: latency,
	}
}

func (f *Fallback) ask(ctx context.Context, text string, history []domain.Message, sc domain.SessionContext) (answer string, err error) {
	if f.client == nil {
		return "", fmt.Errorf("%w: no completion client configured", domain.ErrProviderFailure)
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: completion client panicked: %v", r)
			err = fmt.Errorf("%w: %v", domain.ErrProviderFailure, r)
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	resp, err := f.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:    f.model,
		Messages: BuildPrompt(text, history, sc, f.window),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	answer, err = resp.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	return answer, nil
}

// Degraded is the fixed response used when the provider path fails.
func Degraded(role domain.Role) reply.Response {
	return reply.Response{
		Text:         degradedText,
		QuickReplies: reply.RoleDefaults(role),
		Kind:         domain.MessageKindText,
	}
}

// BuildPrompt builds the chat messages for a completion: the role's system
// prompt, the known session facts when there are any, at most window history
// messages and the user text.
func BuildPrompt(text string, history []domain.Message, sc domain.SessionContext, window int) []llm.ChatMessage {
	if len(history) > window {
		history = history[len(history)-window:]
	}

	msgs := make([]llm.ChatMessage, 0, len(history)+3)
	msgs = append(msgs, llm.ChatMessage{Role: llm.RoleSystem, Content: SystemPrompt(sc.Role)})
	if note := ContextNote(sc); note != "" {
		msgs = append(msgs, llm.ChatMessage{Role: llm.RoleSystem, Content: note})
	}
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := llm.RoleAssistant
		if m.Sender == domain.SenderUser {
			role = llm.RoleUser
		}
		msgs = append(msgs, llm.ChatMessage{Role: role, Content: m.Content})
	}

	last := msgs[len(msgs)-1]
	if last.Role != llm.RoleUser || last.Content != text {
		msgs = append(msgs, llm.ChatMessage{Role: llm.RoleUser, Content: text})
	}
	return msgs
}

// SystemPrompt returns the instructions for role.
func SystemPrompt(role domain.Role) string {
	var b strings.Builder
	if role == domain.RoleLandlord {
		b.WriteString("You are a property management assistant helping a landlord. ")
		b.WriteString("You help with properties, tenant maintenance issues, documents, images and payments. ")
	} else {
		b.WriteString("You are a property management assistant helping a tenant. ")
		b.WriteString("You help with maintenance issues, the lease agreement, documents and rent payments. ")
	}
	b.WriteString("Answer in two or three short sentences. ")
	b.WriteString("Never invent amounts, dates, ticket numbers or other figures you were not given; ")
	b.WriteString("if you do not know, say so and point to the relevant part of the app.")
	return b.String()
}

// ContextNote lists what the session knows about the user, or "" when
// nothing is known.
func ContextNote(sc domain.SessionContext) string {
	var facts []string
	if sc.UserName != "" {
		facts = append(facts, "name: "+sc.UserName)
	}
	if sc.PropertyID != "" {
		facts = append(facts, "property id: "+sc.PropertyID)
	}
	if sc.CurrentTopic != "" {
		facts = append(facts, "current topic: "+sc.CurrentTopic)
	}
	if len(facts) == 0 {
		return ""
	}
	return fmt.Sprintf("Known about the user (%s): %s.", sc.Role.Label(), strings.Join(facts, ", "))
}
