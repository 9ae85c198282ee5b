package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient answers every request locally. It is used in MOCK mode and by tests.
// It is safe for concurrent use.
type MockClient struct {
	// Reply, when set, is returned verbatim instead of the echo reply.
	Reply string
	// Err, when set, is returned instead of a completion.
	Err error
	// Record keeps every request for Requests. Off in MOCK mode.
	Record bool

	mu       sync.Mutex
	requests []*ChatCompletionRequest
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ LLMClient = (*MockClient)(nil)

// Requests returns a copy of the recorded requests.
func (m *MockClient) Requests() []*ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ChatCompletionRequest(nil), m.requests...)
}

// CreateChatCompletion returns a canned completion.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	m.mu.Lock()
	if m.Record {
		m.requests = append(m.requests, req)
	}
	reply, failure := m.Reply, m.Err
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	content := reply
	if content == "" {
		content = mockReply(req)
	}

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{{
			Message:      &ChatMessage{Role: RoleAssistant, Content: content},
			FinishReason: "stop",
		}},
		Usage: &Usage{
			PromptTokens:     estimateTokens(req),
			CompletionTokens: len(content) / 4,
			TotalTokens:      estimateTokens(req) + len(content)/4,
		},
	}, nil
}

func mockReply(req *ChatCompletionRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			return fmt.Sprintf("[MOCK] I received %q. A real assistant reply would appear here.", truncate(req.Messages[i].Content, 100))
		}
	}
	return "[MOCK] This is a mock response from the LLM client."
}

func estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
