// Package llm provides the chat completion client used for AI fallback replies.
package llm

import "context"

// LLMClient defines the chat completion operation the assistant needs.
type LLMClient interface {
	// CreateChatCompletion sends a non-streaming chat completion request.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements LLMClient interface.
var _ LLMClient = (*Client)(nil)
