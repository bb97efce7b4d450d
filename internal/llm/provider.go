package llm

import "context"

// Provider is the chat-completion capability behind classification,
// summarization, and answer generation.
type Provider interface {
	// Complete sends one completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the provider for logs.
	Name() string
}
