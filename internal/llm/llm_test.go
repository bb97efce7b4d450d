package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// blockingProvider waits for the context to be cancelled.
type blockingProvider struct{}

func (b *blockingProvider) Name() string { return "blocking" }

func (b *blockingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := mock.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}

	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}

	if mock.Calls[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls[0].Model)
	}
}

func TestWithTimeoutExpires(t *testing.T) {
	p := WithTimeout(&blockingProvider{}, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Complete(context.Background(), CompletionRequest{})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected an error from the expired call")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestWithTimeoutZeroIsNoop(t *testing.T) {
	mock := NewMockProvider("inner")
	p := WithTimeout(mock, 0)
	if p != Provider(mock) {
		t.Error("expected zero timeout to return the provider unchanged")
	}
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	mock := NewMockProvider("inner")
	p := WithTimeout(mock, time.Second)

	resp, err := p.Complete(context.Background(), CompletionRequest{Model: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected inner response, got %q", resp.Content)
	}
	if p.Name() != "inner" {
		t.Errorf("expected name 'inner', got %q", p.Name())
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	if _, err := NewProvider("bogus", "model"); err == nil {
		t.Error("expected error for unsupported provider type")
	}
}
