package llm

import (
	"context"
	"time"
)

// timeoutProvider wraps another Provider and bounds every completion call
// with a deadline. Expiry surfaces as the wrapped provider's error, so
// callers handle a slow model the same way as a failed one.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout decorates a provider with a per-call timeout. A zero or
// negative timeout returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &timeoutProvider{inner: p, timeout: timeout}
}

func (p *timeoutProvider) Name() string {
	return p.inner.Name()
}

func (p *timeoutProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.inner.Complete(ctx, req)
}
