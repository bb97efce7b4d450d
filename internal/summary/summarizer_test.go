package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/concertbot/concertbot/internal/llm"
)

type cannedProvider struct {
	response string
	err      error
}

func (p *cannedProvider) Name() string { return "canned" }

func (p *cannedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.response}, nil
}

func TestSummarizeOK(t *testing.T) {
	s := NewSummarizer(&cannedProvider{
		response: "  Band X plays Arena Y on 2025-07-01. Tickets are $50.  ",
	}, "test-model")

	out, err := s.Summarize(context.Background(), "Tour announced: Band X plays Arena Y on 2025-07-01, tickets $50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != KindSummary {
		t.Fatalf("expected KindSummary, got %v", out.Kind)
	}
	if out.Summary != "Band X plays Arena Y on 2025-07-01. Tickets are $50." {
		t.Errorf("expected trimmed summary, got %q", out.Summary)
	}
}

func TestSummarizeOffTopicSentinel(t *testing.T) {
	s := NewSummarizer(&cannedProvider{response: OffTopicSentinel}, "test-model")

	out, err := s.Summarize(context.Background(), "Quarterly earnings report for Acme Corp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != KindOffTopic {
		t.Errorf("expected KindOffTopic, got %v", out.Kind)
	}
	if out.Summary != "" {
		t.Errorf("off-topic outcome should carry no summary, got %q", out.Summary)
	}
}

func TestSummarizeSentinelWithTrailingText(t *testing.T) {
	s := NewSummarizer(&cannedProvider{
		response: OffTopicSentinel + " It covers financial results only.",
	}, "test-model")

	out, err := s.Summarize(context.Background(), "some text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Kind != KindOffTopic {
		t.Errorf("sentinel prefix should mark the outcome off-topic, got %v", out.Kind)
	}
}

func TestSummarizeEmptyCompletionIsAnError(t *testing.T) {
	for _, resp := range []string{"", "   ", "\n\t"} {
		s := NewSummarizer(&cannedProvider{response: resp}, "test-model")

		_, err := s.Summarize(context.Background(), "Band X tour dates")
		if err == nil {
			t.Errorf("response %q: expected an error for an empty completion", resp)
		}
	}
}

func TestSummarizeFailureIsDistinctFromOffTopic(t *testing.T) {
	s := NewSummarizer(&cannedProvider{err: errors.New("model unavailable")}, "test-model")

	_, err := s.Summarize(context.Background(), "some text")
	if err == nil {
		t.Fatal("expected an error when the model call fails")
	}
}
