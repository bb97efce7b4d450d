package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/concertbot/concertbot/internal/llm"
)

// OffTopicSentinel is the exact string the model is instructed to emit when
// a document has no concert content. It is recognized here, once, and turned
// into a tagged outcome; nothing downstream re-parses the text.
const OffTopicSentinel = "This document does not appear to be concert-related."

const summarizePrompt = `Summarize the following concert tour document in 3-4 sentences.
Focus on dates, performers, venues, and logistics.
If the document has nothing to do with concerts, tours, venues, or performers,
reply EXACTLY with: %s

Document:
%s

Summary:`

// Kind tags the outcome of a summarization call.
type Kind int

const (
	// KindSummary means the model produced a usable digest.
	KindSummary Kind = iota
	// KindOffTopic means the model emitted the off-topic sentinel.
	KindOffTopic
)

// Outcome is the tagged result of Summarize.
type Outcome struct {
	Kind    Kind
	Summary string
}

// Summarizer compresses a document into a short digest via an LLM provider.
type Summarizer struct {
	provider llm.Provider
	model    string
}

// NewSummarizer creates a Summarizer using the given provider and model.
func NewSummarizer(provider llm.Provider, model string) *Summarizer {
	return &Summarizer{provider: provider, model: model}
}

// Summarize produces a digest of the document. A failed model call, or a call
// that comes back with no text at all, returns an error, which is distinct
// from the off-topic outcome: callers apply different recovery policies to
// the two cases.
func (s *Summarizer) Summarize(ctx context.Context, text string) (Outcome, error) {
	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Model:    s.model,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf(summarizePrompt, OffTopicSentinel, text)}},
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("summarization failed: %w", err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return Outcome{}, fmt.Errorf("summarization returned an empty completion")
	}
	if strings.HasPrefix(content, OffTopicSentinel) {
		return Outcome{Kind: KindOffTopic}, nil
	}

	return Outcome{Kind: KindSummary, Summary: content}, nil
}
