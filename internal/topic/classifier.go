package topic

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/concertbot/concertbot/internal/llm"
)

const documentPrompt = "Is the following text related to concerts, tours, venues, performers, " +
	"schedules, or logistics? Reply only 'yes' or 'no'.\n\n%s"

const questionPrompt = "Is the following question about concerts, tours, venues, performers, " +
	"schedules, or logistics? Reply only 'yes' or 'no'.\n\n%s"

// ContainsYes is the default decision predicate: the response is positive
// when it contains the word "yes" anywhere, case-insensitively. This is a
// substring test, not an exact match, so "yes, but also no" is positive.
func ContainsYes(response string) bool {
	return strings.Contains(strings.ToLower(response), "yes")
}

// Classifier is a binary topic gate over an LLM provider. Classification
// failures are treated as off-topic (fail-closed): text the model cannot
// judge is never admitted.
type Classifier struct {
	provider llm.Provider
	model    string

	// Decide maps the raw model response to the yes/no verdict.
	// Defaults to ContainsYes.
	Decide func(response string) bool
}

// NewClassifier creates a Classifier using the given provider and model.
func NewClassifier(provider llm.Provider, model string) *Classifier {
	return &Classifier{
		provider: provider,
		model:    model,
		Decide:   ContainsYes,
	}
}

// IsOnTopicDocument reports whether a document belongs to the concert domain.
func (c *Classifier) IsOnTopicDocument(ctx context.Context, text string) bool {
	return c.classify(ctx, fmt.Sprintf(documentPrompt, text))
}

// IsOnTopicQuestion reports whether a user question belongs to the concert domain.
func (c *Classifier) IsOnTopicQuestion(ctx context.Context, question string) bool {
	return c.classify(ctx, fmt.Sprintf(questionPrompt, question))
}

func (c *Classifier) classify(ctx context.Context, prompt string) bool {
	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model:     c.model,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens: 8,
	})
	if err != nil {
		log.Printf("topic classification failed, treating as off-topic: %v", err)
		return false
	}
	return c.Decide(resp.Content)
}
