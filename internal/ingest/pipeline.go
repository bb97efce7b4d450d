package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/concertbot/concertbot/internal/summary"
	"github.com/concertbot/concertbot/internal/topic"
	"github.com/concertbot/concertbot/internal/vectorstore"
)

// rawFallbackChars is how much of the raw document gets indexed when
// summarization fails outright.
const rawFallbackChars = 1000

// Document is one piece of user-supplied text entering the pipeline.
type Document struct {
	Content    string
	Source     string
	ReceivedAt time.Time
}

// Outcome tags how a document left the pipeline.
type Outcome int

const (
	// OutcomeIndexed means the document was summarized and indexed.
	OutcomeIndexed Outcome = iota
	// OutcomeIndexedRaw means summarization failed and a raw-text prefix
	// was indexed instead.
	OutcomeIndexedRaw
	// OutcomeRejected means the topic classifier judged the document
	// off-topic; nothing was indexed.
	OutcomeRejected
	// OutcomeSkipped means the summarizer's own off-topic gate fired;
	// nothing was indexed.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIndexed:
		return "indexed"
	case OutcomeIndexedRaw:
		return "indexed-raw-fallback"
	case OutcomeRejected:
		return "rejected-off-topic"
	case OutcomeSkipped:
		return "skipped-off-topic"
	default:
		return "unknown"
	}
}

// Result reports what happened to one document.
type Result struct {
	Outcome     Outcome
	IndexedText string // empty unless something was indexed
}

// Pipeline runs one document through classify -> summarize -> upsert ->
// persist. The classifier gate and the summarizer's own off-topic sentinel
// are independent checks; a document must clear both to be indexed.
type Pipeline struct {
	classifier *topic.Classifier
	summarizer *summary.Summarizer
	store      *vectorstore.Store
}

// NewPipeline creates a Pipeline over the given capabilities and store.
func NewPipeline(classifier *topic.Classifier, summarizer *summary.Summarizer, store *vectorstore.Store) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		summarizer: summarizer,
		store:      store,
	}
}

// Ingest processes a single document. It returns a Result for every
// non-error path; an error means the document could not be persisted and
// nothing was committed.
func (p *Pipeline) Ingest(ctx context.Context, doc Document) (*Result, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("document %q has no content", doc.Source)
	}

	if !p.classifier.IsOnTopicDocument(ctx, doc.Content) {
		return &Result{Outcome: OutcomeRejected}, nil
	}

	outcome := OutcomeIndexed
	text := ""

	sum, err := p.summarizer.Summarize(ctx, doc.Content)
	switch {
	case err != nil:
		// Summarization failure is not fatal: index a prefix of the raw
		// text rather than losing the document.
		log.Printf("summarization failed for %q, indexing raw prefix: %v", doc.Source, err)
		outcome = OutcomeIndexedRaw
		text = rawPrefix(doc.Content)
	case sum.Kind == summary.KindOffTopic:
		// The summarizer disagreed with the classifier. Its gate is
		// independent and also binding.
		return &Result{Outcome: OutcomeSkipped}, nil
	default:
		text = sum.Summary
	}

	receivedAt := doc.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	meta := vectorstore.Metadata{Source: doc.Source, IngestedAt: receivedAt}
	if err := p.store.Append(ctx, text, meta); err != nil {
		return nil, fmt.Errorf("indexing %q: %w", doc.Source, err)
	}

	return &Result{Outcome: outcome, IndexedText: text}, nil
}

// rawPrefix returns the first rawFallbackChars characters of the text.
func rawPrefix(text string) string {
	runes := []rune(text)
	if len(runes) <= rawFallbackChars {
		return text
	}
	return string(runes[:rawFallbackChars])
}
