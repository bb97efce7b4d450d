package history

import "time"

// Kind distinguishes the two recorded operations.
type Kind string

const (
	KindIngest Kind = "ingest"
	KindAnswer Kind = "answer"
)

// Entry is one recorded ingestion or answer outcome.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`
	// Subject is the document source for ingestions, the question for answers.
	Subject string `json:"subject"`
	// Outcome is the ingestion outcome tag or the answer provenance.
	Outcome string `json:"outcome"`
	// Detail holds the indexed summary or the returned answer text.
	Detail string `json:"detail,omitempty"`
}
