package vectorstore

import "time"

// Metadata holds structured information about an indexed record.
type Metadata struct {
	Source     string
	IngestedAt time.Time
}

// Record is one entry in the index: the indexed text plus its metadata.
// The text is a summary of the original document, not the raw document.
type Record struct {
	ID   string
	Text string
	Meta Metadata
}

// SearchResult pairs indexed text with its similarity score.
type SearchResult struct {
	Text  string
	Score float32
	Meta  Metadata
}

// metadataToMap converts Metadata to a flat map[string]string for chromem.
func metadataToMap(m Metadata) map[string]string {
	return map[string]string{
		"source":      m.Source,
		"ingested_at": m.IngestedAt.Format(time.RFC3339),
	}
}

// mapToMetadata converts a flat map[string]string back to Metadata.
func mapToMetadata(m map[string]string) Metadata {
	ingestedAt, _ := time.Parse(time.RFC3339, m["ingested_at"])
	return Metadata{
		Source:     m["source"],
		IngestedAt: ingestedAt,
	}
}
