package history

import (
	"context"
	"testing"

	"github.com/concertbot/concertbot/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestLogAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	entries := []Entry{
		{Kind: KindIngest, Subject: "tour.txt", Outcome: "indexed", Detail: "Band X plays Arena Y."},
		{Kind: KindIngest, Subject: "earnings.txt", Outcome: "rejected-off-topic"},
		{Kind: KindAnswer, Subject: "When does Band X play?", Outcome: "generated", Detail: "July 1."},
	}
	for _, e := range entries {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	all, err := store.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	for _, e := range all {
		if e.ID == "" {
			t.Error("expected a generated ID")
		}
		if e.Timestamp.IsZero() {
			t.Error("expected a timestamp")
		}
	}
}

func TestQueryFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed := []Entry{
		{Kind: KindIngest, Subject: "a.txt", Outcome: "indexed"},
		{Kind: KindIngest, Subject: "b.txt", Outcome: "rejected-off-topic"},
		{Kind: KindAnswer, Subject: "q1", Outcome: "escalated"},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	ingests, err := store.Query(ctx, QueryFilter{Kind: KindIngest})
	if err != nil {
		t.Fatalf("Query by kind: %v", err)
	}
	if len(ingests) != 2 {
		t.Errorf("expected 2 ingest entries, got %d", len(ingests))
	}

	rejected, err := store.Query(ctx, QueryFilter{Outcome: "rejected-off-topic"})
	if err != nil {
		t.Fatalf("Query by outcome: %v", err)
	}
	if len(rejected) != 1 || rejected[0].Subject != "b.txt" {
		t.Errorf("expected only b.txt, got %+v", rejected)
	}

	limited, err := store.Query(ctx, QueryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Query with limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 entry under limit, got %d", len(limited))
	}
}
