package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/concertbot/concertbot/internal/answer"
	"github.com/concertbot/concertbot/internal/db"
	"github.com/concertbot/concertbot/internal/history"
	"github.com/concertbot/concertbot/internal/ingest"
)

type stubIngester struct {
	result  *ingest.Result
	err     error
	lastDoc ingest.Document
}

func (s *stubIngester) Ingest(ctx context.Context, doc ingest.Document) (*ingest.Result, error) {
	s.lastDoc = doc
	return s.result, s.err
}

type stubAnswerer struct {
	answer answer.Answer
	err    error
}

func (s *stubAnswerer) Answer(ctx context.Context, question string) (answer.Answer, error) {
	return s.answer, s.err
}

func newTestServer(t *testing.T, ing *stubIngester, ans *stubAnswerer) (*Server, *history.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	hist := history.NewStore(database)
	return New(Config{Port: 0}, ing, ans, hist), hist
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, &stubIngester{}, &stubAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestIngestEndpoint(t *testing.T) {
	ing := &stubIngester{result: &ingest.Result{
		Outcome:     ingest.OutcomeIndexed,
		IndexedText: "Band X plays Arena Y on 2025-07-01.",
	}}
	s, hist := newTestServer(t, ing, &stubAnswerer{})

	rec := postJSON(t, s, "/api/ingest", map[string]string{
		"content": "Tour announced: Band X plays Arena Y",
		"source":  "tour.txt",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ingestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome != "indexed" {
		t.Errorf("expected outcome indexed, got %q", resp.Outcome)
	}
	if resp.Summary != ing.result.IndexedText {
		t.Errorf("expected the indexed summary in the response, got %q", resp.Summary)
	}
	if ing.lastDoc.Source != "tour.txt" {
		t.Errorf("expected the source to be forwarded, got %q", ing.lastDoc.Source)
	}

	entries, err := hist.Query(context.Background(), history.QueryFilter{Kind: history.KindIngest})
	if err != nil {
		t.Fatalf("history query: %v", err)
	}
	if len(entries) != 1 || entries[0].Outcome != "indexed" {
		t.Errorf("expected one indexed history entry, got %+v", entries)
	}
}

func TestIngestEndpointDefaultsSource(t *testing.T) {
	ing := &stubIngester{result: &ingest.Result{Outcome: ingest.OutcomeRejected}}
	s, _ := newTestServer(t, ing, &stubAnswerer{})

	rec := postJSON(t, s, "/api/ingest", map[string]string{"content": "Quarterly earnings"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ing.lastDoc.Source != "api-upload" {
		t.Errorf("expected the default source, got %q", ing.lastDoc.Source)
	}
}

func TestIngestEndpointBadRequests(t *testing.T) {
	s, _ := newTestServer(t, &stubIngester{}, &stubAnswerer{})

	rec := postJSON(t, s, "/api/ingest", map[string]string{"source": "x.txt"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing content: expected 400, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader("not json"))
	rec2 := httptest.NewRecorder()
	s.Router().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rec2.Code)
	}
}

func TestAskEndpoint(t *testing.T) {
	ans := &stubAnswerer{answer: answer.Answer{
		Text:       "Band X plays Arena Y on July 1.",
		Provenance: answer.ProvenanceGenerated,
	}}
	s, hist := newTestServer(t, &stubIngester{}, ans)

	rec := postJSON(t, s, "/api/ask", map[string]string{"question": "When does Band X play?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp askResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != ans.answer.Text {
		t.Errorf("expected the answer text, got %q", resp.Answer)
	}
	if resp.Provenance != "generated" {
		t.Errorf("expected generated provenance, got %q", resp.Provenance)
	}

	entries, err := hist.Query(context.Background(), history.QueryFilter{Kind: history.KindAnswer})
	if err != nil {
		t.Fatalf("history query: %v", err)
	}
	if len(entries) != 1 || entries[0].Outcome != "generated" {
		t.Errorf("expected one generated history entry, got %+v", entries)
	}
}

func TestAskEndpointTotalFailureIsBadGateway(t *testing.T) {
	ans := &stubAnswerer{err: errors.New("both local and online search failed: missing credential")}
	s, _ := newTestServer(t, &stubIngester{}, ans)

	rec := postJSON(t, s, "/api/ask", map[string]string{"question": "When does Band X play?"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "both local and online search failed") {
		t.Errorf("expected the failure message, got %s", rec.Body.String())
	}
}

func TestAskEndpointMissingQuestion(t *testing.T) {
	s, _ := newTestServer(t, &stubIngester{}, &stubAnswerer{})

	rec := postJSON(t, s, "/api/ask", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	s, hist := newTestServer(t, &stubIngester{}, &stubAnswerer{})

	seed := []history.Entry{
		{Kind: history.KindIngest, Subject: "a.txt", Outcome: "indexed"},
		{Kind: history.KindAnswer, Subject: "q1", Outcome: "escalated"},
	}
	for _, e := range seed {
		if err := hist.Log(context.Background(), e); err != nil {
			t.Fatalf("seed history: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history?kind=ingest", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var entries []history.Entry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].Subject != "a.txt" {
		t.Errorf("expected only the ingest entry, got %+v", entries)
	}
}

func TestHistoryEndpointEmptyIsJSONArray(t *testing.T) {
	s, _ := newTestServer(t, &stubIngester{}, &stubAnswerer{})

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected an empty JSON array, got %s", got)
	}
}
