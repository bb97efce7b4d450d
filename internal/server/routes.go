package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/concertbot/concertbot/internal/history"
	"github.com/concertbot/concertbot/internal/ingest"
)

type ingestRequest struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

type ingestResponse struct {
	Outcome string `json:"outcome"`
	Summary string `json:"summary,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api-upload"
	}

	result, err := s.ingester.Ingest(r.Context(), ingest.Document{
		Content:    req.Content,
		Source:     req.Source,
		ReceivedAt: time.Now(),
	})
	if err != nil {
		s.logHistory(r, history.Entry{
			Kind: history.KindIngest, Subject: req.Source, Outcome: "error", Detail: err.Error(),
		})
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logHistory(r, history.Entry{
		Kind:    history.KindIngest,
		Subject: req.Source,
		Outcome: result.Outcome.String(),
		Detail:  result.IndexedText,
	})

	writeJSON(w, http.StatusOK, ingestResponse{
		Outcome: result.Outcome.String(),
		Summary: result.IndexedText,
	})
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer     string `json:"answer"`
	Provenance string `json:"provenance"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	ans, err := s.answerer.Answer(r.Context(), req.Question)
	if err != nil {
		s.logHistory(r, history.Entry{
			Kind: history.KindAnswer, Subject: req.Question, Outcome: "error", Detail: err.Error(),
		})
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	s.logHistory(r, history.Entry{
		Kind:    history.KindAnswer,
		Subject: req.Question,
		Outcome: string(ans.Provenance),
		Detail:  ans.Text,
	})

	writeJSON(w, http.StatusOK, askResponse{
		Answer:     ans.Text,
		Provenance: string(ans.Provenance),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := history.QueryFilter{
		Outcome: q.Get("outcome"),
		Limit:   50,
	}
	if v := q.Get("kind"); v != "" {
		filter.Kind = history.Kind(v)
	}
	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.Since = &t
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	entries, err := s.hist.Query(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) logHistory(r *http.Request, entry history.Entry) {
	if s.hist == nil {
		return
	}
	if err := s.hist.Log(r.Context(), entry); err != nil {
		// History is best-effort; the request outcome is already decided.
		return
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
