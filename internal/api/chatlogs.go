package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chatpulse/chatpulse/internal/chatlog"
	"github.com/chatpulse/chatpulse/internal/classify"
	"github.com/chatpulse/chatpulse/internal/ingest"
)

// IngestRequest is the POST /api/v1/chatlogs payload. Exactly one of Text
// and Path must be set. MinCount absent means the configured threshold,
// an explicit zero retains every author. Mode and Lang override the
// configured classification settings for this request; an unknown mode is
// rejected, never silently defaulted.
type IngestRequest struct {
	Text     string `json:"text,omitempty"`
	Path     string `json:"path,omitempty"`
	Source   string `json:"source,omitempty"`
	MinCount *int   `json:"min_count,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

// IngestResponse summarizes an ingestion for the caller. NoMatch reports
// the informational "no grammar matched" outcome; it is not an error.
type IngestResponse struct {
	ChatLogID string `json:"chat_log_id,omitempty"`
	Grammar   string `json:"grammar"`
	Messages  int    `json:"messages"`
	Dropped   int    `json:"dropped"`
	NoMatch   bool   `json:"no_match,omitempty"`
}

// createChatLog handles POST /api/v1/chatlogs.
func (s *Server) createChatLog(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"invalid JSON: %v"}`, err), http.StatusBadRequest)
		return
	}
	if (req.Text == "") == (req.Path == "") {
		http.Error(w, `{"error":"exactly one of text and path is required"}`, http.StatusBadRequest)
		return
	}

	opts := ingest.Options{MinCount: req.MinCount, Lang: req.Lang}
	if req.Mode != "" {
		mode, err := classify.ParseMode(req.Mode)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":"%v"}`, err), http.StatusBadRequest)
			return
		}
		opts.Mode = mode
	}

	var (
		result *ingest.Result
		err    error
	)
	if req.Path != "" {
		result, err = s.ingestor.IngestFile(r.Context(), req.Path, opts)
	} else {
		source := req.Source
		if source == "" {
			source = "inline"
		}
		result, err = s.ingestor.IngestText(r.Context(), source, req.Text, opts)
	}
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"ingest failed: %v"}`, err), http.StatusUnprocessableEntity)
		return
	}

	resp := IngestResponse{
		Grammar:  result.Grammar.String(),
		Messages: len(result.Messages),
		Dropped:  result.Dropped,
		NoMatch:  result.Grammar == chatlog.GrammarUnknown,
	}
	if result.ChatLogID != uuid.Nil {
		resp.ChatLogID = result.ChatLogID.String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// listMessages handles GET /api/v1/chatlogs/{id}/messages.
func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, `{"error":"persistence not configured"}`, http.StatusServiceUnavailable)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid chat log id"}`, http.StatusBadRequest)
		return
	}

	msgs, err := s.store.ListMessages(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"list messages: %v"}`, err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"chat_log_id": id.String(),
		"messages":    msgs,
		"count":       len(msgs),
	})
}
