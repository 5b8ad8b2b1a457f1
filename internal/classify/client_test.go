package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPredict_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/predict" {
			t.Errorf("expected /v1/predict, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %q", r.Header.Get("Content-Type"))
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Text != "me encanta" {
			t.Errorf("expected text, got %q", req.Text)
		}
		if req.Task != TaskSentiment {
			t.Errorf("expected sentiment task, got %q", req.Task)
		}
		if req.Lang != "es" {
			t.Errorf("expected lang es, got %q", req.Lang)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response{
			Probas: map[string]float64{"NEG": 0.05, "NEU": 0.15, "POS": 0.8},
			Output: "POS",
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "test-token")
	p, err := c.Predict(context.Background(), "me encanta", TaskSentiment, "es")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MaxLabel != "POS" {
		t.Errorf("expected POS, got %q", p.MaxLabel)
	}
	if p.Probas["POS"] != 0.8 {
		t.Errorf("expected POS 0.8, got %v", p.Probas["POS"])
	}
}

func TestPredict_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    "invalid_request_error",
				"message": "text too long",
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.Predict(context.Background(), "hi", TaskSentiment, "en")
	if err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestPredict_EmptyDistribution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response{Output: "POS"})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.Predict(context.Background(), "hi", TaskSentiment, "en")
	if err == nil {
		t.Fatal("expected error for empty probability distribution")
	}
}
