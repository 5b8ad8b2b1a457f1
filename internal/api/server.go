package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatpulse/chatpulse/internal/ingest"
	"github.com/chatpulse/chatpulse/internal/store"
)

type Server struct {
	router   *chi.Mux
	port     int
	ingestor *ingest.Ingestor
	store    *store.Store
}

func NewServer(port int, ingestor *ingest.Ingestor, db *store.Store) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		ingestor: ingestor,
		store:    db,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/chatpulse/status", s.status)
	router.Post("/api/v1/chatlogs", s.createChatLog)
	router.Get("/api/v1/chatlogs/{id}/messages", s.listMessages)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"service": "chatpulse",
		"status":  "ready",
	})
}
