// Package statusapi serves the optional HTTP status endpoint: health
// check, prometheus metrics, and a JSON view of the loaded message list.
// It is purely observational; no route mutates server state.
package statusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/popfiled/popfiled/logger"
	"github.com/popfiled/popfiled/mailbox"
)

// Server represents the HTTP status server
type Server struct {
	addr   string
	store  *mailbox.Store
	server *http.Server
}

// New creates a new HTTP status server over the loaded message store.
func New(addr string, store *mailbox.Store) *Server {
	return &Server{
		addr:  addr,
		store: store,
	}
}

// Start runs the HTTP status server until ctx is cancelled. Failures are
// reported on errChan.
func Start(ctx context.Context, addr string, store *mailbox.Store, errChan chan error) {
	server := New(addr, store)
	logger.Info("status API listening", "addr", addr)
	if err := server.start(ctx); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		errChan <- fmt.Errorf("status API server failed: %w", err)
	}
}

func (s *Server) start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.setupRoutes(),
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Debug("shutting down status API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			logger.Error("error shutting down status API server", "error", err)
		}
	}()

	return s.server.ListenAndServe()
}

func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/messages", s.handleListMessages).Methods("GET")

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// messageEntry is one row of the JSON scan listing.
type messageEntry struct {
	Number int    `json:"number"`
	UID    string `json:"uid"`
	Size   int    `json:"size"`
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs := s.store.Messages()
	entries := make([]messageEntry, 0, len(msgs))
	for i, msg := range msgs {
		entries = append(entries, messageEntry{Number: i + 1, UID: msg.UID, Size: msg.Size})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":        s.store.Count(),
		"total_octets": s.store.TotalSize(),
		"messages":     entries,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}
