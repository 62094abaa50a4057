// Package healthcheck provides a minimal HTTP health check server.
package healthcheck

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/footyoracle/internal/storage"
)

// StatsFunc reports the current prediction statistics.
type StatsFunc func() storage.Stats

// Server is a minimal HTTP server for health checks.
type Server struct {
	server *http.Server
}

// New creates a new lightweight health check server. stats may be nil, in
// which case /stats is not served.
func New(addr string, stats StatsFunc) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           Handler(stats),
			ReadTimeout:       2 * time.Second,
			WriteTimeout:      2 * time.Second,
			IdleTimeout:       30 * time.Second,
			ReadHeaderTimeout: 1 * time.Second,
			MaxHeaderBytes:    1 << 10, // 1KB
		},
	}
}

// Handler returns the routes served by the health server.
func Handler(stats StatsFunc) http.Handler {
	mux := http.NewServeMux()

	// Minimal response, no allocations
	mux.HandleFunc("/", ok)
	mux.HandleFunc("/health", ok)

	if stats != nil {
		mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(stats()); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		})
	}

	return mux
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Start starts the health check server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Serve serves on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
