package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wfm-flipper/internal/config"
	"wfm-flipper/internal/db"
	"wfm-flipper/internal/engine"
	"wfm-flipper/internal/wfm"
)

// Server is the HTTP API server that connects the marketplace client, the
// scanner engine, and the database.
type Server struct {
	mu      sync.RWMutex
	cfg     *config.Config
	client  *wfm.Client
	scanner *engine.Scanner
	db      *db.DB
	version string
}

// NewServer creates a Server with the given config, client, scanner and
// database.
func NewServer(cfg *config.Config, client *wfm.Client, scanner *engine.Scanner, database *db.DB, version string) *Server {
	return &Server{
		cfg:     cfg,
		client:  client,
		scanner: scanner,
		db:      database,
		version: version,
	}
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/report/coverage", s.handleCoverage)
	mux.HandleFunc("GET /api/items/autocomplete", s.handleAutocomplete)
	mux.HandleFunc("GET /api/items/{slug}/statistics", s.handleItemStatistics)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.Handle("GET /metrics", promhttp.Handler())
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
