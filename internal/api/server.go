package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"CoinPulse/internal/dashboard"
)

type Server struct {
	dash       *dashboard.Dashboard
	httpServer *http.Server
	apiKey     string

	refreshTimeout time.Duration
}

func NewServer(dash *dashboard.Dashboard, addr, apiKey, corsOrigin string) *Server {
	s := &Server{dash: dash, apiKey: apiKey, refreshTimeout: refreshWaitTimeout}

	mux := http.NewServeMux()

	// Market routes
	mux.HandleFunc("GET /v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /v1/coins", s.handleCoins)
	mux.HandleFunc("GET /v1/coins/{id}", s.handleCoinDetail)
	mux.HandleFunc("GET /v1/coins/{id}/sparkline", s.handleSparkline)
	mux.HandleFunc("POST /v1/refresh", s.handleRefresh)

	// Watchlist routes
	mux.HandleFunc("GET /v1/watchlist", s.handleWatchlist)
	mux.HandleFunc("POST /v1/watchlist/{id}/toggle", s.handleWatchlistToggle)

	// Portfolio routes
	mux.HandleFunc("GET /v1/portfolio", s.handlePortfolio)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.authMiddleware(corsMiddleware(mux, corsOrigin)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start serves until Shutdown; it returns nil after a clean shutdown.
func (s *Server) Start() error {
	log.Printf("[INFO] API server listening on %s", s.httpServer.Addr)
	if s.apiKey != "" {
		log.Println("[INFO] API authentication: enabled (Bearer token)")
	} else {
		log.Println("[WARN] API authentication: disabled (no API key configured)")
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
