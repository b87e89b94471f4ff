package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-session-feed/internal/feed"
	"go-session-feed/internal/interfaces"
)

// Server represents the HTTP session feed server
type Server struct {
	store  interfaces.SessionStore
	cache  interfaces.Cache
	keys   interfaces.KeyBuilder
	logger *zap.Logger
	server *http.Server

	// One feed controller per sport filter, created lazily. The controller
	// owns its page state; the handlers only translate HTTP to it.
	mu          sync.Mutex
	controllers map[string]*feed.Controller
}

// NewServer creates a new session feed HTTP server
func NewServer(store interfaces.SessionStore, cache interfaces.Cache, keys interfaces.KeyBuilder, logger *zap.Logger) *Server {
	return &Server{
		store:       store,
		cache:       cache,
		keys:        keys,
		logger:      logger,
		controllers: make(map[string]*feed.Controller),
	}
}

// controllerFor returns the feed controller for the given sport filter,
// creating and priming it on first use
func (s *Server) controllerFor(ctx context.Context, sportID *int64) *feed.Controller {
	key := s.keys.SessionsKey(sportID)

	s.mu.Lock()
	ctrl, ok := s.controllers[key]
	if !ok {
		ctrl = feed.NewController(s.store, s.cache, s.keys, s.logger)
		s.controllers[key] = ctrl
	}
	s.mu.Unlock()

	if !ok {
		ctrl.SetSport(ctx, sportID)
	}
	return ctrl
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	router := s.createRouter()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting session feed HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping session feed HTTP server")
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Feed endpoints
	router.HandleFunc("/api/v1/sessions", s.handleSessions).Methods("GET")
	router.HandleFunc("/api/v1/sports", s.handleSports).Methods("GET")
	router.HandleFunc("/api/v1/refresh", s.handleRefresh).Methods("POST")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("Health check store ping failed", zap.Error(err))
		status = "degraded"
	}
	s.writeResponse(w, map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC(),
	})
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
