package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/testlens-hq/testlens/internal/config"
	"github.com/testlens-hq/testlens/internal/engine"
)

// Server represents the API server
type Server struct {
	cfg    *config.Config
	engine *engine.Engine
	router *chi.Mux
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, eng *engine.Engine) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		engine: eng,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	if s.cfg.MaxSourceBytes > 0 {
		s.router.Use(middleware.RequestSize(int64(s.cfg.MaxSourceBytes)))
	}
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ready", s.readyCheck)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// One-shot analysis
		r.Post("/analyze", s.analyzeClass)

		// Guided testing sessions
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.createSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.getSession)
				r.Delete("/", s.deleteSession)
				r.Post("/next", s.nextMethod)
				r.Post("/complete", s.completeMethod)
			})
		})
	})
}

// Health check handlers
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) readyCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
