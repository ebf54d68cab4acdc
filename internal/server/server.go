package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/techtree/internal/db"
	"github.com/ziadkadry99/techtree/internal/engine"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the techtree viewer backend.
type Server struct {
	cfg        Config
	db         *db.DB
	eng        *engine.Engine
	root       chi.Router
	api        chi.Router
	httpServer *http.Server
}

// New creates a server over an engine. database may be nil.
func New(cfg Config, database *db.DB, eng *engine.Engine) *Server {
	s := &Server{
		cfg: cfg,
		db:  database,
		eng: eng,
	}

	s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router.
func (s *Server) buildRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","nodes":%d}`, s.nodeCount())
	})

	s.root = r
	// Long-lived connections (websockets) register on Streams(); everything
	// else gets a request timeout.
	s.api = r.With(middleware.Timeout(60 * time.Second))
}

func (s *Server) nodeCount() int {
	if s.eng == nil {
		return 0
	}
	return len(s.eng.Catalogue.Layout.Nodes)
}

// Router returns the router for request/response routes. Handlers
// registered here are cancelled after 60 seconds.
func (s *Server) Router() chi.Router { return s.api }

// Streams returns the router for long-lived connections.
func (s *Server) Streams() chi.Router { return s.root }

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.root }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Engine returns the engine the server was built over.
func (s *Server) Engine() *engine.Engine { return s.eng }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.root,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("techtree server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
