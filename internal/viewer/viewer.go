// Package viewer exposes the diagram interaction engine over HTTP: read-only
// lookups, stateless placement, and per-session pointer events delivered
// either as REST calls or over a websocket.
package viewer

import (
	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/overlay"
	"github.com/ziadkadry99/techtree/internal/search"
	"github.com/ziadkadry99/techtree/internal/session"
)

// Viewer serves the interaction API.
type Viewer struct {
	eng      *engine.Engine
	sessions *session.Manager
	searcher search.Searcher
	viewport overlay.Viewport
	civ      string
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithSearch enables /api/search.
func WithSearch(s search.Searcher) Option {
	return func(v *Viewer) { v.searcher = s }
}

// WithViewport sets the container used when a request does not carry one.
func WithViewport(vp overlay.Viewport) Option {
	return func(v *Viewer) { v.viewport = vp }
}

// WithDefaultCiv sets the civilization new sessions start with.
func WithDefaultCiv(civID string) Option {
	return func(v *Viewer) { v.civ = civID }
}

// New creates a Viewer.
func New(eng *engine.Engine, sessions *session.Manager, opts ...Option) *Viewer {
	v := &Viewer{
		eng:      eng,
		sessions: sessions,
		viewport: overlay.Viewport{Width: 1280, Height: 800},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RegisterRoutes mounts the request/response routes on api and the
// websocket event channel on streams. The two may be the same router.
func (v *Viewer) RegisterRoutes(api, streams chi.Router) {
	api.Get("/", v.ServeIndex)

	api.Get("/api/nodes", v.handleNodes)
	api.Get("/api/nodes/{id}/path", v.handlePath)
	api.Get("/api/entities/{kind}/{id}/help", v.handleHelp)
	api.Get("/api/entities/{kind}/{id}/badges", v.handleBadges)
	api.Post("/api/overlay/place", v.handlePlace)
	api.Get("/api/civs", v.handleCivs)
	api.Get("/api/civs/{civ}/available/{kind}/{id}", v.handleAvailable)
	api.Get("/api/search", v.handleSearch)

	api.Get("/api/sessions", v.handleListSessions)
	api.Post("/api/sessions", v.handleCreateSession)
	api.Get("/api/sessions/{sid}", v.handleGetSession)
	api.Delete("/api/sessions/{sid}", v.handleDeleteSession)
	api.Post("/api/sessions/{sid}/hover", v.handleHover)
	api.Post("/api/sessions/{sid}/leave", v.handleLeave)
	api.Post("/api/sessions/{sid}/click", v.handleClick)
	api.Post("/api/sessions/{sid}/dismiss", v.handleDismiss)
	api.Post("/api/sessions/{sid}/civ", v.handleSelectCiv)

	streams.Get("/api/sessions/{sid}/events", v.handleEvents)
}
