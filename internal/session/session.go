// Package session holds the per-diagram interaction state: the focused
// node, the active civilization and the highlight marks. Each pointer event
// returns the render operations a client applies to its surface.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ziadkadry99/techtree/internal/catalogue"
	"github.com/ziadkadry99/techtree/internal/civ"
	"github.com/ziadkadry99/techtree/internal/engine"
	"github.com/ziadkadry99/techtree/internal/highlight"
	"github.com/ziadkadry99/techtree/internal/overlay"
)

var (
	// ErrUnknownSession is returned when a session id is not live or stored.
	ErrUnknownSession = errors.New("unknown session")
	// ErrUnknownNode is returned when an event names a node that is not in
	// the layout.
	ErrUnknownNode = errors.New("unknown node")
)

// Update is the result of a pointer event.
type Update struct {
	Ops []highlight.Op `json:"ops"`
	// Hide asks the client to close the popup.
	Hide bool `json:"hide,omitempty"`
	// Badges is set when the active civilization changed while a node is
	// focused.
	Badges []civ.Badge `json:"badges,omitempty"`
}

// FocusView is everything the client needs after a node is clicked.
type FocusView struct {
	Node      catalogue.Node    `json:"node"`
	Help      engine.Help       `json:"help"`
	Placement overlay.Placement `json:"placement"`
	Civ       string            `json:"civ"`
	Available bool              `json:"available"`
	Badges    []civ.Badge       `json:"badges"`
	Ops       []highlight.Op    `json:"ops"`
}

// State is the persisted part of a session.
type State struct {
	ID        string    `json:"id"`
	Civ       string    `json:"civ"`
	Focused   string    `json:"focused"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is one diagram instance. Events are serialized by an internal
// lock, so each one is handled to completion before the next.
type Session struct {
	mu sync.Mutex

	id      string
	eng     *engine.Engine
	rec     *highlight.Recorder
	hl      *highlight.Highlighter
	civ     string
	created time.Time
	updated time.Time

	// onChange is called with the new state after focus or civ changes.
	onChange func(State)
}

// New creates a session over eng with the given active civilization.
func New(id string, eng *engine.Engine, civID string) *Session {
	rec := &highlight.Recorder{}
	now := time.Now().UTC()
	return &Session{
		id:      id,
		eng:     eng,
		rec:     rec,
		hl:      highlight.New(eng.Graph, rec),
		civ:     civID,
		created: now,
		updated: now,
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns a snapshot of the persisted state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	return State{
		ID:        s.id,
		Civ:       s.civ,
		Focused:   s.hl.Focus(),
		CreatedAt: s.created,
		UpdatedAt: s.updated,
	}
}

// Hover transiently highlights the path of nodeID.
func (s *Session) Hover(nodeID string) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.node(nodeID); err != nil {
		return Update{}, err
	}
	s.hl.Apply(nodeID)
	return Update{Ops: s.rec.Drain()}, nil
}

// Leave ends a hover and brings back the committed focus highlight.
func (s *Session) Leave() Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hl.RestoreFocusHighlight()
	return Update{Ops: s.rec.Drain()}
}

// Click commits nodeID as the focus, highlights its path, composes its
// help, places the popup and computes badge availability.
func (s *Session) Click(nodeID string, size overlay.Size, vp overlay.Viewport) (FocusView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.node(nodeID)
	if err != nil {
		return FocusView{}, err
	}

	s.hl.SetFocus(n.ID)
	s.hl.Apply(n.ID)
	view := FocusView{
		Node:      n,
		Help:      s.eng.ComposeNode(n),
		Placement: overlay.Place(n.Rect, size, vp),
		Civ:       s.civ,
		Available: s.eng.Civs.IsAvailable(s.civ, n.Kind, n.ID),
		Badges:    s.eng.Civs.Badges(n.Kind, n.ID),
		Ops:       s.rec.Drain(),
	}
	s.changed()
	return view, nil
}

// Dismiss clears the focus and every highlight, and hides the popup.
func (s *Session) Dismiss() Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hl.SetFocus("")
	s.hl.Clear()
	s.changed()
	return Update{Ops: s.rec.Drain(), Hide: true}
}

// SelectCiv swaps the active civilization. An unknown civ is accepted; every
// entity then reports unavailable.
func (s *Session) SelectCiv(civID string) Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.civ = civID
	s.changed()

	var u Update
	if focus := s.hl.Focus(); focus != "" {
		if n, err := s.node(focus); err == nil {
			u.Badges = s.eng.Civs.Badges(n.Kind, n.ID)
		}
	}
	return u
}

// restore re-applies a persisted focus without reporting a change.
func (s *Session) restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.civ = st.Civ
	s.created, s.updated = st.CreatedAt, st.UpdatedAt
	if _, err := s.node(st.Focused); err == nil {
		s.hl.SetFocus(st.Focused)
		s.hl.Apply(st.Focused)
		s.rec.Drain()
	}
}

func (s *Session) node(id string) (catalogue.Node, error) {
	n, err := s.eng.Node(id)
	if err != nil {
		return catalogue.Node{}, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

func (s *Session) changed() {
	s.updated = time.Now().UTC()
	if s.onChange != nil {
		s.onChange(s.state())
	}
}
