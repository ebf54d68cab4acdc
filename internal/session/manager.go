package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ziadkadry99/techtree/internal/db"
	"github.com/ziadkadry99/techtree/internal/engine"
)

// Manager owns the live sessions and mirrors their focus and civ into the
// sessions table, so a client can resume after a server restart.
type Manager struct {
	mu       sync.Mutex
	eng      *engine.Engine
	db       *db.DB
	sessions map[string]*Session
}

// NewManager creates a Manager. database may be nil, in which case sessions
// live only in memory.
func NewManager(eng *engine.Engine, database *db.DB) *Manager {
	return &Manager{
		eng:      eng,
		db:       database,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session with civID active.
func (m *Manager) Create(ctx context.Context, civID string) (*Session, error) {
	s := New(uuid.New().String(), m.eng, civID)
	if m.db != nil {
		st := s.State()
		_, err := m.db.ExecContext(ctx,
			"INSERT INTO sessions (id, civ, focused, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			st.ID, st.Civ, st.Focused, st.CreatedAt, st.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("saving session: %w", err)
		}
	}
	m.track(s)
	return s, nil
}

// Get returns a live session, rehydrating it from the database if needed.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}
	if m.db == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}

	var st State
	err := m.db.QueryRowContext(ctx,
		"SELECT id, civ, focused, created_at, updated_at FROM sessions WHERE id = ?", id,
	).Scan(&st.ID, &st.Civ, &st.Focused, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	s = New(st.ID, m.eng, st.Civ)
	s.restore(st)

	m.mu.Lock()
	defer m.mu.Unlock()
	if live, ok := m.sessions[id]; ok {
		return live, nil
	}
	m.attach(s)
	return s, nil
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, live := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if m.db == nil {
		if !live {
			return fmt.Errorf("%w: %s", ErrUnknownSession, id)
		}
		return nil
	}
	res, err := m.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 && !live {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	return nil
}

// List returns the state of every live session, oldest first.
func (m *Manager) List() []State {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	states := make([]State, len(sessions))
	for i, s := range sessions {
		states[i] = s.State()
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].CreatedAt.Equal(states[j].CreatedAt) {
			return states[i].ID < states[j].ID
		}
		return states[i].CreatedAt.Before(states[j].CreatedAt)
	})
	return states
}

func (m *Manager) track(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attach(s)
}

// attach registers s; callers hold m.mu.
func (m *Manager) attach(s *Session) {
	if m.db != nil {
		s.onChange = m.persist
	}
	m.sessions[s.id] = s
}

func (m *Manager) persist(st State) {
	_, err := m.db.Exec(
		"UPDATE sessions SET civ = ?, focused = ?, updated_at = ? WHERE id = ?",
		st.Civ, st.Focused, st.UpdatedAt, st.ID,
	)
	if err != nil {
		log.Printf("session: persisting %s: %v", st.ID, err)
	}
}
