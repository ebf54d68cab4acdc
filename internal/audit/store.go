package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/techtree/internal/db"
)

// ErrNoImports is returned by Latest when nothing was imported yet.
var ErrNoImports = errors.New("no imports recorded")

// Store records and lists import runs.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Log inserts an entry. ID and Timestamp are filled in when empty.
func (s *Store) Log(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	dups, err := json.Marshal(e.Duplicates)
	if err != nil {
		return e, fmt.Errorf("marshalling duplicates: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO imports (
			id, timestamp, data_dir, locale, nodes, connections,
			entities, strings, civs, duplicates
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.Format(time.RFC3339Nano), e.DataDir, e.Locale,
		e.Nodes, e.Connections, e.Entities, e.Strings, e.Civs, string(dups),
	)
	if err != nil {
		return e, fmt.Errorf("inserting import entry: %w", err)
	}
	return e, nil
}

// List returns entries matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Locale != "" {
		where = append(where, "locale = ?")
		args = append(args, f.Locale)
	}
	if f.Since != nil {
		where = append(where, "timestamp >= ?")
		args = append(args, f.Since.UTC().Format(time.RFC3339Nano))
	}

	query := `SELECT id, timestamp, data_dir, locale, nodes, connections,
		entities, strings, civs, duplicates FROM imports`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Latest returns the most recent entry.
func (s *Store) Latest(ctx context.Context) (Entry, error) {
	entries, err := s.List(ctx, Filter{Limit: 1})
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNoImports
	}
	return entries[0], nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e    Entry
		ts   string
		dups string
	)
	if err := rows.Scan(&e.ID, &ts, &e.DataDir, &e.Locale, &e.Nodes, &e.Connections,
		&e.Entities, &e.Strings, &e.Civs, &dups); err != nil {
		return e, fmt.Errorf("scanning import entry: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return e, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	e.Timestamp = t
	if err := json.Unmarshal([]byte(dups), &e.Duplicates); err != nil {
		return e, fmt.Errorf("unmarshalling duplicates: %w", err)
	}
	return e, nil
}
