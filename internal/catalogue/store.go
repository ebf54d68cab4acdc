package catalogue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/techtree/internal/db"
)

// Store persists an imported catalogue snapshot so the server can start
// without re-reading the data directory.
type Store struct {
	db *db.DB
}

// NewStore creates a new catalogue store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save replaces the stored snapshot with cat. Strings are stored under locale.
func (s *Store) Save(ctx context.Context, cat *Catalogue, locale string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM entities",
		"DELETE FROM civilizations",
		"DELETE FROM nodes",
		"DELETE FROM connections",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing snapshot: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM strings WHERE locale = ?", locale); err != nil {
		return fmt.Errorf("clearing strings: %w", err)
	}

	for part, entities := range cat.Stats {
		for id, e := range entities {
			var stats *string
			if e.Stats != nil {
				raw, err := json.Marshal(e.Stats)
				if err != nil {
					return err
				}
				str := string(raw)
				stats = &str
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO entities (partition, id, name_string_id, help_string_id, stats) VALUES (?, ?, ?, ?, ?)",
				string(part), id, e.NameStringID, e.HelpStringID, stats,
			); err != nil {
				return fmt.Errorf("saving entity %s/%d: %w", part, id, err)
			}
		}
	}

	for id, text := range cat.Strings {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO strings (locale, id, text) VALUES (?, ?, ?)", locale, id, text,
		); err != nil {
			return fmt.Errorf("saving string %d: %w", id, err)
		}
	}

	for id, civ := range cat.Civs {
		raw, err := json.Marshal(civ)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO civilizations (id, profile) VALUES (?, ?)", id, string(raw),
		); err != nil {
			return fmt.Errorf("saving civilization %s: %w", id, err)
		}
	}

	for i, n := range cat.Layout.Nodes {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO nodes (seq, id, kind, name, x, y, width, height) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			i, n.ID, string(n.Kind), n.Name, n.X, n.Y, n.Width, n.Height,
		); err != nil {
			return fmt.Errorf("saving node %s: %w", n.ID, err)
		}
	}

	for i, c := range cat.Layout.Connections {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO connections (seq, parent, child) VALUES (?, ?, ?)", i, c.Parent, c.Child,
		); err != nil {
			return fmt.Errorf("saving connection %s: %w", c.ID(), err)
		}
	}

	return tx.Commit()
}

// Load reads the stored snapshot. It returns ErrNotFound when nothing has
// been imported yet.
func (s *Store) Load(ctx context.Context, locale string) (*Catalogue, error) {
	cat := New()

	rows, err := s.db.QueryContext(ctx, "SELECT partition, id, name_string_id, help_string_id, stats FROM entities")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	kinds := map[Partition]Kind{
		PartitionUnits:     KindUnit,
		PartitionBuildings: KindBuilding,
		PartitionTechs:     KindTechnology,
	}
	for rows.Next() {
		var (
			part  string
			e     Entity
			stats sql.NullString
		)
		if err := rows.Scan(&part, &e.ID, &e.NameStringID, &e.HelpStringID, &stats); err != nil {
			return nil, err
		}
		e.Kind = kinds[Partition(part)]
		if stats.Valid {
			var st Stats
			if err := json.Unmarshal([]byte(stats.String), &st); err != nil {
				return nil, fmt.Errorf("decoding stats %s/%d: %w", part, e.ID, err)
			}
			e.Stats = &st
		}
		cat.Stats.Put(&e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadStrings(ctx, cat, locale); err != nil {
		return nil, err
	}
	if err := s.loadCivs(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.loadLayout(ctx, cat); err != nil {
		return nil, err
	}

	if len(cat.Stats) == 0 && len(cat.Layout.Nodes) == 0 {
		return nil, fmt.Errorf("catalogue snapshot: %w", ErrNotFound)
	}
	return cat, nil
}

func (s *Store) loadStrings(ctx context.Context, cat *Catalogue, locale string) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, text FROM strings WHERE locale = ?", locale)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   int
			text string
		)
		if err := rows.Scan(&id, &text); err != nil {
			return err
		}
		cat.Strings[id] = text
	}
	return rows.Err()
}

func (s *Store) loadCivs(ctx context.Context, cat *Catalogue) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, profile FROM civilizations")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id, profile string
		if err := rows.Scan(&id, &profile); err != nil {
			return err
		}
		var civ Civilization
		if err := json.Unmarshal([]byte(profile), &civ); err != nil {
			return fmt.Errorf("decoding civilization %s: %w", id, err)
		}
		civ.ID = id
		cat.Civs[id] = &civ
	}
	return rows.Err()
}

func (s *Store) loadLayout(ctx context.Context, cat *Catalogue) error {
	rows, err := s.db.QueryContext(ctx, "SELECT id, kind, name, x, y, width, height FROM nodes ORDER BY seq")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			n    Node
			kind string
		)
		if err := rows.Scan(&n.ID, &kind, &n.Name, &n.X, &n.Y, &n.Width, &n.Height); err != nil {
			return err
		}
		n.Kind = Kind(kind)
		cat.Layout.Nodes = append(cat.Layout.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	crows, err := s.db.QueryContext(ctx, "SELECT parent, child FROM connections ORDER BY seq")
	if err != nil {
		return err
	}
	defer crows.Close()
	for crows.Next() {
		var c Connection
		if err := crows.Scan(&c.Parent, &c.Child); err != nil {
			return err
		}
		cat.Layout.Connections = append(cat.Layout.Connections, c)
	}
	return crows.Err()
}
