// Package store persists game snapshots to SQLite. Uses the pure-Go
// modernc.org/sqlite driver to avoid CGO dependencies.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tycoon/internal/game"
)

type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, creating parent directories
// and running migrations.
func Open(path string) (*Store, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("store: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: cannot connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			company_name TEXT NOT NULL,
			stage TEXT NOT NULL,
			turn INTEGER NOT NULL,
			state TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_outcomes_game ON outcomes(game_id, turn);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the full snapshot and appends the latest history entry to
// the outcomes audit table when one exists.
func (s *Store) Save(ctx context.Context, g *game.GameState) error {
	state, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("store: marshal state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, company_name, stage, turn, state, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_name = excluded.company_name,
			stage = excluded.stage,
			turn = excluded.turn,
			state = excluded.state,
			updated_at = excluded.updated_at
	`, g.ID, g.CompanyName, string(g.Stage), g.Turn, string(state), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: save game %s: %w", g.ID, err)
	}

	if n := len(g.History); n > 0 {
		last, err := json.Marshal(g.History[n-1])
		if err != nil {
			return fmt.Errorf("store: marshal outcome: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO outcomes (game_id, turn, outcome) VALUES (?, ?, ?)
		`, g.ID, g.Turn, string(last)); err != nil {
			return fmt.Errorf("store: append outcome: %w", err)
		}
	}
	return nil
}

// Load rehydrates a snapshot by id.
func (s *Store) Load(ctx context.Context, id string) (*game.GameState, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM games WHERE id = ?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, game.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load game %s: %w", id, err)
	}
	var g game.GameState
	if err := json.Unmarshal([]byte(state), &g); err != nil {
		return nil, fmt.Errorf("store: unmarshal game %s: %w", id, err)
	}
	return &g, nil
}

// GameSummary is one row of the saved-games listing.
type GameSummary struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Stage       string    `json:"stage"`
	Turn        int       `json:"turn"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// List returns saved games, most recently touched first.
func (s *Store) List(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_name, stage, turn, updated_at
		FROM games ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list games: %w", err)
	}
	defer rows.Close()

	var out []GameSummary
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.ID, &g.CompanyName, &g.Stage, &g.Turn, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan game row: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
