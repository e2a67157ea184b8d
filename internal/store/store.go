// Package store persists the client's local state between runs: the
// bearer token and one joined flag per room. Backed by a single SQLite
// file so nothing but the binary is needed on the machine.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS joined_rooms (
	room_id   INTEGER PRIMARY KEY,
	joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const tokenKey = "token"

// Store is the SQLite-backed client state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the state file at path and applies
// the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("state path is required")
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply state schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Token returns the saved bearer token. ok is false when none is
// stored; that is not an error.
func (s *Store) Token() (token string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM settings WHERE key = ?", tokenKey).Scan(&token)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read token: %w", err)
	}
	return token, true, nil
}

// SetToken stores the bearer token, replacing any previous one.
func (s *Store) SetToken(token string) error {
	_, err := s.db.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		tokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// ClearToken forgets the saved token.
func (s *Store) ClearToken() error {
	if _, err := s.db.Exec("DELETE FROM settings WHERE key = ?", tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Joined reports whether the viewer previously joined roomID on this
// machine. One clean row per room id; the value is the row's presence.
func (s *Store) Joined(roomID int64) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM joined_rooms WHERE room_id = ?", roomID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read joined flag for room %d: %w", roomID, err)
	}
	return true, nil
}

// MarkJoined persists the joined flag for roomID. Idempotent.
func (s *Store) MarkJoined(roomID int64) error {
	_, err := s.db.Exec(
		"INSERT INTO joined_rooms (room_id) VALUES (?) ON CONFLICT(room_id) DO NOTHING",
		roomID,
	)
	if err != nil {
		return fmt.Errorf("save joined flag for room %d: %w", roomID, err)
	}
	return nil
}
