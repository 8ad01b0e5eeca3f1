// Package storage provides SQLite-based persistence for the best score and
// finished games. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/mini2048/internal/session"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// GameRecord is a single finished game.
type GameRecord struct {
	ID        int64     `json:"id"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	Won       bool      `json:"won"`
	Over      bool      `json:"over"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats contains aggregated statistics over all recorded games.
type Stats struct {
	GamesCount int       `json:"games_count"`
	Wins       int       `json:"wins"`
	HighScore  int       `json:"high_score"`
	AvgScore   float64   `json:"avg_score"`
	BestTile   int       `json:"best_tile"`
	LastPlayed time.Time `json:"last_played"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	// SSH and web sessions share one store.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			won INTEGER NOT NULL DEFAULT 0,
			game_over INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BestScore returns the persisted best score, or 0 if none was stored.
func (s *Store) BestScore() (int, error) {
	var raw string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", session.BestKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read best score: %w", err)
	}

	best, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("storage: corrupt best score %q: %w", raw, err)
	}
	return best, nil
}

// SetBestScore stores score as the best score if it beats the stored one.
func (s *Store) SetBestScore(score int) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		 WHERE CAST(excluded.value AS INTEGER) > CAST(kv.value AS INTEGER)`,
		session.BestKey, strconv.Itoa(score),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save best score: %w", err)
	}
	return nil
}

// SaveGame records a finished game.
// Returns the ID of the inserted record.
func (s *Store) SaveGame(rec GameRecord) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (score, max_tile, moves, won, game_over) VALUES (?, ?, ?, ?, ?)",
		rec.Score, rec.MaxTile, rec.Moves, rec.Won, rec.Over,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SaveResult implements session.Store.
func (s *Store) SaveResult(r session.GameResult) error {
	_, err := s.SaveGame(GameRecord{
		Score:   r.Score,
		MaxTile: r.MaxTile,
		Moves:   r.Moves,
		Won:     r.Won,
		Over:    r.Over,
	})
	return err
}

// Ensure Store implements session.Store
var _ session.Store = (*Store)(nil)

// TopScores retrieves the top N games ordered by score descending.
func (s *Store) TopScores(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, score, max_tile, moves, won, game_over, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []GameRecord
	for rows.Next() {
		var e GameRecord
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Score, &e.MaxTile, &e.Moves, &e.Won, &e.Over, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearScores deletes all recorded games. The best score is kept.
func (s *Store) ClearScores() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GetStats retrieves aggregated statistics over all recorded games.
func (s *Store) GetStats() (*Stats, error) {
	stats := &Stats{}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(won), 0), COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0), COALESCE(MAX(max_tile), 0), MAX(created_at)
		 FROM scores`,
	).Scan(&stats.GamesCount, &stats.Wins, &stats.HighScore, &stats.AvgScore, &stats.BestTile, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
