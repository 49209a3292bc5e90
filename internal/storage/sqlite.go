// Package storage provides an SQLite journal of finished rounds.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// The journal is a history only; nothing in it feeds back into a game.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultPath is where the journal lives unless --db says otherwise.
const DefaultPath = "~/.dodge/dodge.db"

const timeLayout = "2006-01-02 15:04:05.000000000"

// Store manages the SQLite database connection for the round journal.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// RoundRecord is one finished round.
type RoundRecord struct {
	ID             string
	GameID         string
	Session        string // "local", an SSH user, or "simulate"
	Score          int
	ElapsedSeconds int
	EnemiesSpawned int
	FinalSpeed     float64
	CreatedAt      time.Time
}

// Stats summarizes every round of one game.
type Stats struct {
	Rounds       int
	BestScore    int
	AverageScore float64
	TotalSeconds int
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

	// Create parent directories
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

	store := &Store{db: db, now: time.Now}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			session TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			enemies_spawned INTEGER NOT NULL DEFAULT 0,
			final_speed REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id);
		CREATE INDEX IF NOT EXISTS idx_rounds_top ON rounds(game_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_rounds_recent ON rounds(game_id, created_at DESC);
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

// SaveRound records a finished round. Empty ID and zero CreatedAt are filled in.
// Returns the stored record.
func (s *Store) SaveRound(r RoundRecord) (RoundRecord, error) {
	if r.GameID == "" {
		return RoundRecord{}, errors.New("storage: round without game id")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.CreatedAt = r.CreatedAt.UTC()

	_, err := s.db.Exec(
		`INSERT INTO rounds
		 (id, game_id, session, score, elapsed_secs, enemies_spawned, final_speed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.GameID,
		r.Session,
		r.Score,
		r.ElapsedSeconds,
		r.EnemiesSpawned,
		r.FinalSpeed,
		r.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return RoundRecord{}, fmt.Errorf("storage: cannot save round: %w", err)
	}
	return r, nil
}

// TopRounds retrieves the best N rounds for the given game.
// Results are ordered by score descending, earlier rounds first on ties.
func (s *Store) TopRounds(gameID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRounds(
		`SELECT id, game_id, session, score, elapsed_secs, enemies_spawned, final_speed, created_at
		 FROM rounds
		 WHERE game_id = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		gameID, limit,
	)
}

// RecentRounds retrieves the most recent rounds for the given game, newest first.
func (s *Store) RecentRounds(gameID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRounds(
		`SELECT id, game_id, session, score, elapsed_secs, enemies_spawned, final_speed, created_at
		 FROM rounds
		 WHERE game_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		gameID, limit,
	)
}

// RoundByID retrieves a single round. Returns nil if it does not exist.
func (s *Store) RoundByID(id string) (*RoundRecord, error) {
	rounds, err := s.queryRounds(
		`SELECT id, game_id, session, score, elapsed_secs, enemies_spawned, final_speed, created_at
		 FROM rounds
		 WHERE id = ?`,
		id,
	)
	if err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return nil, nil
	}
	return &rounds[0], nil
}

func (s *Store) queryRounds(query string, args ...any) ([]RoundRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []RoundRecord
	for rows.Next() {
		var r RoundRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.GameID,
			&r.Session,
			&r.Score,
			&r.ElapsedSeconds,
			&r.EnemiesSpawned,
			&r.FinalSpeed,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		rounds = append(rounds, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return rounds, nil
}

// parseTime handles both driver-decoded times and raw strings.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v.UTC()
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(v))
	}
	return time.Time{}
}

// HighScore returns the best journaled score for the given game.
// Returns 0 if no rounds exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM rounds WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Stats aggregates all rounds for the given game.
func (s *Store) Stats(gameID string) (Stats, error) {
	var st Stats
	var best, total sql.NullInt64
	var avg sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(score), AVG(score), SUM(elapsed_secs)
		 FROM rounds
		 WHERE game_id = ?`,
		gameID,
	).Scan(&st.Rounds, &best, &avg, &total)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	st.BestScore = int(best.Int64)
	st.AverageScore = avg.Float64
	st.TotalSeconds = int(total.Int64)
	return st, nil
}

// ClearRounds deletes all rounds for the given game.
func (s *Store) ClearRounds(gameID string) error {
	_, err := s.db.Exec("DELETE FROM rounds WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return nil
}
