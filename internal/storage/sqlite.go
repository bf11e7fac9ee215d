// Package storage provides SQLite-based persistence for round results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/clawround/internal/round"
)

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// ResultEntry is one stored round outcome.
type ResultEntry struct {
	ID        int64
	Round     string
	Preset    string
	Seed      string
	Success   bool
	Total     int
	Target    int
	GrabsUsed int
	Ticks     int
	CreatedAt time.Time
}

// Entry builds a storable entry from a published round result.
func Entry(res round.Result, preset string) ResultEntry {
	return ResultEntry{
		Round:     res.Round,
		Preset:    preset,
		Seed:      res.Seed,
		Success:   res.Success,
		Total:     res.Total,
		Target:    res.Target,
		GrabsUsed: res.GrabsUsed,
		Ticks:     res.Ticks,
	}
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
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round TEXT NOT NULL,
			preset TEXT NOT NULL DEFAULT 'normal',
			seed TEXT NOT NULL,
			success INTEGER NOT NULL,
			total INTEGER NOT NULL,
			target INTEGER NOT NULL,
			grabs_used INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_round ON results(round);
		CREATE INDEX IF NOT EXISTS idx_results_best ON results(round, total DESC);
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

// SaveResult records a round outcome and returns the inserted ID.
func (s *Store) SaveResult(e ResultEntry) (int64, error) {
	if e.Preset == "" {
		e.Preset = "normal"
	}
	result, err := s.db.Exec(
		`INSERT INTO results (round, preset, seed, success, total, target, grabs_used, ticks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Round, e.Preset, e.Seed, e.Success, e.Total, e.Target, e.GrabsUsed, e.Ticks,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const resultColumns = `id, round, preset, seed, success, total, target, grabs_used, ticks, created_at`

// RecentResults returns the newest results, for one round or for all rounds
// when roundName is empty.
func (s *Store) RecentResults(roundName string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE ? = '' OR round = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		roundName, roundName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// BestResults returns the highest totals for a round, newest first on ties.
func (s *Store) BestResults(roundName string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE round = ?
		 ORDER BY total DESC, id DESC
		 LIMIT ?`,
		roundName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	return scanResults(rows)
}

// ResultBySeed returns the newest result played with seed.
func (s *Store) ResultBySeed(seed string) (*ResultEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+resultColumns+` FROM results WHERE seed = ? ORDER BY id DESC LIMIT 1`,
		seed,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	entries, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ClearResults deletes all results for the given round.
func (s *Store) ClearResults(roundName string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE round = ?", roundName)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

func scanResults(rows *sql.Rows) ([]ResultEntry, error) {
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Round, &e.Preset, &e.Seed, &e.Success, &e.Total,
			&e.Target, &e.GrabsUsed, &e.Ticks, &createdAt); err != nil {
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

// RoundStats contains aggregated statistics for a round.
type RoundStats struct {
	Round      string
	Played     int
	Won        int
	BestTotal  int
	AvgTotal   float64
	AvgGrabs   float64
	LastPlayed time.Time
}

// WinRate returns the share of won rounds, or 0 before any play.
func (rs RoundStats) WinRate() float64 {
	if rs.Played == 0 {
		return 0
	}
	return float64(rs.Won) / float64(rs.Played)
}

// Stats retrieves aggregated statistics for a round.
func (s *Store) Stats(roundName string) (*RoundStats, error) {
	stats := &RoundStats{Round: roundName}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(success), 0), COALESCE(MAX(total), 0),
		        COALESCE(AVG(total), 0), COALESCE(AVG(grabs_used), 0)
		 FROM results WHERE round = ?`,
		roundName,
	).Scan(&stats.Played, &stats.Won, &stats.BestTotal, &stats.AvgTotal, &stats.AvgGrabs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get round stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM results WHERE round = ? ORDER BY id DESC LIMIT 1`,
		roundName,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// AllStats retrieves statistics for every round that has been played.
func (s *Store) AllStats() (map[string]*RoundStats, error) {
	rows, err := s.db.Query(
		`SELECT round, COUNT(*), SUM(success), MAX(total), AVG(total), AVG(grabs_used), MAX(created_at)
		 FROM results
		 GROUP BY round`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all round stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*RoundStats)
	for rows.Next() {
		var rs RoundStats
		var lastPlayed any
		if err := rows.Scan(&rs.Round, &rs.Played, &rs.Won, &rs.BestTotal, &rs.AvgTotal, &rs.AvgGrabs, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		rs.LastPlayed = parseTime(lastPlayed)
		stats[rs.Round] = &rs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
