// Package stats persists solve records and derives player statistics.
//
// One SolveRecord exists per calendar date a player has won. Records are
// append-only and first-solve-wins: replaying a win on an already-solved
// date never overwrites the original record or its timing. Aggregates
// (total wins, streak) are always derived from the records, never stored
// authoritatively.
package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS solves (
	date TEXT PRIMARY KEY,
	word_count INTEGER NOT NULL,
	words TEXT NOT NULL,
	solve_seconds INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SolveRecord is one won game on one calendar date.
type SolveRecord struct {
	Date         string   `json:"date"`
	WordCount    int      `json:"wordCount"`
	Words        []string `json:"words"`
	SolveSeconds int      `json:"solveTimeSeconds"`
}

// UserStats aggregates the solve ledger.
type UserStats struct {
	TotalWins      int                    `json:"totalWins"`
	Streak         int                    `json:"streak"`
	LastPlayedDate string                 `json:"lastPlayedDate,omitempty"`
	Solves         map[string]SolveRecord `json:"solves"`
}

// Store is the sqlite-backed stats ledger.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (or creates) the ledger database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create stats schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSolve writes a solve record for its date unless one already
// exists. Returns whether the record was inserted; a false return means
// an earlier solve for that date is kept untouched.
func (s *Store) RecordSolve(ctx context.Context, rec SolveRecord) (bool, error) {
	words, err := json.Marshal(rec.Words)
	if err != nil {
		return false, fmt.Errorf("failed to encode words: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO solves(date, word_count, words, solve_seconds)
		 VALUES(?,?,?,?)`,
		rec.Date, rec.WordCount, string(words), rec.SolveSeconds,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if n > 0 {
		s.log.Info().Str("date", rec.Date).Int("words", rec.WordCount).
			Int("seconds", rec.SolveSeconds).Msg("recorded solve")
	}
	return n > 0, nil
}

// Solve returns the record for a date, or nil when the date is unsolved.
func (s *Store) Solve(ctx context.Context, date string) (*SolveRecord, error) {
	var rec SolveRecord
	var words string
	err := s.db.QueryRowContext(ctx,
		`SELECT date, word_count, words, solve_seconds FROM solves WHERE date=?`,
		date,
	).Scan(&rec.Date, &rec.WordCount, &words, &rec.SolveSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(words), &rec.Words); err != nil {
		return nil, fmt.Errorf("corrupt words column for %s: %w", date, err)
	}
	return &rec, nil
}

// Stats derives the aggregate view. The streak counts consecutive solved
// days walking backward from the given date, stopping at the first
// missing day.
func (s *Store) Stats(ctx context.Context, from string) (*UserStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, word_count, words, solve_seconds FROM solves ORDER BY date`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &UserStats{Solves: make(map[string]SolveRecord)}
	for rows.Next() {
		var rec SolveRecord
		var words string
		if err := rows.Scan(&rec.Date, &rec.WordCount, &words, &rec.SolveSeconds); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(words), &rec.Words); err != nil {
			return nil, fmt.Errorf("corrupt words column for %s: %w", rec.Date, err)
		}
		stats.Solves[rec.Date] = rec
		if rec.Date > stats.LastPlayedDate {
			stats.LastPlayedDate = rec.Date
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.TotalWins = len(stats.Solves)
	stats.Streak = streakFrom(stats.Solves, from)
	return stats, nil
}

// Streak returns only the consecutive-day streak ending at from.
func (s *Store) Streak(ctx context.Context, from string) (int, error) {
	st, err := s.Stats(ctx, from)
	if err != nil {
		return 0, err
	}
	return st.Streak, nil
}

// streakFrom walks backward one day at a time from the given date,
// counting consecutive days present in the solve mapping.
func streakFrom(solves map[string]SolveRecord, from string) int {
	day, err := time.Parse("2006-01-02", from)
	if err != nil {
		return 0
	}
	streak := 0
	for {
		if _, ok := solves[day.Format("2006-01-02")]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
