package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// History stores interactive input lines in a sqlite database.
type History struct {
	db    *sql.DB
	limit int
}

const historySchema = `
CREATE TABLE IF NOT EXISTS history (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	line TEXT NOT NULL,
	at   INTEGER NOT NULL
)`

// OpenHistory opens or creates the database at path. limit caps the
// number of stored lines; 0 keeps everything.
func OpenHistory(path string, limit int) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}
	return &History{db: db, limit: limit}, nil
}

// Add appends a line, skipping repeats of the most recent one, and drops
// the oldest lines beyond the limit.
func (h *History) Add(line string) error {
	var last string
	err := h.db.QueryRow(`SELECT line FROM history ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err == nil && last == line {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading history: %w", err)
	}

	if _, err := h.db.Exec(`INSERT INTO history (line, at) VALUES (?, ?)`, line, time.Now().Unix()); err != nil {
		return fmt.Errorf("adding history: %w", err)
	}
	if h.limit > 0 {
		_, err := h.db.Exec(`DELETE FROM history WHERE id NOT IN
			(SELECT id FROM history ORDER BY id DESC LIMIT ?)`, h.limit)
		if err != nil {
			return fmt.Errorf("trimming history: %w", err)
		}
	}
	return nil
}

// Recent returns up to n of the newest lines, oldest first.
func (h *History) Recent(n int) ([]string, error) {
	rows, err := h.db.Query(`SELECT line FROM
		(SELECT id, line FROM history ORDER BY id DESC LIMIT ?) ORDER BY id`, n)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Close closes the database.
func (h *History) Close() error {
	return h.db.Close()
}
