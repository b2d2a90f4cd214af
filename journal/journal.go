// Package journal keeps a sqlite audit log of vote mutations and sweep
// outcomes, so degradation can be observed without scraping process logs.
package journal

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// Journal wraps the audit database. A nil *Journal is valid and turns
// every method into a no-op, so callers never have to branch on whether
// auditing is configured.
type Journal struct {
	db *sql.DB
}

// Open initializes the journal database at dbPath, creating the file and
// its tables if they don't exist.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal database: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal tables: %w", err)
	}

	log.Println("Journal database ready at", dbPath)
	return &Journal{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS vote_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			submission_id TEXT,
			judge_id TEXT,
			action TEXT,
			score INTEGER,
			timestamp INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS sweep_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started INTEGER,
			finished INTEGER,
			missions_processed INTEGER,
			missions_exported INTEGER,
			detail TEXT
		);`,
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// RecordVote logs one vote assertion or retraction. Failures are logged
// and swallowed; auditing must never fail a vote.
func (j *Journal) RecordVote(submissionID, judgeID, action string, score int) {
	if j == nil || j.db == nil {
		return
	}
	query := `INSERT INTO vote_log (submission_id, judge_id, action, score, timestamp) VALUES (?, ?, ?, ?, ?)`
	if _, err := j.db.Exec(query, submissionID, judgeID, action, score, time.Now().Unix()); err != nil {
		log.Printf("Failed to journal vote %s by %s on %s: %v", action, judgeID, submissionID, err)
	}
}

// RecordSweep logs the outcome of one deadline sweep.
func (j *Journal) RecordSweep(started, finished time.Time, processed, exported int, detail string) {
	if j == nil || j.db == nil {
		return
	}
	query := `INSERT INTO sweep_log (started, finished, missions_processed, missions_exported, detail) VALUES (?, ?, ?, ?, ?)`
	if _, err := j.db.Exec(query, started.Unix(), finished.Unix(), processed, exported, detail); err != nil {
		log.Printf("Failed to journal sweep: %v", err)
	}
}
