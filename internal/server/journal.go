package server

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Journal is an append-only audit log of segment mutations, kept beside
// the CSV files so edits can be traced after the backups rotate away.
type Journal struct {
	db *sql.DB
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS edits (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	at          TEXT NOT NULL,
	segment_id  INTEGER NOT NULL,
	op          TEXT NOT NULL,
	field       TEXT NOT NULL DEFAULT '',
	old_value   TEXT NOT NULL DEFAULT '',
	new_value   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_edits_segment ON edits(segment_id);
`

// OpenJournal opens (or creates) the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// Single writer, but the TUI and serve command may overlap briefly.
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure journal: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) record(segmentID int, op, field, oldVal, newVal string) error {
	if j == nil || j.db == nil {
		return nil
	}
	_, err := j.db.Exec(
		`INSERT INTO edits (at, segment_id, op, field, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), segmentID, op, field, oldVal, newVal,
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", op, err)
	}
	return nil
}

// RecordUpdate logs one field change on a segment.
func (j *Journal) RecordUpdate(segmentID int, field, oldVal, newVal string) error {
	return j.record(segmentID, "update", field, oldVal, newVal)
}

// RecordDelete logs a segment removal with a snapshot of the row.
func (j *Journal) RecordDelete(segmentID int, snapshot string) error {
	return j.record(segmentID, "delete", "", snapshot, "")
}

// Entry is one journal row.
type Entry struct {
	At        string
	SegmentID int
	Op        string
	Field     string
	OldValue  string
	NewValue  string
}

// Entries returns the journal rows for a segment, oldest first.
func (j *Journal) Entries(segmentID int) ([]Entry, error) {
	if j == nil || j.db == nil {
		return nil, nil
	}
	rows, err := j.db.Query(
		`SELECT at, segment_id, op, field, old_value, new_value FROM edits WHERE segment_id = ? ORDER BY id`,
		segmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.At, &e.SegmentID, &e.Op, &e.Field, &e.OldValue, &e.NewValue); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
