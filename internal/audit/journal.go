// Package audit keeps a durable journal of every mutating operation,
// so an operator can reconstruct how the environment reached its
// current shape after partial failures.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Event represents a single journal entry. Status mirrors the CLI exit
// code: 0 success, 1 failure.
type Event struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"runId"`
	Timestamp time.Time `json:"timestamp"`
	Op        string    `json:"op"`
	VPC       string    `json:"vpc,omitempty"`
	Subnet    string    `json:"subnet,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Status    int       `json:"status"`
}

// Journal provides persistent storage for operation events.
type Journal struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			op TEXT NOT NULL,
			vpc TEXT,
			subnet TEXT,
			detail TEXT,
			status INTEGER DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_events_op ON events(op);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record persists an event. A zero timestamp becomes the current time
// and an empty run id gets a fresh one.
func (j *Journal) Record(evt Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	if evt.RunID == "" {
		evt.RunID = uuid.NewString()
	}

	_, err := j.db.Exec(`
		INSERT INTO events (run_id, timestamp, op, vpc, subnet, detail, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, evt.RunID, evt.Timestamp, evt.Op, evt.VPC, evt.Subnet, evt.Detail, evt.Status)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns the newest events, most recent first.
func (j *Journal) Recent(limit int) ([]Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	query := `SELECT id, run_id, timestamp, op, vpc, subnet, detail, status
		FROM events ORDER BY timestamp DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := j.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var evt Event
		var vpcName, subnet, detail sql.NullString

		err := rows.Scan(&evt.ID, &evt.RunID, &evt.Timestamp, &evt.Op,
			&vpcName, &subnet, &detail, &evt.Status)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		evt.VPC = vpcName.String
		evt.Subnet = subnet.String
		evt.Detail = detail.String
		events = append(events, evt)
	}

	return events, rows.Err()
}

// Prune removes events older than the given number of days and
// reports how many were deleted.
func (j *Journal) Prune(days int) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	result, err := j.db.Exec("DELETE FROM events WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit events: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the total number of events in the journal.
func (j *Journal) Count() (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var count int64
	err := j.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}
