package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Operation kinds recorded in the journal.
const (
	KindApply    = "apply"
	KindRestore  = "restore"
	KindSchedule = "schedule"
	KindCancel   = "cancel"
)

// Event levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Operation is one recorded apply, restore, schedule, or cancel.
type Operation struct {
	ID         string
	Kind       string
	Mode       string // profile mode for applies, empty otherwise
	StartedAt  time.Time
	FinishedAt time.Time // zero while running or if the process died
	Success    bool      // meaningful only when FinishedAt is set
}

// Event is one step-level record inside an operation.
type Event struct {
	ID          int64
	OperationID string
	At          time.Time
	Level       string
	Step        string
	Message     string
}

// Journal provides SQLite-backed operation history for powertrim.
type Journal struct {
	db *sql.DB
}

// New creates a Journal backed by the database at dbPath.
// Use ":memory:" for in-memory databases (useful for testing).
func New(dbPath string) (*Journal, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// CreateSchema creates all tables and indexes. Safe to call repeatedly.
func (j *Journal) CreateSchema() error {
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Op is a handle to a running operation. Its methods are best-effort:
// journal write failures warn on stderr rather than fail the operation.
type Op struct {
	j  *Journal
	id string
}

// ID returns the operation id.
func (o *Op) ID() string {
	return o.id
}

// Begin inserts a new operation row and returns its handle.
func (j *Journal) Begin(kind, mode string) (*Op, error) {
	id := uuid.New().String()
	_, err := j.db.Exec(
		`INSERT INTO operations (id, kind, mode, started_at) VALUES (?, ?, ?, ?)`,
		id, kind, mode, time.Now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert operation: %w", err)
	}
	return &Op{j: j, id: id}, nil
}

// Event records a step-level event under this operation.
func (o *Op) Event(level, step, message string) {
	_, err := o.j.db.Exec(
		`INSERT INTO events (operation_id, at, level, step, message) VALUES (?, ?, ?, ?, ?)`,
		o.id, time.Now().Format(time.RFC3339Nano), level, step, message,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record journal event: %v\n", err)
	}
}

// Finish stamps the operation with its outcome.
func (o *Op) Finish(success bool) {
	_, err := o.j.db.Exec(
		`UPDATE operations SET finished_at = ?, success = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339Nano), success, o.id,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to finish journal operation: %v\n", err)
	}
}
