package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// RecentOperations returns the most recent operations, newest first.
func (j *Journal) RecentOperations(limit int) ([]*Operation, error) {
	rows, err := j.db.Query(`
		SELECT id, kind, mode, started_at, finished_at, success
		FROM operations
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// LastOperation returns the most recent operation, or nil when the journal
// is empty.
func (j *Journal) LastOperation() (*Operation, error) {
	ops, err := j.RecentOperations(1)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, nil
	}
	return ops[0], nil
}

// FindOperation resolves a full or abbreviated operation id. "latest" means
// the most recent operation.
func (j *Journal) FindOperation(ref string) (*Operation, error) {
	if ref == "latest" {
		op, err := j.LastOperation()
		if err != nil {
			return nil, err
		}
		if op == nil {
			return nil, fmt.Errorf("the journal is empty")
		}
		return op, nil
	}

	rows, err := j.db.Query(`
		SELECT id, kind, mode, started_at, finished_at, success
		FROM operations
		WHERE id LIKE ? || '%'
		ORDER BY started_at DESC, rowid DESC
		LIMIT 2
	`, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to find operation: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(ops) {
	case 0:
		return nil, fmt.Errorf("no operation matches %q", ref)
	case 1:
		return ops[0], nil
	}
	return nil, fmt.Errorf("operation id %q is ambiguous, use more characters", ref)
}

// Events returns all events for an operation in recording order.
func (j *Journal) Events(operationID string) ([]*Event, error) {
	rows, err := j.db.Query(`
		SELECT id, operation_id, at, level, step, message
		FROM events
		WHERE operation_id = ?
		ORDER BY id
	`, operationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var e Event
		var at string
		if err := rows.Scan(&e.ID, &e.OperationID, &at, &e.Level, &e.Step, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func scanOperation(rows *sql.Rows) (*Operation, error) {
	var op Operation
	var startedAt string
	var finishedAt sql.NullString
	var success sql.NullBool

	if err := rows.Scan(&op.ID, &op.Kind, &op.Mode, &startedAt, &finishedAt, &success); err != nil {
		return nil, fmt.Errorf("failed to scan operation: %w", err)
	}

	var err error
	op.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finishedAt.Valid {
		op.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
	}
	op.Success = success.Valid && success.Bool
	return &op, nil
}
