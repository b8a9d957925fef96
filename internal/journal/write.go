package journal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Record is one journaled operation. Args is the operation's JSON-encoded
// argument form (produced by the scenario layer); Result is the outcome
// code - empty for success, or an error code such as RANGECHECK.
type Record struct {
	Step   int64
	Op     string
	Args   string
	Result string
}

// BeginSession creates a new session and returns its ID (a UUIDv7, so
// session IDs sort by creation time).
func (j *Journal) BeginSession(ctx context.Context, label string) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label) VALUES (?, ?)
	`, id, label)
	if err != nil {
		return "", fmt.Errorf("begin session: %w", err)
	}
	return id, nil
}

// Append inserts a record into a session's log.
// Uses ON CONFLICT DO NOTHING for idempotency - re-appending the same
// (session, step) is silently ignored, so a crashed recorder can resume.
func (j *Journal) Append(ctx context.Context, sessionID string, rec Record) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO records (session_id, step, op, args, result)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, step) DO NOTHING
	`, sessionID, rec.Step, rec.Op, rec.Args, rec.Result)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}
