package journal

import (
	"context"
	"fmt"
)

// Session describes one recorded run.
type Session struct {
	ID      string
	Label   string
	Created string
	Records int
}

// ReadSession returns a session's records in step order.
// Returns an empty slice (not nil) if the session has no records.
func (j *Journal) ReadSession(ctx context.Context, sessionID string) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT step, op, args, result
		FROM records
		WHERE session_id = ?
		ORDER BY step ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Step, &rec.Op, &rec.Args, &rec.Result); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

// Sessions lists all sessions, newest first (UUIDv7 IDs sort by time).
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.label, s.created_at, COUNT(r.step)
		FROM sessions s
		LEFT JOIN records r ON r.session_id = s.id
		GROUP BY s.id
		ORDER BY s.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.Label, &s.Created, &s.Records); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}
