package harness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quillps/quill/internal/journal"
)

// Recorder journals every executed step into a session so the run can be
// replayed later. Step arguments are stored as JSON; result codes are
// stored as the journal expects them (empty for success).
type Recorder struct {
	j       *journal.Journal
	session string
	next    int64
}

// NewRecorder begins a fresh session labelled with the scenario name.
func NewRecorder(ctx context.Context, j *journal.Journal, label string) (*Recorder, error) {
	session, err := j.BeginSession(ctx, label)
	if err != nil {
		return nil, err
	}
	return &Recorder{j: j, session: session, next: 1}, nil
}

// SessionID returns the journal session this recorder writes to.
func (r *Recorder) SessionID() string { return r.session }

func (r *Recorder) record(st Step, code string) error {
	args, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode step: %w", err)
	}
	result := code
	if result == resultOK {
		result = ""
	}
	rec := journal.Record{
		Step:   r.next,
		Op:     st.Op,
		Args:   string(args),
		Result: result,
	}
	if err := r.j.Append(context.Background(), r.session, rec); err != nil {
		return err
	}
	r.next++
	return nil
}
