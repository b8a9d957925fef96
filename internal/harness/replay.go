package harness

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quillps/quill/internal/journal"
)

// Mismatch reports one step whose replayed outcome differed from the
// journaled one.
type Mismatch struct {
	Step     int64
	Op       string
	Recorded string
	Replayed string
}

// ReplayReport summarizes a session replay. Deterministic replay means
// zero mismatches: the memory model's identity sequence and error codes
// depend only on the operation sequence.
type ReplayReport struct {
	SessionID  string
	Steps      int
	Mismatches []Mismatch
}

// Deterministic reports whether every replayed step reproduced its
// journaled result.
func (r *ReplayReport) Deterministic() bool { return len(r.Mismatches) == 0 }

// ReplaySession re-executes a journaled session against a fresh Memory
// and compares each step's result code with the recorded one. Scenario
// bugs (a record that no longer decodes, an unknown label) abort the
// replay; result divergence does not.
func ReplaySession(ctx context.Context, j *journal.Journal, sessionID string) (*ReplayReport, error) {
	records, err := j.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("session %s has no records", sessionID)
	}

	runner := NewRunner(nil)
	report := &ReplayReport{SessionID: sessionID, Steps: len(records)}

	for _, rec := range records {
		var st Step
		if err := json.Unmarshal([]byte(rec.Args), &st); err != nil {
			return nil, fmt.Errorf("step %d: decode args: %w", rec.Step, err)
		}

		code, _, err := runner.executeStep(st)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", rec.Step, st.Op, err)
		}

		recorded := rec.Result
		if recorded == "" {
			recorded = resultOK
		}
		if code != recorded {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Step:     rec.Step,
				Op:       st.Op,
				Recorded: recorded,
				Replayed: code,
			})
		}

		runner.trace = append(runner.trace, TraceEvent{
			Step:   int(rec.Step),
			Op:     st.Op,
			Target: st.Object,
			Result: code,
		})
	}

	return report, nil
}
