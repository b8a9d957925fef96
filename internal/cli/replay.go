package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillps/quill/internal/harness"
	"github.com/quillps/quill/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Last     bool
}

// ReplayResult is the replay command's output payload.
type ReplayResult struct {
	Session       string             `json:"session"`
	Steps         int                `json:"steps"`
	Deterministic bool               `json:"deterministic"`
	Mismatches    []harness.Mismatch `json:"mismatches,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [session-id]",
		Short: "Replay a journaled session and verify determinism",
		Long: `Re-execute a journaled session against a fresh memory model and
compare each step's result with the recorded one. The memory model is
deterministic: identities and error codes depend only on the operation
sequence, so a faithful replay reproduces every recorded result.

Example:
  quill replay --db ./quill.db 0198c7a2-...
  quill replay --db ./quill.db --last`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := ""
			if len(args) == 1 {
				sessionID = args[0]
			}
			return runReplay(opts, sessionID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	cmd.Flags().BoolVar(&opts.Last, "last", false, "replay the most recent session")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, sessionID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if sessionID == "" && !opts.Last {
		_ = formatter.Error(ErrCodeNoSession, "session id or --last required", nil)
		return NewExitError(ExitCommandError, "session id or --last required")
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer func() { _ = j.Close() }()

	ctx := cmd.Context()
	if sessionID == "" {
		sessions, err := j.Sessions(ctx)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "list sessions", err)
		}
		if len(sessions) == 0 {
			_ = formatter.Error(ErrCodeNoSession, "journal has no sessions", nil)
			return NewExitError(ExitCommandError, "journal has no sessions")
		}
		sessionID = sessions[0].ID
		formatter.VerboseLog("replaying latest session %s", sessionID)
	}

	report, err := harness.ReplaySession(ctx, j, sessionID)
	if err != nil {
		_ = formatter.Error(ErrCodeNoSession, err.Error(), nil)
		return WrapExitError(ExitCommandError, "replay session", err)
	}

	result := ReplayResult{
		Session:       report.SessionID,
		Steps:         report.Steps,
		Deterministic: report.Deterministic(),
		Mismatches:    report.Mismatches,
	}
	if err := outputReplayResult(formatter, result); err != nil {
		return err
	}
	if !result.Deterministic {
		return NewExitError(ExitFailure, fmt.Sprintf("replay diverged at %d step(s)", len(result.Mismatches)))
	}
	return nil
}

func outputReplayResult(f *OutputFormatter, result ReplayResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	if result.Deterministic {
		fmt.Fprintf(f.Writer, "✓ session %s replayed deterministically (%d steps)\n",
			result.Session, result.Steps)
		return nil
	}

	fmt.Fprintf(f.Writer, "✗ session %s diverged (%d steps)\n", result.Session, result.Steps)
	for _, m := range result.Mismatches {
		fmt.Fprintf(f.Writer, "  step %d %s: recorded %s, replayed %s\n",
			m.Step, m.Op, m.Recorded, m.Replayed)
	}
	return nil
}
