package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quillps/quill/internal/harness"
	"github.com/quillps/quill/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// RunReport is the run command's output payload.
type RunReport struct {
	Scenario string               `json:"scenario"`
	Steps    int                  `json:"steps"`
	Session  string               `json:"session,omitempty"`
	Trace    []harness.TraceEvent `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario against a fresh memory model",
		Long: `Execute one scenario file against a fresh two-VM memory model.

Every step runs in order; the step trace is printed on success. With
--db, the run is journaled into a SQLite session for later replay.

Example:
  quill run scenarios/save_restore.yaml
  quill run --db ./quill.db scenarios/save_restore.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "journal the run into this SQLite database")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(path); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scenario not found: %s", path), nil)
		return WrapExitError(ExitCommandError, "scenario not found", err)
	}

	if issues, err := ValidateScenarioFile(path); err != nil {
		return WrapExitError(ExitCommandError, "schema validation", err)
	} else if len(issues) > 0 {
		_ = formatter.Error(ErrCodeInvalid, fmt.Sprintf("scenario failed validation: %s", issues[0].Message), issues)
		return NewExitError(ExitFailure, "scenario failed validation")
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeInvalid, err.Error(), nil)
		return WrapExitError(ExitFailure, "load scenario", err)
	}
	logger.Debug("scenario loaded", "name", scenario.Name, "steps", len(scenario.Steps))

	var recorder *harness.Recorder
	if opts.Database != "" {
		j, err := journal.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("closing journal", "error", closeErr)
			}
		}()

		recorder, err = harness.NewRecorder(context.Background(), j, scenario.Name)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "begin session", err)
		}
		logger.Info("journaling run", "db", opts.Database, "session", recorder.SessionID())
	}

	runner := harness.NewRunner(recorder)
	snapshot, err := runner.Run(scenario)
	if err != nil {
		_ = formatter.Error(ErrCodeRunFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "scenario failed", err)
	}
	if err := runner.Check(scenario); err != nil {
		_ = formatter.Error(ErrCodeRunFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "assertion failed", err)
	}

	report := RunReport{
		Scenario: scenario.Name,
		Steps:    len(snapshot.Trace),
		Trace:    snapshot.Trace,
	}
	if recorder != nil {
		report.Session = recorder.SessionID()
	}
	return outputRunReport(formatter, report)
}

func outputRunReport(f *OutputFormatter, report RunReport) error {
	if f.Format == "json" {
		return f.Success(report)
	}

	fmt.Fprintf(f.Writer, "✓ %s (%d steps)\n", report.Scenario, report.Steps)
	for _, ev := range report.Trace {
		line := fmt.Sprintf("  %3d %-12s", ev.Step, ev.Op)
		if ev.Target != "" {
			line += " " + ev.Target
		}
		if ev.Result != "ok" {
			line += " -> " + ev.Result
		} else if ev.Observed != "" {
			line += " -> " + ev.Observed
		}
		fmt.Fprintln(f.Writer, line)
	}
	if report.Session != "" {
		fmt.Fprintf(f.Writer, "session: %s\n", report.Session)
	}
	return nil
}
