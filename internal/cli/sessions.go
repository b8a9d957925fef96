package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillps/quill/internal/journal"
)

// SessionsOptions holds flags for the sessions command.
type SessionsOptions struct {
	*RootOptions
	Database string
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List journaled sessions, newest first",
		Args:  cobra.NoArgs,
		Example: `  quill sessions --db ./quill.db
  quill sessions --db ./quill.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSessions(opts *SessionsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	j, err := journal.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer func() { _ = j.Close() }()

	sessions, err := j.Sessions(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list sessions", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(sessions)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(formatter.Writer, "no sessions")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(formatter.Writer, "%s  %-24s %d record(s)\n", s.ID, s.Label, s.Records)
	}
	return nil
}
