package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results for one file.
type ValidationResult struct {
	File   string          `json:"file"`
	Valid  bool            `json:"valid"`
	Issues []ScenarioIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml | scenarios-dir>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario YAML files against the scenario schema without
executing them. Catches unknown operations, malformed values, and
missing required fields. Faster than a run for authoring feedback.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("path not found: %s", path), nil)
		return WrapExitError(ExitCommandError, "path not found", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = FindScenarioFiles(path)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scanning %s: %v", path, err), nil)
			return WrapExitError(ExitCommandError, "scan scenarios", err)
		}
		if len(files) == 0 {
			_ = formatter.Error(ErrCodeNoFiles, fmt.Sprintf("no scenario files found in %s", path), nil)
			return NewExitError(ExitCommandError, "no scenario files found")
		}
	}

	var results []ValidationResult
	invalid := 0
	for _, file := range files {
		formatter.VerboseLog("validating %s", file)
		issues, err := ValidateScenarioFile(file)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("validating %s", file), err)
		}
		if len(issues) > 0 {
			invalid++
		}
		results = append(results, ValidationResult{
			File:   file,
			Valid:  len(issues) == 0,
			Issues: issues,
		})
	}

	if err := outputValidateResults(formatter, results); err != nil {
		return err
	}
	if invalid > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) invalid", invalid, len(files)))
	}
	return nil
}

func outputValidateResults(f *OutputFormatter, results []ValidationResult) error {
	if f.Format == "json" {
		return f.Success(results)
	}

	for _, r := range results {
		if r.Valid {
			fmt.Fprintf(f.Writer, "✓ %s\n", r.File)
			continue
		}
		fmt.Fprintf(f.Writer, "✗ %s\n", r.File)
		for _, issue := range r.Issues {
			if issue.Line > 0 {
				fmt.Fprintf(f.Writer, "    line %d: %s\n", issue.Line, issue.Message)
			} else {
				fmt.Fprintf(f.Writer, "    %s\n", issue.Message)
			}
		}
	}
	return nil
}
