package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quillps/quill/internal/harness"
)

// TestResult is the outcome of one scenario in a test run.
type TestResult struct {
	Scenario string `json:"scenario"`
	File     string `json:"file"`
	Passed   bool   `json:"passed"`
	Steps    int    `json:"steps"`
	Reason   string `json:"reason,omitempty"`
}

// TestSummary aggregates a test run over a scenario directory.
type TestSummary struct {
	Total   int          `json:"total"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Results []TestResult `json:"results"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run every scenario in a directory",
		Long: `Run every scenario file in a directory, each against its own fresh
memory model, and report a pass/fail summary. A scenario passes when
every step produces its expected result and every assertion holds.

Example:
  quill test ./scenarios
  quill test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTests(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := FindScenarioFiles(dir)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("scanning %s: %v", dir, err), nil)
		return WrapExitError(ExitCommandError, "scan scenarios", err)
	}
	if len(files) == 0 {
		_ = formatter.Error(ErrCodeNoFiles, fmt.Sprintf("no scenario files found in %s", dir), nil)
		return NewExitError(ExitCommandError, "no scenario files found")
	}

	summary := TestSummary{Total: len(files)}
	for _, file := range files {
		result := runOneTest(file, formatter)
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	if err := outputTestSummary(formatter, summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", summary.Failed, summary.Total))
	}
	return nil
}

func runOneTest(file string, formatter *OutputFormatter) TestResult {
	formatter.VerboseLog("running %s", file)

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return TestResult{File: file, Reason: err.Error()}
	}

	result := TestResult{Scenario: scenario.Name, File: file, Steps: len(scenario.Steps)}

	runner := harness.NewRunner(nil)
	if _, err := runner.Run(scenario); err != nil {
		result.Reason = err.Error()
		return result
	}
	if err := runner.Check(scenario); err != nil {
		result.Reason = err.Error()
		return result
	}

	result.Passed = true
	return result
}

func outputTestSummary(f *OutputFormatter, summary TestSummary) error {
	if f.Format == "json" {
		return f.Success(summary)
	}

	for _, r := range summary.Results {
		name := r.Scenario
		if name == "" {
			name = r.File
		}
		if r.Passed {
			fmt.Fprintf(f.Writer, "✓ %s (%d steps)\n", name, r.Steps)
		} else {
			fmt.Fprintf(f.Writer, "✗ %s\n    %s\n", name, r.Reason)
		}
	}
	fmt.Fprintf(f.Writer, "\n%d passed, %d failed, %d total\n",
		summary.Passed, summary.Failed, summary.Total)
	return nil
}
