package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"golang.org/x/text/unicode/norm"
)

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden. The golden name is normalized
// to NFC so scenario files written on different platforms address the
// same fixture.
//
// To regenerate golden files:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	runner := NewRunner(nil)
	snapshot, err := runner.Run(scenario)
	if err != nil {
		return err
	}
	if err := runner.Check(scenario); err != nil {
		return err
	}

	AssertGolden(t, scenario.Name, snapshot)
	return nil
}

// AssertGolden compares an already-captured trace snapshot against its
// golden file.
func AssertGolden(t *testing.T, name string, snapshot *TraceSnapshot) {
	t.Helper()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		t.Fatalf("marshal trace: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, norm.NFC.String(name), data)
}
