package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int64) *int64   { return &v }
func strp(v string) *string { return &v }
func idxp(v int) *int       { return &v }

func runScenario(t *testing.T, s *Scenario) *TraceSnapshot {
	t.Helper()
	r := NewRunner(nil)
	snap, err := r.Run(s)
	require.NoError(t, err)
	require.NoError(t, r.Check(s))
	return snap
}

func TestRunner_ArrayRoundTrip(t *testing.T) {
	snap := runScenario(t, &Scenario{
		Name:        "array_round_trip",
		Description: "put then get",
		Steps: []Step{
			{Op: "alloc_array", Name: "a", Size: 2},
			{Op: "put", Object: "a", Index: 1, Value: &ValueSpec{Int: intp(42)}},
			{Op: "get", Object: "a", Index: 1},
		},
		Assertions: []Assertion{
			{Object: "a", Index: idxp(1), Equals: &ValueSpec{Int: intp(42)}},
			{Object: "a", Index: idxp(0), Equals: &ValueSpec{Null: true}},
		},
	})

	require.Len(t, snap.Trace, 3)
	assert.Equal(t, "array#1", snap.Trace[0].Observed)
	assert.Equal(t, "42", snap.Trace[2].Observed)
}

func TestRunner_ExpectedErrorCodeMatches(t *testing.T) {
	runScenario(t, &Scenario{
		Name:        "rangecheck",
		Description: "out of bounds",
		Steps: []Step{
			{Op: "alloc_array", Name: "a", Size: 2},
			{Op: "get", Object: "a", Index: 5, Expect: "RANGECHECK"},
		},
	})
}

func TestRunner_UnexpectedErrorCodeFailsRun(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(&Scenario{
		Name:        "surprise",
		Description: "step should have succeeded",
		Steps: []Step{
			{Op: "alloc_array", Name: "a", Size: 2},
			{Op: "get", Object: "a", Index: 5},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected ok, got RANGECHECK")
}

func TestRunner_NegativeAllocationSizeIsScenarioBug(t *testing.T) {
	tests := []struct {
		name string
		step Step
	}{
		{name: "array", step: Step{Op: "alloc_array", Name: "a", Size: -1}},
		{name: "string", step: Step{Op: "alloc_string", Name: "s", Size: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(nil)
			_, err := r.Run(&Scenario{
				Name:        "negative_size",
				Description: "allocation size below zero must fail, not panic",
				Steps:       []Step{tt.step},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "size must be non-negative")
		})
	}
}

func TestRunner_UnknownLabelIsScenarioBug(t *testing.T) {
	r := NewRunner(nil)
	_, err := r.Run(&Scenario{
		Name:        "bad_label",
		Description: "references an object that was never bound",
		Steps: []Step{
			{Op: "get", Object: "nope", Index: 0},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown object label "nope"`)
}

func TestRunner_GlobalAllocationMode(t *testing.T) {
	global := true
	local := false
	runScenario(t, &Scenario{
		Name:        "modes",
		Description: "setmode routes allocations",
		Steps: []Step{
			{Op: "alloc_array", Name: "l", Size: 1},
			{Op: "setmode", Mode: "global"},
			{Op: "alloc_array", Name: "g", Size: 1},
			{Op: "setmode", Mode: "local"},
		},
		Assertions: []Assertion{
			{Object: "l", Global: &local},
			{Object: "g", Global: &global},
		},
	})
}

func TestRunner_ContainmentViolation(t *testing.T) {
	runScenario(t, &Scenario{
		Name:        "containment",
		Description: "a global array may not hold a local composite",
		Steps: []Step{
			{Op: "setmode", Mode: "global"},
			{Op: "alloc_array", Name: "g", Size: 1},
			{Op: "setmode", Mode: "local"},
			{Op: "alloc_dict", Name: "d"},
			{Op: "put", Object: "g", Index: 0, Value: &ValueSpec{Ref: strp("d")},
				Expect: "INVALIDACCESS"},
		},
	})
}

func TestRunner_SubViewSharesStorage(t *testing.T) {
	runScenario(t, &Scenario{
		Name:        "subview",
		Description: "writes through a sub-view land in the parent",
		Steps: []Step{
			{Op: "alloc_array", Name: "a", Size: 4},
			{Op: "getinterval", Object: "a", Name: "w", Index: 1, Count: 2},
			{Op: "put", Object: "w", Index: 0, Value: &ValueSpec{Int: intp(9)}},
		},
		Assertions: []Assertion{
			{Object: "a", Index: idxp(1), Equals: &ValueSpec{Int: intp(9)}},
			{Object: "w", Length: idxp(2)},
		},
	})
}

func TestRunner_AliasSeesRestore(t *testing.T) {
	runScenario(t, &Scenario{
		Name:        "alias_restore",
		Description: "restore rewinds the shared store under every alias",
		Steps: []Step{
			{Op: "alloc_dict", Name: "d"},
			{Op: "alias", Object: "d", Name: "d2"},
			{Op: "put", Object: "d", Key: &ValueSpec{Name: strp("k")}, Value: &ValueSpec{Int: intp(1)}},
			{Op: "save", Name: "cp"},
			{Op: "put", Object: "d2", Key: &ValueSpec{Name: strp("k")}, Value: &ValueSpec{Int: intp(2)}},
			{Op: "restore", Token: "cp"},
		},
		Assertions: []Assertion{
			{Object: "d", Key: &ValueSpec{Name: strp("k")}, Equals: &ValueSpec{Int: intp(1)}},
			{Object: "d2", Key: &ValueSpec{Name: strp("k")}, Equals: &ValueSpec{Int: intp(1)}},
		},
	})
}

func TestRunner_StringTextAndReverse(t *testing.T) {
	snap := runScenario(t, &Scenario{
		Name:        "string_text",
		Description: "seeded string reads back and reverses",
		Steps: []Step{
			{Op: "alloc_string", Name: "s", Text: "hi"},
			{Op: "text", Object: "s"},
			{Op: "alloc_array", Name: "a", Size: 2},
			{Op: "put", Object: "a", Index: 0, Value: &ValueSpec{Int: intp(1)}},
			{Op: "put", Object: "a", Index: 1, Value: &ValueSpec{Int: intp(2)}},
			{Op: "reverse", Object: "a"},
		},
		Assertions: []Assertion{
			{Object: "s", Text: strp("hi")},
			{Object: "a", Index: idxp(0), Equals: &ValueSpec{Int: intp(2)}},
		},
	})
	assert.Equal(t, "(hi)", snap.Trace[1].Observed)
}
