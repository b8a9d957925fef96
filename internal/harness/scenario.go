package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for the memory model:
// a sequence of operations with expected outcomes and assertions on the
// final state.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps is the operation sequence, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one memory operation. Op selects the operation; the remaining
// fields are its arguments. Labels bind and reference objects and restore
// tokens: alloc/getinterval/alias/restrict bind Name, later steps address
// the object via Object (or Source, Token).
type Step struct {
	// Op is the operation name. One of: alloc_array, alloc_dict,
	// alloc_string, alloc_capsule, setmode, save, restore, get, put,
	// getinterval, putinterval, reverse, undef, length, text, restrict,
	// alias.
	Op string `yaml:"op" json:"op"`

	// Name binds the step's product (new object, sub-view, alias, or
	// save token) to a label.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Object is the label of the step's target object.
	Object string `yaml:"object,omitempty" json:"object,omitempty"`

	// Source is the label of the source object for putinterval.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`

	// Token is the label of the save token for restore.
	Token string `yaml:"token,omitempty" json:"token,omitempty"`

	// Mode is the allocation mode for setmode: "local" or "global".
	Mode string `yaml:"mode,omitempty" json:"mode,omitempty"`

	// Size is the element count for alloc_array / alloc_string.
	Size int `yaml:"size,omitempty" json:"size,omitempty"`

	// Index is the element position for get/put/getinterval/putinterval.
	Index int `yaml:"index,omitempty" json:"index,omitempty"`

	// Count is the window length for getinterval.
	Count int `yaml:"count,omitempty" json:"count,omitempty"`

	// Text seeds alloc_string contents, or carries the byte for a
	// string put.
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// Access is the access level for restrict: none, execute-only,
	// write-only, read-only, unlimited.
	Access string `yaml:"access,omitempty" json:"access,omitempty"`

	// Key is the dictionary key for dict get/put/undef.
	Key *ValueSpec `yaml:"key,omitempty" json:"key,omitempty"`

	// Value is the stored value for array/dict put.
	Value *ValueSpec `yaml:"value,omitempty" json:"value,omitempty"`

	// Expect is the expected error code (RANGECHECK, INVALIDACCESS,
	// INVALIDRESTORE). Empty means the step must succeed.
	Expect string `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// ValueSpec denotes a value in scenario YAML. Exactly one field is set.
// Ref references a previously bound object label; String allocates a
// fresh local string seeded with the given bytes.
type ValueSpec struct {
	Null   bool     `yaml:"null,omitempty" json:"null,omitempty"`
	Int    *int64   `yaml:"int,omitempty" json:"int,omitempty"`
	Real   *float64 `yaml:"real,omitempty" json:"real,omitempty"`
	Bool   *bool    `yaml:"bool,omitempty" json:"bool,omitempty"`
	Name   *string  `yaml:"name,omitempty" json:"name,omitempty"`
	String *string  `yaml:"string,omitempty" json:"string,omitempty"`
	Ref    *string  `yaml:"ref,omitempty" json:"ref,omitempty"`
}

// Assertion validates one aspect of the final state.
type Assertion struct {
	// Object is the label of the object under test. Empty for Depth.
	Object string `yaml:"object,omitempty"`

	// Index selects an array/string element to compare.
	Index *int `yaml:"index,omitempty"`

	// Key selects a dictionary entry to compare.
	Key *ValueSpec `yaml:"key,omitempty"`

	// Equals is the expected element value.
	Equals *ValueSpec `yaml:"equals,omitempty"`

	// Undefined asserts the dictionary key is absent.
	Undefined bool `yaml:"undefined,omitempty"`

	// Text is the expected full string contents.
	Text *string `yaml:"text,omitempty"`

	// Length is the expected element count.
	Length *int `yaml:"length,omitempty"`

	// Global asserts the object's VM membership.
	Global *bool `yaml:"global,omitempty"`

	// Depth is the expected number of open checkpoints.
	Depth *int `yaml:"depth,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected, so typos fail loudly instead of silently
// skipping a check.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, st := range s.Steps {
		if st.Op == "" {
			return fmt.Errorf("step %d: op is required", i+1)
		}
		if st.Size < 0 {
			return fmt.Errorf("step %d: size must be non-negative, got %d", i+1, st.Size)
		}
		if st.Index < 0 {
			return fmt.Errorf("step %d: index must be non-negative, got %d", i+1, st.Index)
		}
		if st.Count < 0 {
			return fmt.Errorf("step %d: count must be non-negative, got %d", i+1, st.Count)
		}
	}
	return nil
}
