package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// scenarioSchema is the CUE schema every scenario file must satisfy.
// It mirrors the harness step and assertion shapes, so a file that passes
// validation also passes the harness's strict YAML decoding.
const scenarioSchema = `
#Value: {
	"null"?:   bool
	"int"?:    int
	"real"?:   number
	"bool"?:   bool
	"name"?:   string
	"string"?: string
	"ref"?:    string
}

#Step: {
	op: "alloc_array" | "alloc_dict" | "alloc_string" | "alloc_capsule" |
		"setmode" | "save" | "restore" |
		"get" | "put" | "getinterval" | "putinterval" | "reverse" |
		"undef" | "length" | "text" | "restrict" | "alias"
	name?:   string
	object?: string
	source?: string
	token?:  string
	mode?:   "local" | "global"
	size?:   int & >=0
	index?:  int & >=0
	count?:  int & >=0
	text?:   string
	access?: "none" | "execute-only" | "write-only" | "read-only" | "unlimited"
	key?:    #Value
	value?:  #Value
	expect?: "RANGECHECK" | "INVALIDACCESS" | "INVALIDRESTORE"
}

#Assertion: {
	object?:    string
	index?:     int & >=0
	key?:       #Value
	equals?:    #Value
	undefined?: bool
	text?:      string
	length?:    int & >=0
	global?:    bool
	depth?:     int & >=0
}

#Scenario: {
	name:        string & !=""
	description: string & !=""
	steps: [#Step, ...#Step]
	assertions?: [...#Assertion]
}
`

// ScenarioIssue is one schema violation found in a scenario file.
type ScenarioIssue struct {
	Path    string `json:"path,omitempty"` // CUE path inside the document
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidateScenarioFile checks one scenario YAML file against the schema.
// Returns the violations found; a nil slice means the file is valid. The
// error return is reserved for unreadable files and schema bugs.
func ValidateScenarioFile(path string) ([]ScenarioIssue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(scenarioSchema)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return []ScenarioIssue{issueFromError(err)}, nil
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return []ScenarioIssue{issueFromError(err)}, nil
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		var issues []ScenarioIssue
		for _, e := range cueerrors.Errors(err) {
			issues = append(issues, issueFromCueError(e))
		}
		return issues, nil
	}
	return nil, nil
}

func issueFromError(err error) ScenarioIssue {
	for _, e := range cueerrors.Errors(err) {
		return issueFromCueError(e)
	}
	return ScenarioIssue{Message: err.Error()}
}

func issueFromCueError(e cueerrors.Error) ScenarioIssue {
	issue := ScenarioIssue{Message: e.Error()}
	if path := e.Path(); len(path) > 0 {
		issue.Path = cue.MakePath(pathSelectors(path)...).String()
	}
	if pos := e.Position(); pos.IsValid() {
		issue.Line = pos.Line()
	}
	return issue
}

func pathSelectors(parts []string) []cue.Selector {
	sels := make([]cue.Selector, len(parts))
	for i, p := range parts {
		sels[i] = cue.Str(p)
	}
	return sels
}

// FindScenarioFiles returns every .yaml/.yml file under dir, sorted for
// deterministic ordering.
func FindScenarioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric   = "E001" // Generic/unknown error
	ErrCodeNotFound  = "E002" // Path not found
	ErrCodeNoFiles   = "E003" // No scenario files found
	ErrCodeInvalid   = "E004" // Scenario failed schema validation
	ErrCodeRunFailed = "E005" // Scenario execution failed
	ErrCodeJournal   = "E006" // Journal open/read/write error
	ErrCodeNoSession = "E007" // Session not found or empty
)
