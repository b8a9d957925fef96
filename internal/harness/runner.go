package harness

import (
	"fmt"

	"github.com/quillps/quill/internal/object"
	"github.com/quillps/quill/internal/vm"
)

// Runner executes one scenario against one fresh Memory. Labels bound by
// steps resolve to live objects or save tokens for later steps and for
// assertions.
type Runner struct {
	mem     *vm.Memory
	ctx     *vm.Context
	objects map[string]object.Value
	tokens  map[string]*vm.Checkpoint
	trace   []TraceEvent
	rec     *Recorder
}

// TraceEvent is one executed step in the deterministic trace.
type TraceEvent struct {
	Step     int    `json:"step"`
	Op       string `json:"op"`
	Target   string `json:"target,omitempty"`
	Result   string `json:"result"`
	Observed string `json:"observed,omitempty"`
}

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// resultOK is the trace form of a successful step.
const resultOK = "ok"

// NewRunner creates a runner over a fresh Memory with one context.
// rec may be nil to run without journaling.
func NewRunner(rec *Recorder) *Runner {
	mem := vm.NewMemory()
	return &Runner{
		mem:     mem,
		ctx:     mem.NewContext(),
		objects: make(map[string]object.Value),
		tokens:  make(map[string]*vm.Checkpoint),
		rec:     rec,
	}
}

// Run executes every step in order. A step whose result code differs from
// its Expect clause aborts the run with a descriptive error; the partial
// trace is still returned for diagnosis.
func (r *Runner) Run(s *Scenario) (*TraceSnapshot, error) {
	for i, st := range s.Steps {
		code, observed, err := r.executeStep(st)
		if err != nil {
			return r.snapshot(s), fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}

		r.trace = append(r.trace, TraceEvent{
			Step:     i + 1,
			Op:       st.Op,
			Target:   st.Object,
			Result:   code,
			Observed: observed,
		})
		if r.rec != nil {
			if err := r.rec.record(st, code); err != nil {
				return r.snapshot(s), fmt.Errorf("step %d (%s): record: %w", i+1, st.Op, err)
			}
		}

		want := st.Expect
		if want == "" {
			want = resultOK
		}
		if code != want {
			return r.snapshot(s), fmt.Errorf("step %d (%s): expected %s, got %s", i+1, st.Op, want, code)
		}
	}
	return r.snapshot(s), nil
}

func (r *Runner) snapshot(s *Scenario) *TraceSnapshot {
	return &TraceSnapshot{ScenarioName: s.Name, Trace: r.trace}
}

// resultCode folds an operation outcome into its trace form: "ok", a
// model error code, or a hard failure for non-model errors.
func resultCode(err error) (string, error) {
	if err == nil {
		return resultOK, nil
	}
	if code := object.CodeOf(err); code != "" {
		return string(code), nil
	}
	return "", err
}

// executeStep dispatches one step. The error return is reserved for
// scenario bugs (unknown labels, wrong object kinds); model errors become
// result codes.
func (r *Runner) executeStep(st Step) (string, string, error) {
	switch st.Op {
	case "alloc_array":
		// Steps decoded from a journal bypass scenario validation, so
		// the allocator's input is checked here as well.
		if st.Size < 0 {
			return "", "", fmt.Errorf("size must be non-negative, got %d", st.Size)
		}
		a := r.ctx.NewArray(st.Size)
		return r.bind(st.Name, a)

	case "alloc_dict":
		d := r.ctx.NewDict()
		return r.bind(st.Name, d)

	case "alloc_string":
		if st.Size < 0 {
			return "", "", fmt.Errorf("size must be non-negative, got %d", st.Size)
		}
		var s *object.String
		if st.Text != "" {
			s = r.ctx.NewStringBytes([]byte(st.Text))
		} else {
			s = r.ctx.NewString(st.Size)
		}
		return r.bind(st.Name, s)

	case "alloc_capsule":
		c := r.ctx.NewCapsule(object.GraphicsState{LineWidth: 1, MiterLimit: 10})
		return r.bind(st.Name, c)

	case "setmode":
		mode, err := parseMode(st.Mode)
		if err != nil {
			return "", "", err
		}
		r.ctx.SetAllocationMode(mode)
		return resultOK, string(mode), nil

	case "save":
		if st.Name == "" {
			return "", "", fmt.Errorf("save step requires a name")
		}
		r.tokens[st.Name] = r.ctx.Save()
		return resultOK, fmt.Sprintf("depth=%d", r.ctx.Depth()), nil

	case "restore":
		token, ok := r.tokens[st.Token]
		if !ok {
			return "", "", fmt.Errorf("unknown token label %q", st.Token)
		}
		code, err := resultCode(r.ctx.Restore(token))
		if err != nil {
			return "", "", err
		}
		return code, fmt.Sprintf("depth=%d", r.ctx.Depth()), nil

	case "get":
		return r.execGet(st)
	case "put":
		return r.execPut(st)
	case "getinterval":
		return r.execGetInterval(st)
	case "putinterval":
		return r.execPutInterval(st)

	case "reverse":
		a, err := r.lookupArray(st.Object)
		if err != nil {
			return "", "", err
		}
		code, err := resultCode(a.Reverse())
		return code, "", err

	case "undef":
		d, err := r.lookupDict(st.Object)
		if err != nil {
			return "", "", err
		}
		key, err := r.resolveValue(st.Key)
		if err != nil {
			return "", "", err
		}
		code, err := resultCode(d.Undef(key))
		return code, "", err

	case "length":
		v, err := r.lookup(st.Object)
		if err != nil {
			return "", "", err
		}
		switch o := v.(type) {
		case *object.Array:
			return resultOK, fmt.Sprintf("%d", o.Len()), nil
		case *object.String:
			return resultOK, fmt.Sprintf("%d", o.Len()), nil
		case *object.Dict:
			return resultOK, fmt.Sprintf("%d", o.Len()), nil
		default:
			return "", "", fmt.Errorf("length: %q is not a container", st.Object)
		}

	case "text":
		s, err := r.lookupString(st.Object)
		if err != nil {
			return "", "", err
		}
		text, terr := s.Text()
		code, err := resultCode(terr)
		if err != nil {
			return "", "", err
		}
		if code != resultOK {
			return code, "", nil
		}
		return resultOK, fmt.Sprintf("(%s)", renderText(text)), nil

	case "restrict":
		return r.execRestrict(st)

	case "alias":
		d, err := r.lookupDict(st.Object)
		if err != nil {
			return "", "", err
		}
		return r.bind(st.Name, d.Alias())

	default:
		return "", "", fmt.Errorf("unknown op %q", st.Op)
	}
}

// bind stores a produced value under its label and reports it in the
// trace.
func (r *Runner) bind(label string, v object.Value) (string, string, error) {
	if label == "" {
		return "", "", fmt.Errorf("step requires a name to bind its result")
	}
	r.objects[label] = v
	return resultOK, renderValue(v), nil
}

func (r *Runner) lookup(label string) (object.Value, error) {
	v, ok := r.objects[label]
	if !ok {
		return nil, fmt.Errorf("unknown object label %q", label)
	}
	return v, nil
}

func (r *Runner) lookupArray(label string) (*object.Array, error) {
	v, err := r.lookup(label)
	if err != nil {
		return nil, err
	}
	a, ok := v.(*object.Array)
	if !ok {
		return nil, fmt.Errorf("%q is not an array", label)
	}
	return a, nil
}

func (r *Runner) lookupDict(label string) (*object.Dict, error) {
	v, err := r.lookup(label)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*object.Dict)
	if !ok {
		return nil, fmt.Errorf("%q is not a dict", label)
	}
	return d, nil
}

func (r *Runner) lookupString(label string) (*object.String, error) {
	v, err := r.lookup(label)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*object.String)
	if !ok {
		return nil, fmt.Errorf("%q is not a string", label)
	}
	return s, nil
}

func (r *Runner) execGet(st Step) (string, string, error) {
	v, err := r.lookup(st.Object)
	if err != nil {
		return "", "", err
	}
	switch o := v.(type) {
	case *object.Array:
		got, gerr := o.Get(st.Index)
		code, err := resultCode(gerr)
		if err != nil || code != resultOK {
			return code, "", err
		}
		return resultOK, renderValue(got), nil
	case *object.String:
		b, gerr := o.Get(st.Index)
		code, err := resultCode(gerr)
		if err != nil || code != resultOK {
			return code, "", err
		}
		return resultOK, fmt.Sprintf("%d", b), nil
	case *object.Dict:
		key, err := r.resolveValue(st.Key)
		if err != nil {
			return "", "", err
		}
		got, ok, gerr := o.Get(key)
		code, err := resultCode(gerr)
		if err != nil || code != resultOK {
			return code, "", err
		}
		if !ok {
			return resultOK, "undefined", nil
		}
		return resultOK, renderValue(got), nil
	default:
		return "", "", fmt.Errorf("get: %q is not a container", st.Object)
	}
}

func (r *Runner) execPut(st Step) (string, string, error) {
	v, err := r.lookup(st.Object)
	if err != nil {
		return "", "", err
	}
	switch o := v.(type) {
	case *object.Array:
		val, err := r.resolveValue(st.Value)
		if err != nil {
			return "", "", err
		}
		code, err := resultCode(o.Put(st.Index, val))
		return code, "", err
	case *object.String:
		b, err := stepByte(st)
		if err != nil {
			return "", "", err
		}
		code, err := resultCode(o.Put(st.Index, b))
		return code, "", err
	case *object.Dict:
		key, err := r.resolveValue(st.Key)
		if err != nil {
			return "", "", err
		}
		val, err := r.resolveValue(st.Value)
		if err != nil {
			return "", "", err
		}
		code, err := resultCode(o.Put(key, val))
		return code, "", err
	default:
		return "", "", fmt.Errorf("put: %q is not a container", st.Object)
	}
}

// stepByte extracts the byte for a string put: a one-character Text or an
// integer Value.
func stepByte(st Step) (byte, error) {
	if st.Text != "" {
		if len(st.Text) != 1 {
			return 0, fmt.Errorf("string put text must be one byte, got %q", st.Text)
		}
		return st.Text[0], nil
	}
	if st.Value != nil && st.Value.Int != nil {
		return byte(*st.Value.Int), nil
	}
	return 0, fmt.Errorf("string put requires text or an int value")
}

func (r *Runner) execGetInterval(st Step) (string, string, error) {
	v, err := r.lookup(st.Object)
	if err != nil {
		return "", "", err
	}
	switch o := v.(type) {
	case *object.Array:
		sub, gerr := o.GetInterval(st.Index, st.Count)
		code, err := resultCode(gerr)
		if err != nil || code != resultOK {
			return code, "", err
		}
		return r.bind(st.Name, sub)
	case *object.String:
		sub, gerr := o.GetInterval(st.Index, st.Count)
		code, err := resultCode(gerr)
		if err != nil || code != resultOK {
			return code, "", err
		}
		return r.bind(st.Name, sub)
	default:
		return "", "", fmt.Errorf("getinterval: %q is not an array or string", st.Object)
	}
}

func (r *Runner) execPutInterval(st Step) (string, string, error) {
	v, err := r.lookup(st.Object)
	if err != nil {
		return "", "", err
	}
	switch o := v.(type) {
	case *object.Array:
		src, err := r.lookupArray(st.Source)
		if err != nil {
			return "", "", err
		}
		code, err := resultCode(o.PutInterval(st.Index, src))
		return code, "", err
	case *object.String:
		src, err := r.lookupString(st.Source)
		if err != nil {
			return "", "", err
		}
		code, err := resultCode(o.PutInterval(st.Index, src))
		return code, "", err
	default:
		return "", "", fmt.Errorf("putinterval: %q is not an array or string", st.Object)
	}
}

func (r *Runner) execRestrict(st Step) (string, string, error) {
	acc, err := parseAccess(st.Access)
	if err != nil {
		return "", "", err
	}
	v, err := r.lookup(st.Object)
	if err != nil {
		return "", "", err
	}
	label := st.Name
	if label == "" {
		label = st.Object
	}
	var restricted object.Value
	switch o := v.(type) {
	case *object.Array:
		restricted = o.WithAccess(acc)
	case *object.Dict:
		restricted = o.WithAccess(acc)
	case *object.String:
		restricted = o.WithAccess(acc)
	case *object.Capsule:
		restricted = o.WithAccess(acc)
	default:
		return "", "", fmt.Errorf("restrict: %q is not a composite", st.Object)
	}
	r.objects[label] = restricted
	return resultOK, st.Access, nil
}
