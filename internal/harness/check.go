package harness

import (
	"fmt"

	"github.com/quillps/quill/internal/object"
)

// Check validates every assertion against the final state. Assertions
// read through the bound references, so access restrictions applied by
// restrict steps are visible to them.
func (r *Runner) Check(s *Scenario) error {
	for i, a := range s.Assertions {
		if err := r.checkOne(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Runner) checkOne(a Assertion) error {
	if a.Depth != nil {
		if got := r.ctx.Depth(); got != *a.Depth {
			return fmt.Errorf("checkpoint depth is %d, want %d", got, *a.Depth)
		}
		return nil
	}

	v, err := r.lookup(a.Object)
	if err != nil {
		return err
	}

	if a.Global != nil {
		if got := object.IsGlobal(v); got != *a.Global {
			return fmt.Errorf("%s: global is %v, want %v", a.Object, got, *a.Global)
		}
	}

	if a.Length != nil {
		got, err := valueLength(v)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Object, err)
		}
		if got != *a.Length {
			return fmt.Errorf("%s: length is %d, want %d", a.Object, got, *a.Length)
		}
	}

	if a.Text != nil {
		s, ok := v.(*object.String)
		if !ok {
			return fmt.Errorf("%s: text assertion on a non-string", a.Object)
		}
		got, err := s.Text()
		if err != nil {
			return fmt.Errorf("%s: %w", a.Object, err)
		}
		if renderText(got) != renderText(*a.Text) {
			return fmt.Errorf("%s: text is %q, want %q", a.Object, got, *a.Text)
		}
	}

	if a.Index != nil || a.Key != nil || a.Undefined {
		if err := r.checkElement(a, v); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) checkElement(a Assertion, v object.Value) error {
	got, defined, err := r.readElement(a, v)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Object, err)
	}

	if a.Undefined {
		if defined {
			return fmt.Errorf("%s: key is defined, want undefined", a.Object)
		}
		return nil
	}
	if !defined {
		return fmt.Errorf("%s: key is undefined", a.Object)
	}
	if a.Equals == nil {
		return nil
	}

	want, err := r.expectedValue(a.Equals)
	if err != nil {
		return err
	}
	if !valuesEqual(got, want) {
		return fmt.Errorf("%s: element is %s, want %s",
			a.Object, renderValue(got), renderValue(want))
	}
	return nil
}

// readElement fetches the element an assertion addresses. The bool result
// reports whether a dictionary key was defined; indexed reads are always
// defined when in bounds.
func (r *Runner) readElement(a Assertion, v object.Value) (object.Value, bool, error) {
	switch o := v.(type) {
	case *object.Array:
		if a.Index == nil {
			return nil, false, fmt.Errorf("array assertion requires an index")
		}
		got, err := o.Get(*a.Index)
		return got, err == nil, err
	case *object.String:
		if a.Index == nil {
			return nil, false, fmt.Errorf("string assertion requires an index")
		}
		b, err := o.Get(*a.Index)
		return object.Integer(b), err == nil, err
	case *object.Dict:
		if a.Key == nil {
			return nil, false, fmt.Errorf("dict assertion requires a key")
		}
		key, err := r.expectedValue(a.Key)
		if err != nil {
			return nil, false, err
		}
		got, ok, err := o.Get(key)
		return got, ok, err
	default:
		return nil, false, fmt.Errorf("element assertion on a non-container")
	}
}

// expectedValue resolves a ValueSpec for comparison. Unlike resolveValue
// it never allocates: a String spec is compared against string contents
// via a Name, so assertions cannot disturb the identity sequence.
func (r *Runner) expectedValue(spec *ValueSpec) (object.Value, error) {
	if spec != nil && spec.String != nil {
		return object.Name(*spec.String), nil
	}
	return r.resolveValue(spec)
}

// valuesEqual compares a stored value with an expected one. Composites
// compare by identity; a Name matches a string with the same bytes, which
// mirrors how dictionaries intern string keys.
func valuesEqual(got, want object.Value) bool {
	if wn, ok := want.(object.Name); ok {
		if gs, ok := got.(*object.String); ok {
			text, err := gs.Text()
			return err == nil && text == string(wn)
		}
	}
	if object.IsComposite(got) || object.IsComposite(want) {
		gid, gok := object.IdentityOf(got)
		wid, wok := object.IdentityOf(want)
		return gok && wok && gid == wid
	}
	return got == want
}

func valueLength(v object.Value) (int, error) {
	switch o := v.(type) {
	case *object.Array:
		return o.Len(), nil
	case *object.String:
		return o.Len(), nil
	case *object.Dict:
		return o.Len(), nil
	default:
		return 0, fmt.Errorf("length assertion on a non-container")
	}
}
