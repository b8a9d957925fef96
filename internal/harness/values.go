package harness

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/quillps/quill/internal/object"
	"github.com/quillps/quill/internal/vm"
)

// resolveValue turns a ValueSpec into a live object.Value. Ref looks up a
// bound label; String allocates a fresh local string in ctx so scenarios
// can exercise string-key semantics without an explicit alloc step.
func (r *Runner) resolveValue(spec *ValueSpec) (object.Value, error) {
	switch {
	case spec == nil:
		return nil, fmt.Errorf("missing value")
	case spec.Null:
		return object.Null{}, nil
	case spec.Int != nil:
		return object.Integer(*spec.Int), nil
	case spec.Real != nil:
		return object.Real(*spec.Real), nil
	case spec.Bool != nil:
		return object.Boolean(*spec.Bool), nil
	case spec.Name != nil:
		return object.Name(*spec.Name), nil
	case spec.String != nil:
		return r.ctx.NewStringBytes([]byte(*spec.String)), nil
	case spec.Ref != nil:
		v, ok := r.objects[*spec.Ref]
		if !ok {
			return nil, fmt.Errorf("unknown object label %q", *spec.Ref)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("empty value spec")
	}
}

// renderValue produces the deterministic trace form of a value.
// Composites render by identity, which is reproducible because identities
// come from a counter driven only by the scenario's own steps.
func renderValue(v object.Value) string {
	switch val := v.(type) {
	case object.Null:
		return "null"
	case object.Integer:
		return strconv.FormatInt(int64(val), 10)
	case object.Real:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case object.Boolean:
		return strconv.FormatBool(bool(val))
	case object.Name:
		return "/" + string(val)
	case *object.Array:
		return fmt.Sprintf("array#%d", val.ID())
	case *object.Dict:
		return fmt.Sprintf("dict#%d", val.ID())
	case *object.String:
		return fmt.Sprintf("string#%d", val.ID())
	case *object.Capsule:
		return fmt.Sprintf("capsule#%d", val.ID())
	default:
		return fmt.Sprintf("unknown(%T)", v)
	}
}

// renderText normalizes string contents to NFC so golden traces compare
// stably regardless of how the scenario file encoded its literals.
func renderText(s string) string {
	return norm.NFC.String(s)
}

// parseAccess maps a scenario access name to an object.Access.
func parseAccess(name string) (object.Access, error) {
	switch name {
	case "none":
		return object.AccessNone, nil
	case "execute-only":
		return object.AccessExecuteOnly, nil
	case "write-only":
		return object.AccessWriteOnly, nil
	case "read-only":
		return object.AccessReadOnly, nil
	case "unlimited":
		return object.AccessUnlimited, nil
	default:
		return 0, fmt.Errorf("unknown access level %q", name)
	}
}

// parseMode maps a scenario mode name to a vm.AllocMode.
func parseMode(name string) (vm.AllocMode, error) {
	switch name {
	case "local":
		return vm.ModeLocal, nil
	case "global":
		return vm.ModeGlobal, nil
	default:
		return "", fmt.Errorf("unknown allocation mode %q", name)
	}
}
