package object

// Value is a sealed interface over the types an interpreter slot can hold.
// Only Null, Integer, Real, Boolean, Name, and the four composite types
// (*Array, *Dict, *String, *Capsule) implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null is the absent value.
// Using an explicit type keeps the union total: a nil Value is a bug,
// a Null is data.
type Null struct{}

func (Null) value() {}

// Integer is a signed integer slot value. Always int64.
type Integer int64

func (Integer) value() {}

// Real is a floating-point slot value.
type Real float64

func (Real) value() {}

// Boolean is a true/false slot value.
type Boolean bool

func (Boolean) value() {}

// Name is an interned symbol. Names compare by contents and are immutable,
// unlike strings, which are mutable byte views.
type Name string

func (Name) value() {}

// compositeStore returns the backing store when v is a composite value.
// Simple values return (nil, false).
func compositeStore(v Value) (Store, bool) {
	switch c := v.(type) {
	case *Array:
		return c.store, true
	case *Dict:
		return c.store, true
	case *String:
		return c.store, true
	case *Capsule:
		return c.store, true
	default:
		return nil, false
	}
}

// IsComposite reports whether v is one of the four composite types.
func IsComposite(v Value) bool {
	_, ok := compositeStore(v)
	return ok
}

// IdentityOf returns the identity of a composite value.
// Simple values have no identity; ok is false for them.
func IdentityOf(v Value) (Identity, bool) {
	s, ok := compositeStore(v)
	if !ok {
		return 0, false
	}
	return s.ID(), true
}

// IsGlobal reports whether v is a composite allocated in global VM.
// Simple values are not VM-resident and report false.
func IsGlobal(v Value) bool {
	s, ok := compositeStore(v)
	return ok && s.Global()
}
