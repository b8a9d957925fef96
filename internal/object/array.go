package object

import "slices"

// Array is a fixed-length sequence of slots. An Array value is a view: it
// holds a window (off, n) over a shared backing store, so sub-views created
// by GetInterval alias the same slots as their parent.
type Array struct {
	store  *arrayStore
	off, n int
	access Access
}

func (*Array) value() {}

type arrayStore struct {
	meta
	slots []Value
}

type frozenArray struct {
	slots []Value
}

func (frozenArray) frozen() {}

func (s *arrayStore) Freeze() Frozen {
	return frozenArray{slots: slices.Clone(s.slots)}
}

func (s *arrayStore) Thaw(f Frozen) {
	s.slots = f.(frozenArray).slots
}

// NewArray creates an array of n Null slots backed by a fresh store.
// Callers allocate through the vm package, which issues the identity and
// registers the store; constructing directly yields a detached object.
func NewArray(id Identity, global bool, bar Barrier, n int) *Array {
	slots := make([]Value, n)
	for i := range slots {
		slots[i] = Null{}
	}
	st := &arrayStore{slots: slots}
	st.meta = meta{id: id, global: global, bar: bar}
	return &Array{store: st, off: 0, n: n, access: AccessUnlimited}
}

// Backing returns the array's backing store for reference-table
// registration.
func (a *Array) Backing() Store { return a.store }

// ID returns the identity of the backing store. Sub-views share it.
func (a *Array) ID() Identity { return a.store.id }

// Global reports whether the array lives in global VM.
func (a *Array) Global() bool { return a.store.global }

// Access returns the access level of this reference.
func (a *Array) Access() Access { return a.access }

// WithAccess returns an alias of a with the given access level. The
// backing store is shared; only the new reference is restricted.
func (a *Array) WithAccess(acc Access) *Array {
	dup := *a
	dup.access = acc
	return &dup
}

// Len returns the number of slots visible through this view.
func (a *Array) Len() int { return a.n }

// Get returns the value in slot i.
func (a *Array) Get(i int) (Value, error) {
	if !a.access.CanRead() {
		return nil, accessErr("get", a.store.id, "array is %s", a.access)
	}
	if i < 0 || i >= a.n {
		return nil, rangeErr("get", a.store.id, "index %d outside [0,%d)", i, a.n)
	}
	return a.store.slots[a.off+i], nil
}

// Put stores v into slot i.
func (a *Array) Put(i int, v Value) error {
	if !a.access.CanWrite() {
		return accessErr("put", a.store.id, "array is %s", a.access)
	}
	if err := checkContainment("put", &a.store.meta, v); err != nil {
		return err
	}
	if i < 0 || i >= a.n {
		return rangeErr("put", a.store.id, "index %d outside [0,%d)", i, a.n)
	}
	a.store.mutating(a.store)
	a.store.slots[a.off+i] = v
	return nil
}

// GetInterval returns an aliasing sub-view of count slots starting at
// index. Mutations through the sub-view are visible through a and every
// other view of the same store.
func (a *Array) GetInterval(index, count int) (*Array, error) {
	if !a.access.CanRead() {
		return nil, accessErr("getinterval", a.store.id, "array is %s", a.access)
	}
	if index < 0 || count < 0 || index+count > a.n {
		return nil, rangeErr("getinterval", a.store.id, "window [%d,%d+%d) outside [0,%d)", index, index, count, a.n)
	}
	return &Array{store: a.store, off: a.off + index, n: count, access: a.access}, nil
}

// PutInterval copies all of src into a starting at index. The copy is
// atomic with respect to errors: every check runs before the first slot is
// written.
func (a *Array) PutInterval(index int, src *Array) error {
	if !a.access.CanWrite() {
		return accessErr("putinterval", a.store.id, "array is %s", a.access)
	}
	if !src.access.CanRead() {
		return accessErr("putinterval", a.store.id, "source array is %s", src.access)
	}
	if index < 0 || index+src.n > a.n {
		return rangeErr("putinterval", a.store.id, "window [%d,%d+%d) outside [0,%d)", index, index, src.n, a.n)
	}
	if a.store.global {
		for i := 0; i < src.n; i++ {
			if err := checkContainment("putinterval", &a.store.meta, src.store.slots[src.off+i]); err != nil {
				return err
			}
		}
	}
	a.store.mutating(a.store)
	// copy handles the overlapping case where src aliases a's store.
	copy(a.store.slots[a.off+index:a.off+index+src.n], src.store.slots[src.off:src.off+src.n])
	return nil
}

// Reverse reverses the slots visible through this view in place.
func (a *Array) Reverse() error {
	if !a.access.CanWrite() {
		return accessErr("reverse", a.store.id, "array is %s", a.access)
	}
	a.store.mutating(a.store)
	slices.Reverse(a.store.slots[a.off : a.off+a.n])
	return nil
}
