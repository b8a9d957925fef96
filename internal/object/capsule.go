package object

import "slices"

// GraphicsState is the captured-state payload of a Capsule. The memory
// model treats it as an opaque blob: it is copied whole on snapshot and
// swapped whole on restore. The fields exist for the rendering pipeline,
// which is outside this core.
type GraphicsState struct {
	CTM        [6]float64
	LineWidth  float64
	LineCap    int
	LineJoin   int
	MiterLimit float64
	Dash       []float64
	DashOffset float64
	Color      [4]float64
	Flatness   float64
}

// clone deep-copies the state so caller and capsule never share the dash
// slice.
func (g GraphicsState) clone() GraphicsState {
	g.Dash = slices.Clone(g.Dash)
	return g
}

// Capsule holds one captured graphics state as a composite object, so
// gsave-style state capture participates in save/restore like any other
// composite.
type Capsule struct {
	store  *capsuleStore
	access Access
}

func (*Capsule) value() {}

type capsuleStore struct {
	meta
	state GraphicsState
}

type frozenCapsule struct {
	state GraphicsState
}

func (frozenCapsule) frozen() {}

func (s *capsuleStore) Freeze() Frozen {
	return frozenCapsule{state: s.state.clone()}
}

func (s *capsuleStore) Thaw(f Frozen) {
	s.state = f.(frozenCapsule).state
}

// NewCapsule creates a capsule holding a copy of state. Callers allocate
// through the vm package, which issues the identity and registers the
// store.
func NewCapsule(id Identity, global bool, bar Barrier, state GraphicsState) *Capsule {
	st := &capsuleStore{state: state.clone()}
	st.meta = meta{id: id, global: global, bar: bar}
	return &Capsule{store: st, access: AccessUnlimited}
}

// Backing returns the capsule's backing store for reference-table
// registration.
func (c *Capsule) Backing() Store { return c.store }

// ID returns the identity of the backing store.
func (c *Capsule) ID() Identity { return c.store.id }

// Global reports whether the capsule lives in global VM.
func (c *Capsule) Global() bool { return c.store.global }

// Access returns the access level of this reference.
func (c *Capsule) Access() Access { return c.access }

// WithAccess returns an alias of c with the given access level.
func (c *Capsule) WithAccess(acc Access) *Capsule {
	dup := *c
	dup.access = acc
	return &dup
}

// State returns a copy of the captured state.
func (c *Capsule) State() (GraphicsState, error) {
	if !c.access.CanRead() {
		return GraphicsState{}, accessErr("get", c.store.id, "capsule is %s", c.access)
	}
	return c.store.state.clone(), nil
}

// SetState replaces the captured state with a copy of state.
func (c *Capsule) SetState(state GraphicsState) error {
	if !c.access.CanWrite() {
		return accessErr("put", c.store.id, "capsule is %s", c.access)
	}
	c.store.mutating(c.store)
	c.store.state = state.clone()
	return nil
}
