package vm

import (
	"github.com/google/uuid"

	"github.com/quillps/quill/internal/object"
)

// AllocMode selects which VM subsequent allocations target.
type AllocMode string

const (
	// ModeLocal allocates into the context's local VM (the default).
	ModeLocal AllocMode = "local"

	// ModeGlobal allocates into the shared global VM. Requires explicit
	// opt-in, since global objects may never hold local composites.
	ModeGlobal AllocMode = "global"
)

// Context is one execution context: its local VM, its checkpoint stack,
// and its current allocation mode. Contexts are created by Memory and are
// exclusive to one interpreter thread of control.
//
// The context token is a UUIDv7, time-sortable for debugging and trace
// correlation. Object identities never derive from it.
type Context struct {
	token string
	mem   *Memory
	local *VM
	stack []*Checkpoint
	mode  AllocMode
	done  bool
}

func newContext(m *Memory) *Context {
	return &Context{
		token: uuid.Must(uuid.NewV7()).String(),
		mem:   m,
		local: newVM(false),
		mode:  ModeLocal,
	}
}

// Token returns the context's UUIDv7 token.
func (c *Context) Token() string { return c.token }

// LocalVM returns the context's local VM.
func (c *Context) LocalVM() *VM { return c.local }

// AllocationMode returns the VM subsequent allocations target.
func (c *Context) AllocationMode() AllocMode { return c.mode }

// SetAllocationMode selects the VM subsequent allocations target.
func (c *Context) SetAllocationMode(mode AllocMode) {
	c.mode = mode
}

// Depth returns the number of open checkpoints.
func (c *Context) Depth() int { return len(c.stack) }

// target resolves the current allocation VM.
func (c *Context) target() *VM {
	if c.mode == ModeGlobal {
		return c.mem.global
	}
	return c.local
}

// register issues an identity, stamps the store as never needing a
// snapshot for any checkpoint older than itself, and records it in the
// owning VM's reference table.
func (c *Context) register(alloc func(id object.Identity, global bool) object.Store) object.Store {
	c.mem.mu.Lock()
	defer c.mem.mu.Unlock()
	v := c.target()
	id := c.mem.clock.Next()
	s := alloc(id, v.global)
	s.SetLastSnap(int64(id))
	v.refs.Register(s)
	return s
}

// NewArray allocates an array of n null slots in the current VM.
func (c *Context) NewArray(n int) *object.Array {
	var a *object.Array
	c.register(func(id object.Identity, global bool) object.Store {
		a = object.NewArray(id, global, c.mem, n)
		return a.Backing()
	})
	return a
}

// NewDict allocates an empty dictionary in the current VM.
func (c *Context) NewDict() *object.Dict {
	var d *object.Dict
	c.register(func(id object.Identity, global bool) object.Store {
		d = object.NewDict(id, global, c.mem)
		return d.Backing()
	})
	return d
}

// NewString allocates a string of n zero bytes in the current VM. The
// bytes live in the VM's arena; the returned value is a view over them.
func (c *Context) NewString(n int) *object.String {
	var s *object.String
	c.register(func(id object.Identity, global bool) object.Store {
		s = object.NewString(id, global, c.mem, c.target().bytes, n)
		return s.Backing()
	})
	return s
}

// NewStringBytes allocates a string seeded with a copy of b. Seeding
// happens before any checkpoint can see the object, so the string's
// pre-save state is its seeded contents.
func (c *Context) NewStringBytes(b []byte) *object.String {
	s := c.NewString(len(b))
	_ = s.PutBytes(0, b)
	return s
}

// NewCapsule allocates a capsule holding a copy of state in the current
// VM.
func (c *Context) NewCapsule(state object.GraphicsState) *object.Capsule {
	var cs *object.Capsule
	c.register(func(id object.Identity, global bool) object.Store {
		cs = object.NewCapsule(id, global, c.mem, state)
		return cs.Backing()
	})
	return cs
}

// Save pushes a checkpoint and returns it as the restore token. No live
// object is enumerated or copied: constant time regardless of heap size.
func (c *Context) Save() *Checkpoint {
	c.mem.mu.Lock()
	defer c.mem.mu.Unlock()
	cp := &Checkpoint{
		seq:   c.mem.clock.NextSeq(),
		ctx:   c,
		table: make(map[object.Identity]snapshotEntry),
	}
	c.stack = append(c.stack, cp)
	return cp
}

// Restore undoes every mutation made since cp was created. cp must be the
// top of this context's checkpoint stack; an out-of-order or cross-context
// token fails with INVALIDRESTORE and changes nothing, since absorbing it
// silently would corrupt VM consistency.
func (c *Context) Restore(cp *Checkpoint) error {
	c.mem.mu.Lock()
	defer c.mem.mu.Unlock()
	if cp == nil || len(c.stack) == 0 || c.stack[len(c.stack)-1] != cp {
		return invalidRestoreErr(c, cp)
	}
	c.stack = c.stack[:len(c.stack)-1]
	reinstate(cp)
	return nil
}

// Close tears down the context, discarding its local VM, reference table,
// and any unmatched checkpoints without restoring them.
func (c *Context) Close() {
	c.mem.mu.Lock()
	defer c.mem.mu.Unlock()
	c.done = true
	c.stack = nil
	c.local = nil
	if c.mem.active == c {
		c.mem.active = nil
	}
}
