package vm

import (
	"sync"

	"github.com/quillps/quill/internal/object"
)

// Memory is the whole memory model of one interpreter: the shared identity
// clock, the single global VM, and the currently active execution context.
// It is constructed at interpreter start, rebuilt from nothing every run,
// and discarded at job end; nothing here persists.
//
// Memory implements object.Barrier: every composite mutator routes its
// pre-mutation notification here, and the first touch after the active
// context's innermost checkpoint freezes the backing store.
//
// The single coarse lock covers allocation, the barrier, and
// save/restore. Operations are O(1) amortized, never proportional to heap
// size, so one lock held for the duration of each operation is acceptable
// under a multi-threaded host and free under single-threaded
// interpretation.
type Memory struct {
	mu     sync.Mutex
	clock  *IdentityClock
	global *VM
	active *Context
}

// NewMemory creates a memory model with a fresh global VM and no contexts.
func NewMemory() *Memory {
	return &Memory{
		clock:  NewIdentityClock(),
		global: newVM(true),
	}
}

// GlobalVM returns the process-wide global VM.
func (m *Memory) GlobalVM() *VM { return m.global }

// Clock returns the shared identity clock.
func (m *Memory) Clock() *IdentityClock { return m.clock }

// NewContext creates an execution context with its own local VM and empty
// checkpoint stack. The first context created becomes active.
func (m *Memory) NewContext() *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx := newContext(m)
	if m.active == nil {
		m.active = ctx
	}
	return ctx
}

// Activate makes ctx the mutating context. The host scheduler calls this
// at operator boundaries only, never mid-mutation.
func (m *Memory) Activate(ctx *Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = ctx
}

// StoreMutating implements object.Barrier. If s has not been frozen at or
// after the active context's innermost checkpoint, its current backing
// state is frozen into that checkpoint's snapshot table - once per
// checkpoint, not per mutation. Stores created after the checkpoint carry
// a last-frozen value newer than the checkpoint's sequence and are skipped
// without any bookkeeping.
func (m *Memory) StoreMutating(s object.Store) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := m.active
	if ctx == nil || len(ctx.stack) == 0 {
		return
	}
	cp := ctx.stack[len(ctx.stack)-1]
	if s.LastSnap() >= cp.seq {
		return
	}
	cp.table[s.ID()] = snapshotEntry{
		vm:     m.ownerOf(s, ctx),
		prev:   s.LastSnap(),
		frozen: s.Freeze(),
	}
	s.SetLastSnap(cp.seq)
}

// ownerOf resolves the VM a store lives in. Local stores belong to the
// mutating context's local VM: contexts never hold references into each
// other's local memory.
func (m *Memory) ownerOf(s object.Store, ctx *Context) *VM {
	if s.Global() {
		return m.global
	}
	return ctx.local
}
