package vm

import (
	"github.com/quillps/quill/internal/arena"
	"github.com/quillps/quill/internal/object"
)

// ReferenceTable maps identity to live backing store for one VM. It is
// written at allocation and read only by the restore engine, which uses it
// to locate the store a frozen state belongs to.
type ReferenceTable struct {
	stores map[object.Identity]object.Store
}

// NewReferenceTable creates an empty table.
func NewReferenceTable() *ReferenceTable {
	return &ReferenceTable{stores: make(map[object.Identity]object.Store)}
}

// Register records a store under its identity at construction time.
func (t *ReferenceTable) Register(s object.Store) {
	t.stores[s.ID()] = s
}

// Lookup returns the live store for id.
func (t *ReferenceTable) Lookup(id object.Identity) (object.Store, bool) {
	s, ok := t.stores[id]
	return s, ok
}

// Len returns the number of registered stores.
func (t *ReferenceTable) Len() int {
	return len(t.stores)
}

// VM is one object heap: either the single process-wide global VM or one
// context-exclusive local VM. Each owns a reference table and the byte
// arena backing its strings.
type VM struct {
	global bool
	refs   *ReferenceTable
	bytes  *arena.Arena
}

const initialArenaSize = 4096

func newVM(global bool) *VM {
	return &VM{
		global: global,
		refs:   NewReferenceTable(),
		bytes:  arena.New(initialArenaSize),
	}
}

// Global reports whether this is the global VM.
func (v *VM) Global() bool { return v.global }

// Refs returns the VM's reference table.
func (v *VM) Refs() *ReferenceTable { return v.refs }
