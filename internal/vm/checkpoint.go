package vm

import "github.com/quillps/quill/internal/object"

// Checkpoint is the record created by Save and consumed by Restore. It is
// also the restore token handed to the caller: Restore accepts only the
// checkpoint currently on top of its context's stack.
//
// At creation a checkpoint holds nothing but its sequence number; the
// snapshot table fills lazily as the barrier freezes first-touched stores.
type Checkpoint struct {
	seq   int64
	ctx   *Context
	table map[object.Identity]snapshotEntry
}

// snapshotEntry is one frozen pre-mutation state. The owning VM is
// recorded so the restore engine can find the live store through the right
// reference table; prev re-arms the store against enclosing checkpoints
// after restore.
type snapshotEntry struct {
	vm     *VM
	prev   int64
	frozen object.Frozen
}

// Seq returns the checkpoint's sequence number.
func (cp *Checkpoint) Seq() int64 { return cp.seq }

// Touched returns the number of objects frozen for this checkpoint so far.
func (cp *Checkpoint) Touched() int { return len(cp.table) }
