package vm

// reinstate puts every object frozen for cp back exactly as it was when
// the snapshot was taken. Objects absent from the table were never mutated
// since the checkpoint and are already correct; objects created after the
// checkpoint are left untouched - restore reverts state, it does not
// delete objects.
//
// Caller holds the memory lock and has already popped cp off its stack.
func reinstate(cp *Checkpoint) {
	for id, e := range cp.table {
		s, ok := e.vm.refs.Lookup(id)
		if !ok {
			// The owning VM dropped the store (context teardown raced a
			// shared global checkpoint). Nothing live to revert.
			continue
		}
		s.Thaw(e.frozen)
		// Re-arm against enclosing checkpoints: the store is again frozen
		// only as far back as it was before this checkpoint touched it.
		s.SetLastSnap(e.prev)
	}
	cp.table = nil
}
