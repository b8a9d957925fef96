package object

// Identity is the permanent key of a composite object. Identities are
// issued by a strictly increasing clock at construction and are never
// reused for the lifetime of the process, unlike storage addresses, which
// restore recycles freely. Same identity means same object.
type Identity int64

// Frozen is an immutable pre-mutation copy of a backing store, produced by
// Store.Freeze and consumed exactly once by Store.Thaw during restore.
// The interface is sealed; each store kind has its own frozen form.
type Frozen interface {
	frozen() // Sealed - one implementation per store kind
}

// Store is the snapshot unit of the copy-on-write protocol. Sub-views of an
// array or string share their parent's Store, so freezing a store always
// captures the full backing range, never one view's window.
type Store interface {
	// ID returns the owning identity of the backing store.
	ID() Identity

	// Global reports whether the store lives in global VM.
	Global() bool

	// LastSnap returns the sequence number of the checkpoint this store
	// was most recently frozen for, or 0 if never frozen.
	LastSnap() int64

	// SetLastSnap records the checkpoint sequence this store is now
	// frozen for. The restore engine also uses it to re-arm a store
	// against enclosing checkpoints.
	SetLastSnap(seq int64)

	// Freeze returns a copy of the current backing state. The live store
	// keeps mutating; the frozen copy does not.
	Freeze() Frozen

	// Thaw replaces the live backing state with a previously frozen one,
	// in place, so every alias and sub-view observes the reverted state.
	Thaw(f Frozen)
}

// Barrier is notified before every mutation of a store's backing state.
// The virtual-memory layer implements it to freeze first-touch snapshots;
// a nil barrier (detached objects in tests) disables checkpointing.
type Barrier interface {
	StoreMutating(s Store)
}

// meta is the header shared by all backing stores.
type meta struct {
	id       Identity
	global   bool
	lastSnap int64
	bar      Barrier
}

func (m *meta) ID() Identity        { return m.id }
func (m *meta) Global() bool        { return m.global }
func (m *meta) LastSnap() int64     { return m.lastSnap }
func (m *meta) SetLastSnap(s int64) { m.lastSnap = s }

// mutating runs the barrier hook. Called after all checks pass and before
// the first write of a mutation.
func (m *meta) mutating(s Store) {
	if m.bar != nil {
		m.bar.StoreMutating(s)
	}
}

// checkContainment rejects storing a local composite into a global store.
// Simple values and global composites are always storable. Failing before
// any write keeps the failed operation free of side effects.
func checkContainment(op string, dst *meta, v Value) *Error {
	if !dst.global {
		return nil
	}
	s, ok := compositeStore(v)
	if ok && !s.Global() {
		return accessErr(op, dst.id, "global object cannot hold local composite %d", s.ID())
	}
	return nil
}
