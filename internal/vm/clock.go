package vm

import (
	"sync/atomic"

	"github.com/quillps/quill/internal/object"
)

// IdentityClock issues the strictly increasing values that identify
// composite objects and order checkpoints.
//
// Identities are never reused and never derived from storage addresses,
// since restore recycles addresses freely. Sharing one clock between
// object identities and checkpoint sequence numbers puts both on a single
// total order, which the copy-on-write barrier exploits: arming checks are
// plain integer comparisons.
//
// Thread-safety: safe for concurrent use (atomic operations).
type IdentityClock struct {
	seq atomic.Int64
}

// NewIdentityClock creates a clock starting at 0.
func NewIdentityClock() *IdentityClock {
	return &IdentityClock{}
}

// Next returns the next identity and advances the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *IdentityClock) Next() object.Identity {
	return object.Identity(c.seq.Add(1))
}

// NextSeq returns the next checkpoint sequence number. Same counter as
// Next, typed for checkpoint use.
func (c *IdentityClock) NextSeq() int64 {
	return c.seq.Add(1)
}

// Current returns the latest issued value without advancing.
func (c *IdentityClock) Current() int64 {
	return c.seq.Load()
}
