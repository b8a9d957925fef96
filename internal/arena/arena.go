// Package arena provides the append-only byte buffers that back string
// storage in the memory model.
//
// Each virtual memory owns one Arena. String objects never own their bytes;
// they are (arena, offset, length) views, so two strings carved from the
// same allocation alias the same underlying range. Offsets handed out by
// Alloc remain valid for the lifetime of the arena: the buffer only ever
// grows, it is never compacted or freed piecemeal.
package arena

// Arena is a growable append-only byte buffer.
//
// Thread-safety: none. The owning VM serializes access (local arenas are
// context-exclusive; the global arena is guarded by the memory model's
// coarse lock).
type Arena struct {
	buf []byte
}

// New creates an arena with the given initial capacity.
func New(capacity int) *Arena {
	return &Arena{buf: make([]byte, 0, capacity)}
}

// Alloc reserves n zeroed bytes and returns their offset.
// Offsets are stable across later allocations.
func (a *Arena) Alloc(n int) int {
	off := len(a.buf)
	if cap(a.buf)-off < n {
		grown := make([]byte, off, grow(cap(a.buf), off+n))
		copy(grown, a.buf)
		a.buf = grown
	}
	a.buf = a.buf[:off+n]
	return off
}

// Bytes returns the live window [off, off+n). The returned slice aliases
// arena storage; writes through it are visible to every view of the range.
func (a *Arena) Bytes(off, n int) []byte {
	return a.buf[off : off+n : off+n]
}

// Len returns the number of bytes allocated so far.
func (a *Arena) Len() int {
	return len(a.buf)
}

// grow doubles capacity until it covers need, starting from a small floor.
func grow(capacity, need int) int {
	if capacity < 64 {
		capacity = 64
	}
	for capacity < need {
		capacity *= 2
	}
	return capacity
}
