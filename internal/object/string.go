package object

import "github.com/quillps/quill/internal/arena"

// String is a mutable byte sequence. Strings never own their bytes: the
// backing store addresses a fixed range of the owning VM's arena, and a
// String value is a window (off, n) into that range. Sub-views created by
// GetInterval alias the same arena bytes as their parent.
type String struct {
	store  *stringStore
	off, n int
	access Access
}

func (*String) value() {}

type stringStore struct {
	meta
	arena *arena.Arena
	off   int
	n     int
}

type frozenString struct {
	bytes []byte
}

func (frozenString) frozen() {}

func (s *stringStore) Freeze() Frozen {
	cp := make([]byte, s.n)
	copy(cp, s.arena.Bytes(s.off, s.n))
	return frozenString{bytes: cp}
}

func (s *stringStore) Thaw(f Frozen) {
	copy(s.arena.Bytes(s.off, s.n), f.(frozenString).bytes)
}

// bytes returns the live arena window for this view.
func (s *String) bytes() []byte {
	return s.store.arena.Bytes(s.store.off+s.off, s.n)
}

// NewString creates a string over a freshly allocated arena range of n
// zero bytes. Callers allocate through the vm package, which issues the
// identity, picks the arena, and registers the store.
func NewString(id Identity, global bool, bar Barrier, ar *arena.Arena, n int) *String {
	off := ar.Alloc(n)
	st := &stringStore{arena: ar, off: off, n: n}
	st.meta = meta{id: id, global: global, bar: bar}
	return &String{store: st, off: 0, n: n, access: AccessUnlimited}
}

// Backing returns the string's backing store for reference-table
// registration.
func (s *String) Backing() Store { return s.store }

// ID returns the identity of the backing store. Sub-views share it.
func (s *String) ID() Identity { return s.store.id }

// Global reports whether the string lives in global VM.
func (s *String) Global() bool { return s.store.global }

// Access returns the access level of this reference.
func (s *String) Access() Access { return s.access }

// WithAccess returns an alias of s with the given access level.
func (s *String) WithAccess(acc Access) *String {
	dup := *s
	dup.access = acc
	return &dup
}

// Len returns the number of bytes visible through this view.
func (s *String) Len() int { return s.n }

// Get returns the byte at index i.
func (s *String) Get(i int) (byte, error) {
	if !s.access.CanRead() {
		return 0, accessErr("get", s.store.id, "string is %s", s.access)
	}
	if i < 0 || i >= s.n {
		return 0, rangeErr("get", s.store.id, "index %d outside [0,%d)", i, s.n)
	}
	return s.bytes()[i], nil
}

// Put stores b at index i.
func (s *String) Put(i int, b byte) error {
	if !s.access.CanWrite() {
		return accessErr("put", s.store.id, "string is %s", s.access)
	}
	if i < 0 || i >= s.n {
		return rangeErr("put", s.store.id, "index %d outside [0,%d)", i, s.n)
	}
	s.store.mutating(s.store)
	s.bytes()[i] = b
	return nil
}

// GetInterval returns an aliasing sub-view of count bytes starting at
// index. Writes through either view are visible through the other.
func (s *String) GetInterval(index, count int) (*String, error) {
	if !s.access.CanRead() {
		return nil, accessErr("getinterval", s.store.id, "string is %s", s.access)
	}
	if index < 0 || count < 0 || index+count > s.n {
		return nil, rangeErr("getinterval", s.store.id, "window [%d,%d+%d) outside [0,%d)", index, index, count, s.n)
	}
	return &String{store: s.store, off: s.off + index, n: count, access: s.access}, nil
}

// PutInterval copies all of src into s starting at index. Checks run
// before the first byte is written.
func (s *String) PutInterval(index int, src *String) error {
	if !s.access.CanWrite() {
		return accessErr("putinterval", s.store.id, "string is %s", s.access)
	}
	if !src.access.CanRead() {
		return accessErr("putinterval", s.store.id, "source string is %s", src.access)
	}
	if index < 0 || index+src.n > s.n {
		return rangeErr("putinterval", s.store.id, "window [%d,%d+%d) outside [0,%d)", index, index, src.n, s.n)
	}
	s.store.mutating(s.store)
	copy(s.bytes()[index:index+src.n], src.bytes())
	return nil
}

// PutBytes copies raw bytes into s starting at index. Used by the
// allocation layer to seed literal contents.
func (s *String) PutBytes(index int, b []byte) error {
	if !s.access.CanWrite() {
		return accessErr("putinterval", s.store.id, "string is %s", s.access)
	}
	if index < 0 || index+len(b) > s.n {
		return rangeErr("putinterval", s.store.id, "window [%d,%d+%d) outside [0,%d)", index, index, len(b), s.n)
	}
	s.store.mutating(s.store)
	copy(s.bytes()[index:], b)
	return nil
}

// Text returns a copy of the visible bytes as a Go string.
func (s *String) Text() (string, error) {
	if !s.access.CanRead() {
		return "", accessErr("get", s.store.id, "string is %s", s.access)
	}
	return string(s.bytes()), nil
}
