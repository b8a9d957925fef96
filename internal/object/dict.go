package object

import (
	"maps"
	"math"
	"slices"
)

// Dict is an associative table from values to values. Insertion order is
// not observable. All references to a dict share one backing store, so
// aliases see each other's writes immediately.
type Dict struct {
	store  *dictStore
	access Access
}

func (*Dict) value() {}

type dictStore struct {
	meta
	entries map[dictKey]dictEntry
}

// dictKey is the comparable lookup form of a key value. Composites key by
// identity; string keys are interned by contents, so a string and a name
// with the same bytes address the same entry, and later mutation of the
// caller's string cannot move or rename a stored entry.
type dictKey struct {
	kind keyKind
	num  int64
	real float64
	str  string
}

type keyKind uint8

const (
	keyNull keyKind = iota
	keyInteger
	keyReal
	keyBoolean
	keyName
	keyComposite
)

type dictEntry struct {
	key Value
	val Value
}

type frozenDict struct {
	entries map[dictKey]dictEntry
}

func (frozenDict) frozen() {}

func (s *dictStore) Freeze() Frozen {
	return frozenDict{entries: maps.Clone(s.entries)}
}

func (s *dictStore) Thaw(f Frozen) {
	s.entries = f.(frozenDict).entries
}

// NewDict creates an empty dictionary backed by a fresh store. Callers
// allocate through the vm package, which issues the identity and registers
// the store.
func NewDict(id Identity, global bool, bar Barrier) *Dict {
	st := &dictStore{entries: make(map[dictKey]dictEntry)}
	st.meta = meta{id: id, global: global, bar: bar}
	return &Dict{store: st, access: AccessUnlimited}
}

// Backing returns the dict's backing store for reference-table
// registration.
func (d *Dict) Backing() Store { return d.store }

// ID returns the identity of the backing store. Aliases share it.
func (d *Dict) ID() Identity { return d.store.id }

// Global reports whether the dict lives in global VM.
func (d *Dict) Global() bool { return d.store.global }

// Access returns the access level of this reference.
func (d *Dict) Access() Access { return d.access }

// WithAccess returns an alias of d with the given access level.
func (d *Dict) WithAccess(acc Access) *Dict {
	dup := *d
	dup.access = acc
	return &dup
}

// Alias returns a second reference to the same backing store. Writes
// through either reference are visible through both.
func (d *Dict) Alias() *Dict {
	dup := *d
	return &dup
}

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.store.entries) }

// keyFor converts a key value to its comparable lookup form. Reading a
// string key's bytes requires read access on that string. The returned
// stored form owns its bytes: for string keys it is a Name with a copy of
// the contents, matching interpreter key-interning behavior.
func keyFor(op string, id Identity, key Value) (dictKey, Value, *Error) {
	switch k := key.(type) {
	case Null:
		return dictKey{kind: keyNull}, k, nil
	case Integer:
		return dictKey{kind: keyInteger, num: int64(k)}, k, nil
	case Real:
		// NaN never compares equal to itself, so a raw NaN in the float
		// field would strand one unreachable map entry per Put. All NaN
		// keys collapse onto a single slot instead, flagged via num.
		if math.IsNaN(float64(k)) {
			return dictKey{kind: keyReal, num: 1}, k, nil
		}
		return dictKey{kind: keyReal, real: float64(k)}, k, nil
	case Boolean:
		n := int64(0)
		if k {
			n = 1
		}
		return dictKey{kind: keyBoolean, num: n}, k, nil
	case Name:
		return dictKey{kind: keyName, str: string(k)}, k, nil
	case *String:
		if !k.access.CanRead() {
			return dictKey{}, nil, accessErr(op, id, "string key is %s", k.access)
		}
		owned := string(k.bytes())
		return dictKey{kind: keyName, str: owned}, Name(owned), nil
	default:
		s, _ := compositeStore(key)
		return dictKey{kind: keyComposite, num: int64(s.ID())}, key, nil
	}
}

// Get looks up key. The second result is false when the key is absent;
// absence is not an error.
func (d *Dict) Get(key Value) (Value, bool, error) {
	if !d.access.CanRead() {
		return nil, false, accessErr("get", d.store.id, "dict is %s", d.access)
	}
	dk, _, err := keyFor("get", d.store.id, key)
	if err != nil {
		return nil, false, err
	}
	e, ok := d.store.entries[dk]
	if !ok {
		return nil, false, nil
	}
	return e.val, true, nil
}

// Put inserts or replaces the entry for key. String keys are copied into
// an owned form before insertion, so mutating the caller's string later
// does not disturb the stored entry.
func (d *Dict) Put(key, val Value) error {
	if !d.access.CanWrite() {
		return accessErr("put", d.store.id, "dict is %s", d.access)
	}
	dk, stored, kerr := keyFor("put", d.store.id, key)
	if kerr != nil {
		return kerr
	}
	if err := checkContainment("put", &d.store.meta, stored); err != nil {
		return err
	}
	if err := checkContainment("put", &d.store.meta, val); err != nil {
		return err
	}
	d.store.mutating(d.store)
	d.store.entries[dk] = dictEntry{key: stored, val: val}
	return nil
}

// Undef removes the entry for key. Removing an absent key is a no-op, but
// still counts as a mutation for checkpointing once it touches the store.
func (d *Dict) Undef(key Value) error {
	if !d.access.CanWrite() {
		return accessErr("undef", d.store.id, "dict is %s", d.access)
	}
	dk, _, kerr := keyFor("undef", d.store.id, key)
	if kerr != nil {
		return kerr
	}
	if _, ok := d.store.entries[dk]; !ok {
		return nil
	}
	d.store.mutating(d.store)
	delete(d.store.entries, dk)
	return nil
}

// Entry is one key/value pair reported by Entries.
type Entry struct {
	Key Value
	Val Value
}

// Entries returns the pairs in a deterministic order (by key kind, then
// key contents). Intended for tooling and tests; lookup cost is O(n log n).
func (d *Dict) Entries() ([]Entry, error) {
	if !d.access.CanRead() {
		return nil, accessErr("get", d.store.id, "dict is %s", d.access)
	}
	keys := make([]dictKey, 0, len(d.store.entries))
	for k := range d.store.entries {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareDictKeys)
	out := make([]Entry, len(keys))
	for i, k := range keys {
		e := d.store.entries[k]
		out[i] = Entry{Key: e.key, Val: e.val}
	}
	return out, nil
}

func compareDictKeys(a, b dictKey) int {
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	switch {
	case a.num != b.num:
		if a.num < b.num {
			return -1
		}
		return 1
	case a.real != b.real:
		if a.real < b.real {
			return -1
		}
		return 1
	case a.str != b.str:
		if a.str < b.str {
			return -1
		}
		return 1
	}
	return 0
}
