package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillps/quill/internal/arena"
)

func testString(id Identity, text string) *String {
	s := NewString(id, false, nil, arena.New(16), len(text))
	copy(s.bytes(), text)
	return s
}

func TestDict_PutGet(t *testing.T) {
	d := NewDict(1, false, nil)

	require.NoError(t, d.Put(Name("n"), Integer(1)))
	require.NoError(t, d.Put(Integer(2), Boolean(true)))
	require.NoError(t, d.Put(Real(1.5), Name("r")))
	assert.Equal(t, 3, d.Len())

	v, ok, err := d.Get(Name("n"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Integer(1), v)

	_, ok, err = d.Get(Name("missing"))
	require.NoError(t, err)
	assert.False(t, ok, "absence is not an error")
}

func TestDict_PutReplaces(t *testing.T) {
	d := NewDict(1, false, nil)
	require.NoError(t, d.Put(Name("k"), Integer(1)))
	require.NoError(t, d.Put(Name("k"), Integer(2)))

	assert.Equal(t, 1, d.Len())
	v, _, _ := d.Get(Name("k"))
	assert.Equal(t, Integer(2), v)
}

func TestDict_StringKeyOwnsItsBytes(t *testing.T) {
	d := NewDict(1, false, nil)
	key := testString(2, "abc")

	require.NoError(t, d.Put(key, Integer(1)))

	// Mutating the caller's string must not move or rename the entry.
	require.NoError(t, key.Put(0, 'z'))

	v, ok, err := d.Get(Name("abc"))
	require.NoError(t, err)
	require.True(t, ok, "stored key keeps the original bytes")
	assert.Equal(t, Integer(1), v)

	_, ok, _ = d.Get(key)
	assert.False(t, ok, "the mutated string now names a different key")
}

func TestDict_StringAndNameKeysInterchangeable(t *testing.T) {
	d := NewDict(1, false, nil)

	require.NoError(t, d.Put(Name("abc"), Integer(7)))
	v, ok, err := d.Get(testString(2, "abc"))
	require.NoError(t, err)
	require.True(t, ok, "string keys intern to names")
	assert.Equal(t, Integer(7), v)
}

func TestDict_UnreadableStringKeyRejected(t *testing.T) {
	d := NewDict(1, false, nil)
	key := testString(2, "abc").WithAccess(AccessNone)

	err := d.Put(key, Integer(1))
	require.Error(t, err)
	assert.True(t, IsInvalidAccess(err))
	assert.Equal(t, 0, d.Len())

	_, _, err = d.Get(key)
	assert.True(t, IsInvalidAccess(err))
}

func TestDict_CompositeKeysUseIdentity(t *testing.T) {
	d := NewDict(1, false, nil)
	k1 := NewArray(10, false, nil, 1)
	k2 := NewArray(11, false, nil, 1)

	require.NoError(t, d.Put(k1, Integer(1)))
	require.NoError(t, d.Put(k2, Integer(2)))
	assert.Equal(t, 2, d.Len(), "distinct identities are distinct keys")

	// A sub-view shares its parent's identity, hence its key slot.
	sub, err := k1.GetInterval(0, 1)
	require.NoError(t, err)
	v, ok, _ := d.Get(sub)
	require.True(t, ok)
	assert.Equal(t, Integer(1), v)
}

func TestDict_NaNRealKeysShareOneEntry(t *testing.T) {
	d := NewDict(1, false, nil)
	nan := Real(math.NaN())

	require.NoError(t, d.Put(nan, Integer(1)))
	require.NoError(t, d.Put(Real(math.NaN()), Integer(2)))
	assert.Equal(t, 1, d.Len(), "every NaN key addresses the same entry")

	v, ok, err := d.Get(nan)
	require.NoError(t, err)
	require.True(t, ok, "a NaN key must stay reachable")
	assert.Equal(t, Integer(2), v)

	// NaN does not collide with ordinary reals, zero included.
	require.NoError(t, d.Put(Real(0), Integer(3)))
	assert.Equal(t, 2, d.Len())

	require.NoError(t, d.Undef(nan))
	assert.Equal(t, 1, d.Len())
}

func TestDict_Undef(t *testing.T) {
	d := NewDict(1, false, nil)
	require.NoError(t, d.Put(Name("k"), Integer(1)))

	require.NoError(t, d.Undef(Name("k")))
	_, ok, _ := d.Get(Name("k"))
	assert.False(t, ok)

	// Removing an absent key is a quiet no-op.
	require.NoError(t, d.Undef(Name("k")))
}

func TestDict_UndefAbsentSkipsBarrier(t *testing.T) {
	bar := &recordingBarrier{}
	d := NewDict(1, false, bar)

	require.NoError(t, d.Undef(Name("nothing")))
	assert.Empty(t, bar.touched)

	require.NoError(t, d.Put(Name("k"), Integer(1)))
	require.NoError(t, d.Undef(Name("k")))
	assert.Len(t, bar.touched, 2)
}

func TestDict_AccessLevels(t *testing.T) {
	d := NewDict(1, false, nil)
	require.NoError(t, d.Put(Name("k"), Integer(1)))

	ro := d.WithAccess(AccessReadOnly)
	_, ok, err := ro.Get(Name("k"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, IsInvalidAccess(ro.Put(Name("k"), Integer(2))))
	assert.True(t, IsInvalidAccess(ro.Undef(Name("k"))))

	none := d.WithAccess(AccessNone)
	_, _, err = none.Get(Name("k"))
	assert.True(t, IsInvalidAccess(err))
}

func TestDict_EntriesDeterministic(t *testing.T) {
	d := NewDict(1, false, nil)
	require.NoError(t, d.Put(Name("b"), Integer(2)))
	require.NoError(t, d.Put(Name("a"), Integer(1)))
	require.NoError(t, d.Put(Integer(3), Integer(3)))

	entries, err := d.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, Integer(3), entries[0].Key)
	assert.Equal(t, Name("a"), entries[1].Key)
	assert.Equal(t, Name("b"), entries[2].Key)
}

func TestDict_AliasSharesStore(t *testing.T) {
	d := NewDict(1, false, nil)
	e := d.Alias()

	require.NoError(t, d.Put(Name("k"), Integer(1)))
	v, ok, _ := e.Get(Name("k"))
	require.True(t, ok)
	assert.Equal(t, Integer(1), v)
}
