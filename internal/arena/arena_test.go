package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocReturnsStableOffsets(t *testing.T) {
	a := New(8)

	off1 := a.Alloc(5)
	off2 := a.Alloc(3)

	assert.Equal(t, 0, off1)
	assert.Equal(t, 5, off2)
	assert.Equal(t, 8, a.Len())
}

func TestArena_BytesAliasesStorage(t *testing.T) {
	a := New(16)
	off := a.Alloc(4)

	w := a.Bytes(off, 4)
	copy(w, "abcd")

	r := a.Bytes(off, 4)
	assert.Equal(t, []byte("abcd"), r)

	// A second window over the same range sees the same bytes.
	r[0] = 'z'
	assert.Equal(t, byte('z'), a.Bytes(off, 4)[0])
}

func TestArena_GrowPreservesContents(t *testing.T) {
	a := New(4)
	off := a.Alloc(4)
	copy(a.Bytes(off, 4), "wxyz")

	// Force several growth steps.
	for i := 0; i < 10; i++ {
		a.Alloc(100)
	}

	require.Equal(t, []byte("wxyz"), a.Bytes(off, 4), "growth must not move logical contents")
}

func TestArena_AllocZeroed(t *testing.T) {
	a := New(0)
	off := a.Alloc(6)
	assert.Equal(t, make([]byte, 6), a.Bytes(off, 6))
}

func TestArena_WindowIsCapped(t *testing.T) {
	a := New(16)
	off1 := a.Alloc(4)
	a.Alloc(4)

	w := a.Bytes(off1, 4)
	// The window is capacity-capped, so appending through it reallocates
	// instead of bleeding into the neighbouring allocation.
	assert.Equal(t, 4, cap(w))
	grownAside := append(w, 'Q')
	assert.NotEqual(t, byte('Q'), a.Bytes(off1+4, 1)[0])
	assert.Equal(t, byte('Q'), grownAside[4])
}
