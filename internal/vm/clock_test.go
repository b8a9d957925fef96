package vm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillps/quill/internal/object"
)

func TestIdentityClock_StartsAtZero(t *testing.T) {
	c := NewIdentityClock()
	assert.Equal(t, int64(0), c.Current(), "new clock should start at 0")
}

func TestIdentityClock_Next_Incrementing(t *testing.T) {
	c := NewIdentityClock()

	assert.Equal(t, object.Identity(1), c.Next())
	assert.Equal(t, object.Identity(2), c.Next())
	assert.Equal(t, int64(3), c.NextSeq())
	assert.Equal(t, int64(3), c.Current())
}

func TestIdentityClock_Next_Unique(t *testing.T) {
	c := NewIdentityClock()
	const iterations = 1000

	seen := make(map[object.Identity]bool)
	for i := 0; i < iterations; i++ {
		id := c.Next()
		assert.False(t, seen[id], "identity %d issued twice", id)
		seen[id] = true
	}

	assert.Len(t, seen, iterations, "all identities should be unique")
}

func TestIdentityClock_ThreadSafe(t *testing.T) {
	c := NewIdentityClock()
	const goroutines = 100
	const callsPerGoroutine = 100

	var wg sync.WaitGroup
	ids := make(chan object.Identity, goroutines*callsPerGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				ids <- c.Next()
			}
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[object.Identity]bool)
	for id := range ids {
		assert.False(t, seen[id], "identity %d issued twice", id)
		seen[id] = true
	}

	assert.Len(t, seen, goroutines*callsPerGoroutine)
}
