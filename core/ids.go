package core

import (
	"sync"
	"time"
)

// IDGenerator hands out strictly increasing IDs derived from the wall clock.
//
// Each call to Reserve takes the current time in nanoseconds as the base,
// bumped past the last issued ID when the clock has not advanced, and hands
// out base, base+1, ... for the items of a batch. IDs are therefore unique
// within a batch and across batches reserved at different instants.
type IDGenerator struct {
	mu   sync.Mutex
	last uint64
	now  func() time.Time
}

// NewIDGenerator creates a generator backed by time.Now.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Reserve returns n consecutive IDs.
func (g *IDGenerator) Reserve(n int) []ID {
	if n <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	base := uint64(g.now().UnixNano())
	if base <= g.last {
		base = g.last + 1
	}
	ids := make([]ID, n)
	for i := range ids {
		ids[i] = ID(base + uint64(i))
	}
	g.last = base + uint64(n) - 1
	return ids
}

// Observe raises the generator floor so that future IDs sort after id.
// Used at startup with the largest stored ID in case the clock moved backwards.
func (g *IDGenerator) Observe(id ID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if uint64(id) > g.last {
		g.last = uint64(id)
	}
}
