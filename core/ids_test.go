package core

import (
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIDGeneratorBatchIsConsecutive(t *testing.T) {
	now := time.Unix(1700000000, 0)
	g := &IDGenerator{now: fixedClock(now)}

	ids := g.Reserve(3)
	if len(ids) != 3 {
		t.Fatalf("Reserve(3) returned %d ids", len(ids))
	}
	base := ID(now.UnixNano())
	for i, id := range ids {
		if id != base+ID(i) {
			t.Errorf("ids[%d] = %d, want %d", i, id, base+ID(i))
		}
	}
}

func TestIDGeneratorStalledClock(t *testing.T) {
	g := &IDGenerator{now: fixedClock(time.Unix(1700000000, 0))}

	first := g.Reserve(2)
	second := g.Reserve(2)
	if second[0] <= first[1] {
		t.Errorf("second batch %v does not follow first batch %v", second, first)
	}
}

func TestIDGeneratorClockMovesBackwards(t *testing.T) {
	current := time.Unix(1700000000, 0)
	g := &IDGenerator{now: func() time.Time { return current }}

	first := g.Reserve(1)
	current = current.Add(-time.Hour)
	second := g.Reserve(1)
	if second[0] <= first[0] {
		t.Errorf("id %d issued after %d", second[0], first[0])
	}
}

func TestIDGeneratorObserve(t *testing.T) {
	g := &IDGenerator{now: fixedClock(time.Unix(10, 0))}
	floor := ID(time.Unix(20, 0).UnixNano())

	g.Observe(floor)
	ids := g.Reserve(1)
	if ids[0] != floor+1 {
		t.Errorf("Reserve after Observe = %d, want %d", ids[0], floor+1)
	}

	g.Observe(1)
	if next := g.Reserve(1); next[0] != floor+2 {
		t.Errorf("Observe lowered the floor: got %d", next[0])
	}
}

func TestIDGeneratorReserveZero(t *testing.T) {
	g := NewIDGenerator()
	if ids := g.Reserve(0); ids != nil {
		t.Errorf("Reserve(0) = %v, want nil", ids)
	}
}

func TestIDGeneratorConcurrentUnique(t *testing.T) {
	g := NewIDGenerator()
	const workers, perWorker = 8, 50

	var mu sync.Mutex
	seen := make(map[ID]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ids := g.Reserve(2)
				mu.Lock()
				for _, id := range ids {
					seen[id] = struct{}{}
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker*2 {
		t.Errorf("got %d unique ids, want %d", len(seen), workers*perWorker*2)
	}
}
