package booking

import (
	"context"
	"sync"
)

// ResourceGuard serializes writers per resource ID within this process.
// Entries are dropped once no caller holds or waits on them.
type ResourceGuard struct {
	mu    sync.Mutex
	slots map[string]*guardSlot
}

type guardSlot struct {
	sem  chan struct{}
	refs int
}

func NewResourceGuard() *ResourceGuard {
	return &ResourceGuard{slots: make(map[string]*guardSlot)}
}

// Lock blocks until the caller owns resourceID or ctx is done. The returned
// func releases the slot and must be called exactly once.
func (g *ResourceGuard) Lock(ctx context.Context, resourceID string) (func(), error) {
	g.mu.Lock()
	slot, ok := g.slots[resourceID]
	if !ok {
		slot = &guardSlot{sem: make(chan struct{}, 1)}
		g.slots[resourceID] = slot
	}
	slot.refs++
	g.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
		return func() {
			<-slot.sem
			g.release(resourceID, slot)
		}, nil
	case <-ctx.Done():
		g.release(resourceID, slot)
		return nil, ctx.Err()
	}
}

func (g *ResourceGuard) release(resourceID string, slot *guardSlot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(g.slots, resourceID)
	}
}
