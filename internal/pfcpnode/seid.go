// Package pfcpnode holds node- and session-level state: the local node's
// identity and allocators, the registry of remote peers with their
// liveness/restart tracking, and the Session type with its dual lookup
// indices.
package pfcpnode

import (
	"fmt"
	"sync"
)

// SEIDAllocator hands out unique, non-zero local SEIDs for sessions this
// node owns. SEID 0 is reserved by TS 29.244 §8.2.37 and is never issued.
type SEIDAllocator struct {
	mu        sync.Mutex
	next      uint64
	allocated map[uint64]bool
}

// NewSEIDAllocator builds an allocator that starts handing out SEIDs from
// start (bumped to 1 if given as 0).
func NewSEIDAllocator(start uint64) *SEIDAllocator {
	if start == 0 {
		start = 1
	}
	return &SEIDAllocator{next: start, allocated: make(map[uint64]bool)}
}

// Allocate returns the next free SEID, wrapping past the 64-bit space back
// to 1 and skipping any SEID still in use.
func (a *SEIDAllocator) Allocate() (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for attempts := 0; attempts < 1<<20; attempts++ {
		if a.next == 0 {
			a.next = 1
		}
		seid := a.next
		a.next++
		if !a.allocated[seid] {
			a.allocated[seid] = true
			return seid, nil
		}
	}
	return 0, fmt.Errorf("pfcpnode: SEID space exhausted after too many collisions")
}

// Release frees a SEID for reuse once its session has been deleted.
func (a *SEIDAllocator) Release(seid uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.allocated, seid)
}

// AllocatedCount reports how many SEIDs are currently in use.
func (a *SEIDAllocator) AllocatedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.allocated)
}
