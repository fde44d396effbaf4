package pfcpnode

import "fmt"

// TEIDRangeAllocator hands out TEIDs for a node that partitions its TEID
// space into 2^rangeBits ranges (TS 29.244 §8.2.3's TEIDRI field), so that
// multiple UP function instances sharing one F-TEID address space can each
// own a disjoint TEID subrange. rangeBits == 0 means the node does not
// partition TEID space at all; every TEID is eligible and range is ignored.
//
// Allocation is sequential-with-wraparound over the assigned range, the
// same shape as a CIDR-bounded IP pool: a cursor advances across the
// range, skipping already-allocated values, and reports exhaustion once it
// has gone all the way around without finding a free slot.
type TEIDRangeAllocator struct {
	rangeBits uint8
	rangeVal  uint8
	next      uint32
	allocated map[uint32]bool
}

// NewTEIDRangeAllocator builds an allocator restricted to the subrange
// identified by rangeVal out of 2^rangeBits total ranges. rangeBits must be
// 0-7 per the TEIDRI field width.
func NewTEIDRangeAllocator(rangeBits, rangeVal uint8) (*TEIDRangeAllocator, error) {
	if rangeBits > 7 {
		return nil, fmt.Errorf("pfcpnode: TEID range bits %d exceeds the 3-bit TEIDRI field", rangeBits)
	}
	if rangeBits > 0 && rangeVal >= 1<<rangeBits {
		return nil, fmt.Errorf("pfcpnode: TEID range value %d out of bounds for %d range bits", rangeVal, rangeBits)
	}
	return &TEIDRangeAllocator{
		rangeBits: rangeBits,
		rangeVal:  rangeVal,
		next:      firstInRange(rangeBits, rangeVal),
		allocated: make(map[uint32]bool),
	}, nil
}

// inRange reports whether teid's top rangeBits bits match this allocator's
// assigned range value.
func (a *TEIDRangeAllocator) inRange(teid uint32) bool {
	if a.rangeBits == 0 {
		return true
	}
	return uint8(teid>>(32-a.rangeBits)) == a.rangeVal
}

func firstInRange(rangeBits, rangeVal uint8) uint32 {
	if rangeBits == 0 {
		return 1
	}
	return uint32(rangeVal) << (32 - rangeBits)
}

// capacityInRange returns how many distinct TEID values this allocator's
// range covers.
func (a *TEIDRangeAllocator) capacityInRange() uint64 {
	if a.rangeBits == 0 {
		return 1 << 32
	}
	return uint64(1) << (32 - a.rangeBits)
}

// Allocate returns the next free TEID in this allocator's range.
func (a *TEIDRangeAllocator) Allocate() (uint32, error) {
	start := a.next
	capacity := a.capacityInRange()
	checked := uint64(0)

	for {
		teid := a.next
		if !a.inRange(teid) {
			teid = firstInRange(a.rangeBits, a.rangeVal)
			a.next = teid
		}
		if teid != 0 && !a.allocated[teid] {
			a.allocated[teid] = true
			a.advance()
			return teid, nil
		}
		a.advance()
		checked++
		if checked >= capacity || (checked > 0 && a.next == start) {
			return 0, fmt.Errorf("pfcpnode: TEID range %d/%d exhausted (%d allocated)", a.rangeVal, a.rangeBits, len(a.allocated))
		}
	}
}

func (a *TEIDRangeAllocator) advance() {
	a.next++
	if !a.inRange(a.next) {
		a.next = firstInRange(a.rangeBits, a.rangeVal)
	}
}

// Release frees a TEID for reuse.
func (a *TEIDRangeAllocator) Release(teid uint32) {
	delete(a.allocated, teid)
}

// AllocatedCount reports how many TEIDs are currently in use.
func (a *TEIDRangeAllocator) AllocatedCount() int {
	return len(a.allocated)
}
