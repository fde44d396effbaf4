package pfcptransport

import (
	"sync"
	"time"

	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
)

// dupKey identifies a response this node has already sent, keyed the way an
// incoming duplicate request would be: by the peer that would retransmit
// it, the sequence number it used, and the SEID the exchange concerns (0
// for node-level messages).
type dupKey struct {
	remote *pfcpnode.RemoteNode
	seqNbr uint32
	seid   uint64
}

type dupEntry struct {
	bytes     []byte
	expiresAt time.Time
}

// ResponseCache remembers every response this node has sent, so a
// retransmitted request (the peer's T1 fired before our response arrived)
// gets the identical cached bytes replayed instead of being re-processed by
// the application — TS 29.244 requires idempotent delivery and re-running
// handlers on a duplicate would double-count usage reports, double-allocate
// SEIDs, and so on.
type ResponseCache struct {
	mu      sync.Mutex
	entries map[dupKey]dupEntry
	ttl     time.Duration
}

// NewResponseCache builds a cache that evicts entries after t1*n1 plus a
// safety margin — past that point the peer has given up retransmitting,
// so a duplicate can no longer arrive.
func NewResponseCache(t1 time.Duration, n1 int) *ResponseCache {
	ttl := time.Duration(n1+1) * t1 * 2
	return &ResponseCache{entries: make(map[dupKey]dupEntry), ttl: ttl}
}

// Put records a response this node just sent.
func (c *ResponseCache) Put(remote *pfcpnode.RemoteNode, seqNbr uint32, seid uint64, bytes []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dupKey{remote, seqNbr, seid}] = dupEntry{bytes: bytes, expiresAt: time.Now().Add(c.ttl)}
}

// Lookup returns the cached response bytes for a request key, or nil if
// none is cached (not a duplicate, or the cache entry has already expired).
func (c *ResponseCache) Lookup(remote *pfcpnode.RemoteNode, seqNbr uint32, seid uint64) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[dupKey{remote, seqNbr, seid}]
	if !ok || time.Now().After(e.expiresAt) {
		return nil
	}
	return e.bytes
}

// Evict removes every entry past its TTL. Called periodically alongside
// the outstanding-request sweep.
func (c *ResponseCache) Evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Count returns the number of entries currently cached.
func (c *ResponseCache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
