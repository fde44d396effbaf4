package pfcptransport

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
)

// outstandingKey identifies a request awaiting a response: the remote it
// was sent to and the local sequence number assigned to it.
type outstandingKey struct {
	remote *pfcpnode.RemoteNode
	seqNbr uint32
}

// OutstandingRequest is one entry in the outstanding-request table: the
// encoded bytes (kept for retransmission), the local SEID it concerns (0
// if the message carries none), and the retry bookkeeping.
type OutstandingRequest struct {
	Remote     *pfcpnode.RemoteNode
	SeqNbr     uint32
	LocalSeid  uint64
	Bytes      []byte
	MsgType    byte
	CreatedAt  time.Time // first transmission, for round-trip measurement
	SentAt     time.Time // latest transmission, reset on every retry
	RetryCount int

	// resolved is closed by Resolve, letting a caller that needs to block
	// for the matching response (e.g. the heartbeat sender) wait on it
	// instead of polling the table.
	resolved chan struct{}
}

// OutstandingTable tracks every in-flight request across all remotes for a
// single LocalNode, retransmitting on a T1 ticker sweep (one shared ticker
// rather than a per-request timer — cheaper than N goroutines for N
// in-flight requests) and dropping to onReqTimeout after N1 retries.
type OutstandingTable struct {
	log *logrus.Entry

	mu      sync.Mutex
	entries map[outstandingKey]*OutstandingRequest

	t1          time.Duration
	n1          int
	resend      func(*OutstandingRequest) error
	onReqTimeout func(*OutstandingRequest)
}

// NewOutstandingTable builds a table with retry interval t1 and retry limit
// n1. resend is called to retransmit the stored bytes; onReqTimeout is
// invoked once the n1-th retry also times out.
func NewOutstandingTable(t1 time.Duration, n1 int, resend func(*OutstandingRequest) error, onReqTimeout func(*OutstandingRequest), log *logrus.Entry) *OutstandingTable {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &OutstandingTable{
		log:          log,
		entries:      make(map[outstandingKey]*OutstandingRequest),
		t1:           t1,
		n1:           n1,
		resend:       resend,
		onReqTimeout: onReqTimeout,
	}
}

// Track registers a newly sent request and returns it so the caller can
// wait on its resolved channel if it needs to block for the response.
func (t *OutstandingTable) Track(remote *pfcpnode.RemoteNode, seqNbr uint32, localSeid uint64, bytes []byte) *OutstandingRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	req := &OutstandingRequest{
		Remote:    remote,
		SeqNbr:    seqNbr,
		LocalSeid: localSeid,
		Bytes:     bytes,
		CreatedAt: now,
		SentAt:    now,
		resolved:  make(chan struct{}),
	}
	if len(bytes) > 1 {
		req.MsgType = bytes[1]
	}
	t.entries[outstandingKey{remote, seqNbr}] = req
	return req
}

// Resolve matches an incoming response to its request by (remote, seqNbr),
// removing it from the table and returning it. A nil return means the
// response had no matching outstanding request (duplicate, or arrived
// after the entry was already dropped) and should be counted and ignored.
func (t *OutstandingTable) Resolve(remote *pfcpnode.RemoteNode, seqNbr uint32) *OutstandingRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := outstandingKey{remote, seqNbr}
	req, ok := t.entries[k]
	if !ok {
		return nil
	}
	delete(t.entries, k)
	close(req.resolved)
	return req
}

// Sweep is called on every T1 tick: it retransmits every entry whose T1
// deadline has passed, or — past N1 retries — removes it and invokes
// onReqTimeout. One sweep per tick keeps the retry schedule a simple
// multiple of T1 rather than a per-request timer.
func (t *OutstandingTable) Sweep() {
	t.mu.Lock()
	var toRetry, toDrop []*OutstandingRequest
	now := time.Now()
	for k, req := range t.entries {
		if now.Sub(req.SentAt) < t.t1 {
			continue
		}
		if req.RetryCount >= t.n1 {
			toDrop = append(toDrop, req)
			delete(t.entries, k)
			continue
		}
		req.RetryCount++
		req.SentAt = now
		toRetry = append(toRetry, req)
	}
	t.mu.Unlock()

	for _, req := range toRetry {
		if err := t.resend(req); err != nil {
			t.log.WithError(err).WithField("seq_nbr", req.SeqNbr).Warn("retransmit failed")
		}
	}
	for _, req := range toDrop {
		if t.onReqTimeout != nil {
			t.onReqTimeout(req)
		}
	}
}

// Run ticks Sweep every t1 until stop is closed.
func (t *OutstandingTable) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(t.t1)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

// Count returns the number of requests currently in flight.
func (t *OutstandingTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// CountForSeid returns the number of in-flight requests concerning the
// given local SEID. A session teardown is deferred until this reaches zero.
func (t *OutstandingTable) CountForSeid(localSeid uint64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, req := range t.entries {
		if req.LocalSeid == localSeid {
			n++
		}
	}
	return n
}

// CancelAll drops every outstanding request, firing a synthetic onReqTimeout
// for each, so an orderly shutdown drains the table rather than silently
// discarding entries the application is still waiting on.
func (t *OutstandingTable) CancelAll() {
	t.mu.Lock()
	dropped := make([]*OutstandingRequest, 0, len(t.entries))
	for k, req := range t.entries {
		dropped = append(dropped, req)
		delete(t.entries, k)
	}
	t.mu.Unlock()

	for _, req := range dropped {
		if t.onReqTimeout != nil {
			t.onReqTimeout(req)
		}
	}
}

// CancelForRemote drops every outstanding request addressed to remote,
// invoking onReqTimeout for each — used when a peer restart invalidates
// its sessions and any request still in flight to it can never complete
// meaningfully.
func (t *OutstandingTable) CancelForRemote(remote *pfcpnode.RemoteNode) {
	t.mu.Lock()
	var dropped []*OutstandingRequest
	for k, req := range t.entries {
		if k.remote == remote {
			dropped = append(dropped, req)
			delete(t.entries, k)
		}
	}
	t.mu.Unlock()

	for _, req := range dropped {
		if t.onReqTimeout != nil {
			t.onReqTimeout(req)
		}
	}
}
