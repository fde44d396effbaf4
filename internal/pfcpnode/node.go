package pfcpnode

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LocalNode is a bound PFCP endpoint: its own address, recovery time stamp,
// SEID/sequence-number allocators, optional TEID-range partitioning, and
// the registry of remote peers it has an association or session with.
type LocalNode struct {
	log *logrus.Entry

	Addr      net.IP
	Port      uint16
	StartTime time.Time

	seqMu  sync.Mutex
	nextSq uint32 // 24-bit sequence space, wraps at 0xFFFFFF

	SEIDs    *SEIDAllocator
	Sessions *SessionRegistry

	teidRangeBits uint8
	assignTEID    bool
	teidRangeMu   sync.Mutex
	usedRanges    map[uint8]bool

	// nbrActivityWindows and activityWindowLen configure every RemoteNode's
	// ActivityWindow and heartbeat rotation cadence, threaded down from
	// pfcpconfig.TimingConfig rather than hardcoded at construction.
	nbrActivityWindows int
	activityWindowLen  time.Duration

	mu      sync.RWMutex
	remotes map[string]*RemoteNode
}

// defaultNbrActivityWindows and defaultActivityWindowLen are used when the
// caller passes a non-positive value, so the zero-value construction in
// existing tests keeps today's behavior.
const (
	defaultNbrActivityWindows = 4
	defaultActivityWindowLen  = 2500 * time.Millisecond
)

// NewLocalNode creates a local node bound to addr:port. StartTime is fixed
// at creation and becomes the node's RecoveryTimeStamp for the lifetime of
// the process. nbrActivityWindows and activityWindowLen configure
// every discovered RemoteNode's ActivityWindow and the rotation interval its
// HeartbeatLoop uses (pfcpconfig.TimingConfig's NbrActivityWindows and
// LenActivityWindowMs), falling back to a 4x2.5s window if not positive.
func NewLocalNode(addr net.IP, port uint16, assignTEIDRange bool, teidRangeBits uint8, nbrActivityWindows int, activityWindowLen time.Duration, log *logrus.Entry) (*LocalNode, error) {
	if teidRangeBits > 7 {
		return nil, fmt.Errorf("pfcpnode: nbrTeidRangeBits %d out of range [0,7]", teidRangeBits)
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if nbrActivityWindows <= 0 {
		nbrActivityWindows = defaultNbrActivityWindows
	}
	if activityWindowLen <= 0 {
		activityWindowLen = defaultActivityWindowLen
	}
	return &LocalNode{
		log:                 log.WithField("local_addr", fmt.Sprintf("%s:%d", addr, port)),
		Addr:                addr,
		Port:                port,
		StartTime:           time.Now(),
		SEIDs:               NewSEIDAllocator(1),
		Sessions:            NewSessionRegistry(),
		teidRangeBits:       teidRangeBits,
		assignTEID:          assignTEIDRange,
		usedRanges:          make(map[uint8]bool),
		nbrActivityWindows:  nbrActivityWindows,
		activityWindowLen:   activityWindowLen,
		remotes:             make(map[string]*RemoteNode),
	}, nil
}

// ActivityWindowLen returns the configured per-window duration, e.g. for a
// heartbeat loop to use as its activity-window rotation interval.
func (n *LocalNode) ActivityWindowLen() time.Duration {
	return n.activityWindowLen
}

// AllocSeqNbr returns the next 24-bit sequence number, wrapping back to 0.
func (n *LocalNode) AllocSeqNbr() uint32 {
	n.seqMu.Lock()
	defer n.seqMu.Unlock()
	seq := n.nextSq
	n.nextSq = (n.nextSq + 1) & 0xFFFFFF
	return seq
}

// AllocTEIDRange assigns this remote a unique TEID range value out of
// 2^teidRangeBits slots using a first-fit scan of the free list.
// Exhaustion is a fatal allocation error.
func (n *LocalNode) AllocTEIDRange() (uint8, error) {
	n.teidRangeMu.Lock()
	defer n.teidRangeMu.Unlock()

	if !n.assignTEID || n.teidRangeBits == 0 {
		return 0, nil
	}
	total := uint8(1) << n.teidRangeBits
	for v := uint8(0); v < total; v++ {
		if !n.usedRanges[v] {
			n.usedRanges[v] = true
			return v, nil
		}
	}
	return 0, fmt.Errorf("pfcpnode: TEID range space exhausted (%d/%d assigned)", len(n.usedRanges), total)
}

// ReleaseTEIDRange frees a previously assigned TEID range value.
func (n *LocalNode) ReleaseTEIDRange(v uint8) {
	n.teidRangeMu.Lock()
	defer n.teidRangeMu.Unlock()
	delete(n.usedRanges, v)
}

// key canonicalizes a remote's address+port into a registry lookup key.
func key(addr net.IP, port uint16) string {
	return fmt.Sprintf("%s:%d", addr, port)
}

// CreateRemoteNode returns the RemoteNode for addr:port, creating it if this
// is the first outbound request to, or inbound request from, that peer.
// Idempotent.
func (n *LocalNode) CreateRemoteNode(addr net.IP, port uint16) *RemoteNode {
	k := key(addr, port)

	n.mu.RLock()
	if r, ok := n.remotes[k]; ok {
		n.mu.RUnlock()
		return r
	}
	n.mu.RUnlock()

	n.mu.Lock()
	defer n.mu.Unlock()
	if r, ok := n.remotes[k]; ok {
		return r
	}
	r := newRemoteNode(n, addr, port, n.log)
	n.remotes[k] = r
	n.log.WithField("remote_addr", k).Info("remote node added")
	return r
}

// RemoteNode looks up an already-created remote by address, returning nil
// if none exists.
func (n *LocalNode) RemoteNode(addr net.IP, port uint16) *RemoteNode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.remotes[key(addr, port)]
}

// RemoveRemoteNode deletes a remote from the registry, e.g. after
// onRemoteNodeFailure releases all its resources.
func (n *LocalNode) RemoveRemoteNode(addr net.IP, port uint16) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.remotes, key(addr, port))
}

// Remotes returns a snapshot slice of every currently registered remote.
func (n *LocalNode) Remotes() []*RemoteNode {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*RemoteNode, 0, len(n.remotes))
	for _, r := range n.remotes {
		out = append(out, r)
	}
	return out
}

// CreateSession allocates a fresh local SEID for remote and registers a new
// Session under it. The remote SEID is filled in later, once the peer's
// F-SEID is learned, via SessionRegistry.SetRemoteSeid.
func (n *LocalNode) CreateSession(remote *RemoteNode) (*Session, error) {
	seid, err := n.SEIDs.Allocate()
	if err != nil {
		return nil, fmt.Errorf("pfcpnode: create session: %w", err)
	}
	sess := &Session{Remote: remote, LocalSeid: seid}
	n.Sessions.Add(sess)
	return sess, nil
}

// ReleaseAssociation tears down an association with remote: every session
// it owns is invalidated and released, and the registry entry itself is
// removed, so a subsequent datagram from the same address creates a fresh
// RemoteNode (and therefore a fresh ObservationID).
func (n *LocalNode) ReleaseAssociation(remote *RemoteNode) []*Session {
	removed := n.Sessions.InvalidateRemote(remote)
	for _, sess := range removed {
		n.SEIDs.Release(sess.LocalSeid)
	}
	n.RemoveRemoteNode(remote.Addr, remote.Port)
	return removed
}

// RemoteNodeState is the liveness state machine for a peer.
type RemoteNodeState int

const (
	RemoteNodeUp RemoteNodeState = iota
	RemoteNodeDown
)

// RemoteNode is a discovered PFCP peer: its declared recovery time stamp
// (for restart detection), assigned TEID range, activity window, and the
// per-peer request/response bookkeeping the transport layer owns.
type RemoteNode struct {
	log *logrus.Entry

	local *LocalNode
	Addr  net.IP
	Port  uint16

	// ObservationID correlates this peer's log lines and stats snapshots
	// across a restart, when its RecoveryTimeStamp (and therefore its
	// session set) is invalidated but the registry entry itself survives.
	ObservationID uuid.UUID

	mu                sync.Mutex
	recoveryTimeStamp uint32
	haveRecovery      bool
	state             RemoteNodeState
	teidRange         uint8
	teids             *TEIDRangeAllocator

	Activity *ActivityWindow

	heartbeatMisses int
}

func newRemoteNode(local *LocalNode, addr net.IP, port uint16, log *logrus.Entry) *RemoteNode {
	return &RemoteNode{
		log:           log.WithField("remote_addr", key(addr, port)),
		local:         local,
		Addr:          addr,
		Port:          port,
		ObservationID: uuid.New(),
		state:         RemoteNodeUp,
		Activity:      NewActivityWindow(local.nbrActivityWindows),
	}
}

// ObserveRecoveryTimeStamp records a peer-declared RecoveryTimeStamp. It
// returns true if this observation is a restart (strictly greater than the
// previously recorded value); the caller is responsible for invalidating
// the peer's sessions before delivering OnRemoteNodeRestart.
func (r *RemoteNode) ObserveRecoveryTimeStamp(ts uint32) (restarted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.haveRecovery {
		r.recoveryTimeStamp = ts
		r.haveRecovery = true
		return false
	}
	if ts > r.recoveryTimeStamp {
		r.recoveryTimeStamp = ts
		r.ObservationID = uuid.New()
		return true
	}
	return false
}

// RecoveryTimeStamp returns the last-observed recovery time stamp and
// whether one has been observed yet.
func (r *RemoteNode) RecoveryTimeStamp() (uint32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recoveryTimeStamp, r.haveRecovery
}

// SetTEIDRange records the TEID range value assigned to this remote and
// equips it with an allocator so F-TEIDs minted for sessions toward this
// peer stay inside the assigned range.
func (r *RemoteNode) SetTEIDRange(v uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teidRange = v
	if a, err := NewTEIDRangeAllocator(r.local.teidRangeBits, v); err == nil {
		r.teids = a
	}
}

// TEIDRange returns this remote's assigned TEID range value.
func (r *RemoteNode) TEIDRange() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teidRange
}

// AllocTEID mints a TEID for a session toward this remote, inside the
// range SetTEIDRange assigned it. A remote that never went through range
// assignment (the local node does not partition TEID space) draws from the
// whole TEID space. The allocator itself is not goroutine safe; r.mu
// serializes every access to it.
func (r *RemoteNode) AllocTEID() (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.teids == nil {
		a, err := NewTEIDRangeAllocator(r.local.teidRangeBits, r.teidRange)
		if err != nil {
			return 0, err
		}
		r.teids = a
	}
	return r.teids.Allocate()
}

// ReleaseTEID frees a TEID minted by AllocTEID, e.g. when the PDR that
// carried it is removed or its session is destroyed.
func (r *RemoteNode) ReleaseTEID(teid uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.teids != nil {
		r.teids.Release(teid)
	}
}

// State returns the remote's current liveness state.
func (r *RemoteNode) State() RemoteNodeState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// MarkDown transitions the remote to Down, called once heartbeatN1
// retries are exhausted without a reply.
func (r *RemoteNode) MarkDown() {
	r.mu.Lock()
	r.state = RemoteNodeDown
	r.mu.Unlock()
	r.log.Warn("remote node marked down: heartbeat exhausted")
}

// MarkUp transitions the remote back to Up, e.g. after a fresh association
// or a successful heartbeat exchange.
func (r *RemoteNode) MarkUp() {
	r.mu.Lock()
	wasDown := r.state == RemoteNodeDown
	r.state = RemoteNodeUp
	r.heartbeatMisses = 0
	r.mu.Unlock()
	if wasDown {
		r.log.Info("remote node recovered")
	}
}

// RecordHeartbeatMiss increments the consecutive-miss counter and reports
// whether this miss exhausts n1, the caller's configured retry limit: true
// only for the (n1+1)-th consecutive miss, false for any later miss until
// the counter is reset.
func (r *RemoteNode) RecordHeartbeatMiss(n1 int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heartbeatMisses++
	return r.heartbeatMisses == n1+1
}

// ResetHeartbeatMisses clears the consecutive-miss counter, e.g. on any
// successful inbound or outbound exchange.
func (r *RemoteNode) ResetHeartbeatMisses() {
	r.mu.Lock()
	r.heartbeatMisses = 0
	r.mu.Unlock()
}

// Key returns this remote's registry lookup key (addr:port).
func (r *RemoteNode) Key() string { return key(r.Addr, r.Port) }
