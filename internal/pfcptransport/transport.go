package pfcptransport

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hieulven/pfcp-engine/internal/ie"
	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
	"github.com/hieulven/pfcp-engine/internal/pfcpstats"
	"github.com/hieulven/pfcp-engine/internal/pfcptranslate"
)

// Inbound is a decoded datagram handed up to whatever owns message
// dispatch, tagged with the remote it arrived from. For responses, Req is
// the matched outstanding request (never nil: unmatched responses are
// dropped before dispatch). For session messages, Session is the resolved
// local session, or nil if none matched the header's SEID.
type Inbound struct {
	Remote  *pfcpnode.RemoteNode
	Decoded *pfcptranslate.DecodedMessage
	Req     *OutstandingRequest
	Session *pfcpnode.Session
	RawLen  int
}

// Deliverer is the narrow capability the dispatcher provides: accept one
// decoded inbound message, or a synthesized request-timeout event. Transport
// depends on this interface rather than importing the dispatcher package,
// keeping the dependency direction one-way.
type Deliverer interface {
	Deliver(Inbound)
	DeliverTimeout(*OutstandingRequest)
}

// Transport binds a Socket to a LocalNode and runs the send/receive loops,
// the outstanding-request retry sweep, and the response dedup cache. It
// uses golang.org/x/sync/errgroup so that a failure in any one of its
// goroutines (listener, retry sweeper) tears the others down cleanly.
type Transport struct {
	log   *logrus.Entry
	sock  *Socket
	local *pfcpnode.LocalNode
	T1    time.Duration
	N1    int

	outstanding *OutstandingTable
	dupCache    *ResponseCache
	deliverer   Deliverer
	stats       *pfcpstats.Collector
	onRestart   func(*pfcpnode.RemoteNode)

	destroyMu      sync.Mutex
	pendingDestroy map[uint64]*pfcpnode.Session
}

// NewTransport builds a transport bound to sock for local, with T1/N1
// controlling both retransmission and dedup-cache TTL. A nil stats
// collector gets a private one so counting never needs a nil check.
func NewTransport(sock *Socket, local *pfcpnode.LocalNode, t1 time.Duration, n1 int, deliverer Deliverer, stats *pfcpstats.Collector, log *logrus.Entry) *Transport {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if stats == nil {
		stats = pfcpstats.NewCollector()
	}
	tr := &Transport{
		log:            log,
		sock:           sock,
		local:          local,
		T1:             t1,
		N1:             n1,
		dupCache:       NewResponseCache(t1, n1),
		deliverer:      deliverer,
		stats:          stats,
		pendingDestroy: make(map[uint64]*pfcpnode.Session),
	}
	tr.outstanding = NewOutstandingTable(t1, n1, tr.resend, tr.onReqTimeout, log)
	return tr
}

// SetRestartHandler registers the callback invoked when ProcessDatagram
// observes a peer's RecoveryTimeStamp strictly increase — normally wired by
// pfcpengine.Engine to invalidate sessions and deliver OnRemoteNodeRestart
// the same way heartbeat failure does.
func (tr *Transport) SetRestartHandler(onRestart func(*pfcpnode.RemoteNode)) {
	tr.onRestart = onRestart
}

// Stats exposes the collector so callers share one registry.
func (tr *Transport) Stats() *pfcpstats.Collector { return tr.stats }

// Outstanding exposes the outstanding-request table, e.g. for a shutdown
// drain or a session-teardown check.
func (tr *Transport) Outstanding() *OutstandingTable { return tr.outstanding }

func (tr *Transport) resend(req *OutstandingRequest) error {
	tr.stats.RecordRetransmit(pfcpmsg.MsgType(req.MsgType))
	return tr.sock.SendTo(req.Bytes, req.Remote.Addr, int(req.Remote.Port))
}

func (tr *Transport) onReqTimeout(req *OutstandingRequest) {
	tr.stats.RecordTimeout(pfcpmsg.MsgType(req.MsgType))
	tr.log.WithFields(logrus.Fields{
		"remote_addr": req.Remote.Key(),
		"seq_nbr":     req.SeqNbr,
	}).Warn("request timed out after N1 retries")
	tr.deliverer.DeliverTimeout(req)
	tr.maybeFinishDestroy(req.LocalSeid)
}

// recoveryTimeStampOf extracts the RecoveryTimeStamp IE carried by the
// message types that declare one (Heartbeat and Association Setup) so
// ProcessDatagram can feed it to the sending remote's restart detection.
func recoveryTimeStampOf(body interface{}) (*ie.IE, bool) {
	switch m := body.(type) {
	case *pfcpmsg.HeartbeatRequestMsg:
		return m.RecoveryTimeStamp, m.RecoveryTimeStamp != nil
	case *pfcpmsg.HeartbeatResponseMsg:
		return m.RecoveryTimeStamp, m.RecoveryTimeStamp != nil
	case *pfcpmsg.AssociationSetupRequestMsg:
		return m.RecoveryTimeStamp, m.RecoveryTimeStamp != nil
	case *pfcpmsg.AssociationSetupResponseMsg:
		return m.RecoveryTimeStamp, m.RecoveryTimeStamp != nil
	default:
		return nil, false
	}
}

// SendRequest encodes and sends a request to remote, tracking it in the
// outstanding table for T1/N1 retry. The caller passes the already-encoded
// bytes (from pfcptranslate.EncodeReq) and the sequence number used so the
// transport doesn't need to know the message's concrete type.
func (tr *Transport) SendRequest(remote *pfcpnode.RemoteNode, seqNbr uint32, localSeid uint64, b []byte) error {
	if err := tr.sock.SendTo(b, remote.Addr, int(remote.Port)); err != nil {
		return err
	}
	req := tr.outstanding.Track(remote, seqNbr, localSeid, b)
	tr.stats.RecordSent(pfcpmsg.MsgType(req.MsgType))
	remote.Activity.Hit()
	return nil
}

// SendResponse sends a response and caches it for duplicate-request replay.
func (tr *Transport) SendResponse(remote *pfcpnode.RemoteNode, seqNbr uint32, seid uint64, b []byte) error {
	if err := tr.sock.SendTo(b, remote.Addr, int(remote.Port)); err != nil {
		return err
	}
	if len(b) > 1 {
		tr.stats.RecordSent(pfcpmsg.MsgType(b[1]))
	}
	tr.dupCache.Put(remote, seqNbr, seid, b)
	remote.Activity.Hit()
	return nil
}

// SendHeartbeat implements pfcpnode.HeartbeatSender: send a Heartbeat
// Request and wait (via the outstanding table's normal response-delivery
// path) for a match. For simplicity this blocks on a one-shot channel
// rather than routing through Deliver, since heartbeats need no IE
// processing beyond the recovery time stamp already captured in
// ObserveRecoveryTimeStamp by the caller.
func (tr *Transport) SendHeartbeat(ctx context.Context, remote *pfcpnode.RemoteNode) error {
	seq := tr.local.AllocSeqNbr()
	b, err := pfcptranslate.EncodeHeartbeatReq(seq, tr.local.StartTime)
	if err != nil {
		return err
	}

	req := tr.outstanding.Track(remote, seq, 0, b)
	if err := tr.sock.SendTo(b, remote.Addr, int(remote.Port)); err != nil {
		return err
	}
	tr.stats.RecordSent(pfcpmsg.HeartbeatRequest)

	deadline := time.Duration(tr.N1+1) * tr.T1
	timer := time.NewTimer(deadline)
	defer timer.Stop()
	select {
	case <-req.resolved:
		return nil
	case <-timer.C:
		return context.DeadlineExceeded
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DestroySession removes a session from the registry and releases its local
// SEID. If any request concerning the session is still in flight, the
// destruction is deferred until the last such request resolves or times
// out, so a handler never sees a response for a session that no longer
// exists.
func (tr *Transport) DestroySession(sess *pfcpnode.Session) {
	if tr.outstanding.CountForSeid(sess.LocalSeid) > 0 {
		tr.destroyMu.Lock()
		tr.pendingDestroy[sess.LocalSeid] = sess
		tr.destroyMu.Unlock()
		return
	}
	tr.destroyNow(sess)
}

func (tr *Transport) destroyNow(sess *pfcpnode.Session) {
	tr.local.Sessions.Remove(sess)
	tr.local.SEIDs.Release(sess.LocalSeid)
	tr.stats.RecordSessionDeleted()
}

// maybeFinishDestroy completes a deferred DestroySession once the given
// SEID has no requests left in flight.
func (tr *Transport) maybeFinishDestroy(localSeid uint64) {
	if localSeid == 0 {
		return
	}
	tr.destroyMu.Lock()
	sess, pending := tr.pendingDestroy[localSeid]
	if pending && tr.outstanding.CountForSeid(localSeid) == 0 {
		delete(tr.pendingDestroy, localSeid)
	} else {
		pending = false
	}
	tr.destroyMu.Unlock()
	if pending {
		tr.destroyNow(sess)
	}
}

// ProcessDatagram decodes one received datagram and routes it: an
// unsupported version draws a Version Not Supported response; a duplicate
// request gets its cached response replayed without touching the
// dispatcher; an unmatched response is counted and dropped; everything else
// is decoded, matched against node/session state, and handed to the
// deliverer.
func (tr *Transport) ProcessDatagram(b []byte, from *net.UDPAddr) {
	info, err := pfcptranslate.GetMsgInfo(b)
	if err != nil {
		tr.stats.RecordDecodeError()
		tr.log.WithError(err).Warn("dropping undecodable datagram")
		return
	}

	if !pfcptranslate.IsVersionSupported(info.Version) {
		tr.stats.RecordVersionRejection()
		if rsp, err := pfcptranslate.EncodeVersionNotSupportedRsp(info.SeqNbr); err == nil {
			_ = tr.sock.SendTo(rsp, from.IP, from.Port)
		}
		return
	}

	tr.stats.RecordReceived(info.Type)
	remote := tr.local.CreateRemoteNode(from.IP, uint16(from.Port))
	remote.Activity.Hit()

	var matched *OutstandingRequest
	if info.IsRequest {
		if cached := tr.dupCache.Lookup(remote, info.SeqNbr, info.SEID); cached != nil {
			tr.stats.RecordDuplicateRequest()
			_ = tr.sock.SendTo(cached, from.IP, from.Port)
			return
		}
	} else {
		matched = tr.outstanding.Resolve(remote, info.SeqNbr)
		if matched == nil {
			tr.stats.RecordUnmatchedResponse()
			tr.log.WithFields(logrus.Fields{
				"remote_addr": remote.Key(),
				"seq_nbr":     info.SeqNbr,
				"msg_type":    info.Type,
			}).Debug("dropping response with no outstanding request")
			return
		}
		tr.stats.RecordSuccess(info.Type, time.Since(matched.CreatedAt))
	}

	decoded, err := pfcptranslate.DecodeReq(b)
	if err != nil {
		tr.stats.RecordDecodeError()
		tr.log.WithError(err).WithField("msg_type", info.Type).Warn("failed to decode datagram")
		return
	}

	if rts, ok := recoveryTimeStampOf(decoded.Body); ok {
		if ts, err := rts.RecoveryTimeStampValue(); err == nil {
			if remote.ObserveRecoveryTimeStamp(ts) && tr.onRestart != nil {
				tr.onRestart(remote)
			}
		}
	}

	in := Inbound{Remote: remote, Decoded: decoded, Req: matched, RawLen: len(b)}
	in.Session = tr.resolveSession(info, remote, matched, decoded)

	tr.deliverer.Deliver(in)
	if matched != nil {
		tr.maybeFinishDestroy(matched.LocalSeid)
	}
}

// resolveSession attaches session context to an inbound message: a Session
// Establishment Request allocates a fresh session (keyed to the CP F-SEID
// it carries) before the handler runs, an establishment response teaches
// the requesting session its peer SEID, and any other session message is
// looked up by the SEID in its header.
func (tr *Transport) resolveSession(info pfcptranslate.MsgInfo, remote *pfcpnode.RemoteNode, matched *OutstandingRequest, decoded *pfcptranslate.DecodedMessage) *pfcpnode.Session {
	switch body := decoded.Body.(type) {
	case *pfcpmsg.SessionEstablishmentRequestMsg:
		var peerSeid uint64
		if body.FSEID != nil {
			if f, err := body.FSEID.FSEIDValue(); err == nil {
				peerSeid = f.SEID
			}
		}
		// A retransmission that outlived the response cache must find the
		// session created for the first copy, not allocate a second one.
		if peerSeid != 0 {
			if existing := tr.local.Sessions.ByRemote(remote, peerSeid); existing != nil {
				return existing
			}
		}
		sess, err := tr.local.CreateSession(remote)
		if err != nil {
			tr.log.WithError(err).Warn("session allocation failed for inbound establishment")
			return nil
		}
		if peerSeid != 0 {
			tr.local.Sessions.SetRemoteSeid(sess, peerSeid)
		}
		tr.stats.RecordSessionEstablished()
		return sess

	case *pfcpmsg.SessionEstablishmentResponseMsg:
		if matched == nil {
			return nil
		}
		sess := tr.local.Sessions.ByLocalSeid(matched.LocalSeid)
		if sess != nil && body.FSEID != nil {
			if f, err := body.FSEID.FSEIDValue(); err == nil && f.SEID != 0 {
				tr.local.Sessions.SetRemoteSeid(sess, f.SEID)
			}
		}
		return sess

	default:
		if info.Class != pfcptranslate.ClassSession {
			return nil
		}
		if matched != nil {
			return tr.local.Sessions.ByLocalSeid(matched.LocalSeid)
		}
		// An inbound session request addresses us by our own SEID.
		return tr.local.Sessions.ByLocalSeid(info.SEID)
	}
}

// RunLoops starts the receive loop and the retry/dedup sweep, returning
// once either fails or ctx is canceled.
func (tr *Transport) RunLoops(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		buf := make([]byte, 65535)
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			n, from, err := tr.sock.ReadFrom(buf)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				tr.log.WithError(err).Warn("read error")
				continue
			}
			cp := make([]byte, n)
			copy(cp, buf[:n])
			tr.ProcessDatagram(cp, from)
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(tr.T1)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				tr.outstanding.CancelAll()
				return ctx.Err()
			case <-ticker.C:
				tr.outstanding.Sweep()
				tr.dupCache.Evict()
			}
		}
	})

	return g.Wait()
}
