// Package pfcpengine wires together the node/session state, transport, and
// dispatcher packages into the single entry point an embedding application
// uses: config in, WorkGroup callbacks out.
package pfcpengine

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hieulven/pfcp-engine/internal/ie"
	"github.com/hieulven/pfcp-engine/internal/pfcpconfig"
	"github.com/hieulven/pfcp-engine/internal/pfcpdispatch"
	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
	"github.com/hieulven/pfcp-engine/internal/pfcpstats"
	"github.com/hieulven/pfcp-engine/internal/pfcptransport"
	"github.com/hieulven/pfcp-engine/internal/pfcptranslate"
)

// Engine binds one LocalNode to one UDP socket, running its transport loops,
// dispatcher, and statistics reporter until Run's context is canceled.
type Engine struct {
	log *logrus.Entry

	Config *pfcpconfig.Config
	Local  *pfcpnode.LocalNode
	Stats  *pfcpstats.Collector

	wg         pfcpdispatch.WorkGroup
	sock       *pfcptransport.Socket
	transport  *pfcptransport.Transport
	dispatcher *pfcpdispatch.Dispatcher
	reporter   *pfcpstats.Reporter

	mu             sync.Mutex
	runCtx         context.Context
	runGroup       *errgroup.Group
	heartbeatLoops []pendingHeartbeat // created before Run, started by it
	heartbeatStops map[string]context.CancelFunc
}

// pendingHeartbeat pairs a heartbeat loop with its remote until Run starts
// it and the remote's key becomes the stop handle.
type pendingHeartbeat struct {
	remote *pfcpnode.RemoteNode
	loop   *pfcpnode.HeartbeatLoop
}

// New builds an Engine bound to cfg.Node's address, delivering events to wg.
// This is the application SPI entry point: createLocalNode, wired to a
// socket, transport, and dispatcher in one call.
func New(cfg *pfcpconfig.Config, wg pfcpdispatch.WorkGroup, log *logrus.Entry) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	addr := net.ParseIP(cfg.Node.BindAddress)
	if addr == nil {
		addr = net.IPv4zero
	}

	activityWindowLen := time.Duration(cfg.Timing.LenActivityWindowMs) * time.Millisecond
	local, err := pfcpnode.NewLocalNode(addr, uint16(cfg.Node.PFCPPort), cfg.TEID.AssignTeidRange, cfg.TEID.NbrTeidRangeBits, cfg.Timing.NbrActivityWindows, activityWindowLen, log)
	if err != nil {
		return nil, fmt.Errorf("pfcpengine: create local node: %w", err)
	}

	sock, err := pfcptransport.NewSocket(addr, cfg.Node.PFCPPort, cfg.Node.SocketBufferSize)
	if err != nil {
		return nil, fmt.Errorf("pfcpengine: bind socket: %w", err)
	}

	dispatcher := pfcpdispatch.NewDispatcher(cfg.Node.MinWorkers, cfg.Node.MaxWorkers, cfg.Node.DispatchQueueLen, wg, log)
	statsCollector := pfcpstats.NewCollector()

	t1 := time.Duration(cfg.Timing.T1Ms) * time.Millisecond
	transport := pfcptransport.NewTransport(sock, local, t1, cfg.Timing.N1, dispatcher, statsCollector, log)
	transport.SetRestartHandler(func(r *pfcpnode.RemoteNode) {
		removed := local.Sessions.InvalidateRemote(r)
		for _, sess := range removed {
			local.SEIDs.Release(sess.LocalSeid)
		}
		dispatcher.DeliverRemoteEvent(r, wg.OnRemoteNodeRestart)
	})

	var reporter *pfcpstats.Reporter
	if cfg.Stats.Enabled {
		reporter = pfcpstats.NewReporter(statsCollector, time.Duration(cfg.Stats.ReportIntervalSec)*time.Second, "", log)
	}

	return &Engine{
		log:            log,
		Config:         cfg,
		Local:          local,
		Stats:          statsCollector,
		wg:             wg,
		sock:           sock,
		transport:      transport,
		dispatcher:     dispatcher,
		reporter:       reporter,
		heartbeatStops: make(map[string]context.CancelFunc),
	}, nil
}

// Transport exposes the underlying transport, e.g. so the application can
// call SendRequest/SendResponse/SendHeartbeat for outbound traffic.
func (e *Engine) Transport() *pfcptransport.Transport { return e.transport }

// CreateRemoteNode creates (or returns the existing) remote peer and starts
// a heartbeat loop against it so the peer's liveness is supervised from
// the moment it is known.
func (e *Engine) CreateRemoteNode(addr net.IP, port uint16) *pfcpnode.RemoteNode {
	remote := e.Local.CreateRemoteNode(addr, port)
	e.dispatcher.DeliverRemoteEvent(remote, e.wg.OnRemoteNodeAdded)

	heartbeatPeriod := time.Duration(e.Config.Timing.HeartbeatT1Ms) * time.Millisecond
	loop := pfcpnode.NewHeartbeatLoop(remote, e.transport, heartbeatPeriod, e.Local.ActivityWindowLen(), e.Config.Timing.HeartbeatN1, func(r *pfcpnode.RemoteNode) {
		removed := e.Local.Sessions.InvalidateRemote(r)
		for _, sess := range removed {
			e.Local.SEIDs.Release(sess.LocalSeid)
		}
		e.dispatcher.DeliverRemoteEvent(r, e.wg.OnRemoteNodeFailure)
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.runCtx != nil {
		e.startHeartbeatLocked(remote, loop)
	} else {
		e.heartbeatLoops = append(e.heartbeatLoops, pendingHeartbeat{remote: remote, loop: loop})
	}
	return remote
}

// startHeartbeatLocked launches a heartbeat loop under its own cancelable
// sub-context so ReleaseAssociation can stop one peer's supervision without
// touching the rest. Caller holds e.mu.
func (e *Engine) startHeartbeatLocked(remote *pfcpnode.RemoteNode, loop *pfcpnode.HeartbeatLoop) {
	ctx, cancel := context.WithCancel(e.runCtx)
	e.heartbeatStops[remote.Key()] = cancel
	e.runGroup.Go(func() error {
		loop.Run(ctx)
		return nil
	})
}

// ReleaseAssociation tears down the association with remote: its heartbeat
// supervision stops, its sessions are invalidated and their SEIDs released,
// the registry entry is dropped, and OnRemoteNodeRemoved is delivered.
func (e *Engine) ReleaseAssociation(remote *pfcpnode.RemoteNode) {
	e.mu.Lock()
	if cancel, ok := e.heartbeatStops[remote.Key()]; ok {
		cancel()
		delete(e.heartbeatStops, remote.Key())
	}
	pending := e.heartbeatLoops[:0]
	for _, p := range e.heartbeatLoops {
		if p.remote != remote {
			pending = append(pending, p)
		}
	}
	e.heartbeatLoops = pending
	e.mu.Unlock()

	e.Local.ReleaseAssociation(remote)
	e.dispatcher.DeliverRemoteEvent(remote, e.wg.OnRemoteNodeRemoved)
}

// AllocateLocalFTEID mints a TEID inside remote's assigned TEID range and
// wraps it with this node's address as an F-TEID IE, ready to drop into a
// CreatedPDR or a PDI's local F-TEID slot. The raw TEID is returned
// alongside so the caller can hand it back to remote.ReleaseTEID when the
// rule carrying it is removed.
func (e *Engine) AllocateLocalFTEID(remote *pfcpnode.RemoteNode) (*ie.IE, uint32, error) {
	teid, err := remote.AllocTEID()
	if err != nil {
		return nil, 0, err
	}
	var v4, v6 net.IP
	if ip := e.Local.Addr.To4(); ip != nil {
		v4 = ip
	} else {
		v6 = e.Local.Addr
	}
	return ie.NewFTEID(teid, v4, v6), teid, nil
}

// CreateSession allocates a session toward remote. The session's local SEID
// is fixed immediately; the peer's SEID is learned automatically from the
// F-SEID in its establishment response.
func (e *Engine) CreateSession(remote *pfcpnode.RemoteNode) (*pfcpnode.Session, error) {
	sess, err := e.Local.CreateSession(remote)
	if err != nil {
		return nil, err
	}
	e.Stats.RecordSessionEstablished()
	return sess, nil
}

// DestroySession tears a session down once its deletion exchange has
// completed. Destruction is deferred while any request concerning the
// session is still outstanding.
func (e *Engine) DestroySession(sess *pfcpnode.Session) {
	e.transport.DestroySession(sess)
}

// message is satisfied by every pfcpmsg request/response struct.
type message interface {
	ToIEs() []*ie.IE
}

// SendRequest encodes msg and transmits it to remote with a freshly
// allocated sequence number, arming the T1/N1 retry machinery. For session
// messages pass the session so the request carries the peer's SEID in its
// header and correlates back to the session on response/timeout; node
// messages pass nil. Encode and socket failures are delivered through the
// WorkGroup's error callbacks as well as returned.
func (e *Engine) SendRequest(remote *pfcpnode.RemoteNode, sess *pfcpnode.Session, msgType pfcpmsg.MsgType, msg message) (uint32, error) {
	seq := e.Local.AllocSeqNbr()

	var headerSeid *uint64
	var localSeid uint64
	if sess != nil {
		peer := sess.RemoteSeid
		headerSeid = &peer
		localSeid = sess.LocalSeid
	} else if msgType.IsSessionMessage() {
		// Session Establishment Request carries SEID 0 until the peer has
		// allocated one.
		var zero uint64
		headerSeid = &zero
	}

	b, err := pfcptranslate.EncodeReq(msgType, seq, headerSeid, msg)
	if err != nil {
		e.dispatcher.DeliverEncodeError(true, err)
		return 0, err
	}
	if err := e.transport.SendRequest(remote, seq, localSeid, b); err != nil {
		e.dispatcher.DeliverSendError(remote, true, err)
		return 0, err
	}
	return seq, nil
}

// SendResponse encodes msg as the answer to the inbound request in, echoing
// its sequence number and caching the bytes for duplicate suppression under
// the request's own (seqNbr, seid) key. rspSeid, if non-nil, is the SEID
// written into the response header (the requester's session SEID).
func (e *Engine) SendResponse(in *pfcptransport.Inbound, msgType pfcpmsg.MsgType, rspSeid *uint64, msg message) error {
	b, err := pfcptranslate.EncodeRsp(msgType, in.Decoded.Header.SeqNbr, rspSeid, msg)
	if err != nil {
		e.dispatcher.DeliverEncodeError(false, err)
		return err
	}
	if err := e.transport.SendResponse(in.Remote, in.Decoded.Header.SeqNbr, in.Decoded.Header.SEID, b); err != nil {
		e.dispatcher.DeliverSendError(in.Remote, false, err)
		return err
	}
	return nil
}

// Run starts the transport's receive/retry loops, the dispatcher's worker
// pool, every registered heartbeat loop, and (if enabled) the periodic
// statistics reporter, all coordinated by a single errgroup so that any one
// failure tears the rest down.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return e.transport.RunLoops(ctx) })
	g.Go(func() error { return e.dispatcher.Run(ctx) })

	e.mu.Lock()
	e.runCtx = ctx
	e.runGroup = g
	for _, p := range e.heartbeatLoops {
		e.startHeartbeatLocked(p.remote, p.loop)
	}
	e.heartbeatLoops = nil
	e.mu.Unlock()

	if e.reporter != nil {
		e.reporter.StartPeriodicReport(ctx)
	}

	return g.Wait()
}

// Close releases the bound socket. Call after Run returns.
func (e *Engine) Close() error {
	return e.sock.Close()
}
