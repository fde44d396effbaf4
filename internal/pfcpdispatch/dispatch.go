// Package pfcpdispatch routes decoded PFCP events to an application-
// supplied WorkGroup on a worker pool sized between a configured minimum
// and maximum, serializing delivery per session/remote key so handlers
// never need their own locking.
package pfcpdispatch

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
	"github.com/hieulven/pfcp-engine/internal/pfcptransport"
)

// WorkGroup is the application SPI: every way the engine can hand an event
// back to the application, from decoded requests and responses down to
// per-message failures and peer lifecycle changes.
type WorkGroup interface {
	OnRcvdReq(req *pfcptransport.Inbound)
	OnRcvdRsp(rsp *pfcptransport.Inbound)
	OnReqTimeout(req *pfcptransport.OutstandingRequest)

	OnSndReqError(remote *pfcpnode.RemoteNode, err error)
	OnSndRspError(remote *pfcpnode.RemoteNode, err error)
	OnEncodeReqError(err error)
	OnEncodeRspError(err error)

	OnRemoteNodeAdded(remote *pfcpnode.RemoteNode)
	OnRemoteNodeFailure(remote *pfcpnode.RemoteNode)
	OnRemoteNodeRestart(remote *pfcpnode.RemoteNode)
	OnRemoteNodeRemoved(remote *pfcpnode.RemoteNode)

	// OnSessionReport delivers an UP-function-initiated Session Report
	// Request (downlink data notification, usage report, or error
	// indication), kept distinct from OnRcvdReq because report handling is
	// usually a different code path than rule provisioning.
	OnSessionReport(req *pfcptransport.Inbound)

	// OnSessionSetDelete delivers a Session Set Deletion Request
	// (TS 29.244 §7.4.5.3). Which sessions sharing the FQ-CSID get torn
	// down is the application's decision, not the engine's.
	OnSessionSetDelete(req *pfcptransport.Inbound)
}

// task is one unit of work queued to a worker.
type task func()

// Dispatcher drains per-key bounded queues on a pool of workers sized
// [minWorkers, maxWorkers]. Keys hash across maxWorkers queues and each
// queue is drained by exactly one goroutine, so two events for the same
// key (same localSeid, or the same remote address for node-level events)
// always land on the same worker and are delivered in submission order;
// across keys, no ordering is guaranteed. minWorkers drainers start with
// Run; the rest are spawned on demand the first time a key hashes to
// their queue, so an idle node carries only the configured minimum.
type Dispatcher struct {
	log        *logrus.Entry
	wg         WorkGroup
	minWorkers int
	queues     []chan task

	mu      sync.Mutex
	ctx     context.Context
	group   *errgroup.Group
	started []bool
}

// NewDispatcher builds a dispatcher whose pool grows from minWorkers up to
// maxWorkers drainers, each owning a bounded queue of depth queueDepth.
func NewDispatcher(minWorkers, maxWorkers, queueDepth int, wg WorkGroup, log *logrus.Entry) *Dispatcher {
	if minWorkers < 1 {
		minWorkers = 1
	}
	if maxWorkers < minWorkers {
		maxWorkers = minWorkers
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	d := &Dispatcher{
		log:        log,
		wg:         wg,
		minWorkers: minWorkers,
		queues:     make([]chan task, maxWorkers),
		started:    make([]bool, maxWorkers),
	}
	for i := range d.queues {
		d.queues[i] = make(chan task, queueDepth)
	}
	return d
}

// Run starts the minimum worker set (plus a drainer for any queue that
// accepted events before Run) and blocks until ctx is canceled; each
// drainer then empties its queue before returning, so no accepted event is
// ever silently discarded on shutdown.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	d.mu.Lock()
	d.ctx = ctx
	d.group = g
	for i := range d.queues {
		if i < d.minWorkers || len(d.queues[i]) > 0 {
			d.startWorkerLocked(i)
		}
	}
	d.mu.Unlock()

	return g.Wait()
}

// startWorkerLocked spawns the drainer owning queue i. Caller holds d.mu.
func (d *Dispatcher) startWorkerLocked(i int) {
	if d.started[i] {
		return
	}
	d.started[i] = true
	q := d.queues[i]
	ctx := d.ctx
	d.group.Go(func() error {
		for {
			select {
			case t, ok := <-q:
				if !ok {
					return nil
				}
				t()
			case <-ctx.Done():
				d.drain(q)
				return nil
			}
		}
	})
}

// ActiveWorkers reports how many drainers have been started so far.
func (d *Dispatcher) ActiveWorkers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, s := range d.started {
		if s {
			n++
		}
	}
	return n
}

func (d *Dispatcher) drain(q chan task) {
	for {
		select {
		case t := <-q:
			t()
		default:
			return
		}
	}
}

func (d *Dispatcher) queueIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.queues)))
}

// submit enqueues t on the worker owning key, blocking if that worker's
// queue is full so a slow handler backpressures the I/O loop instead of
// growing an unbounded backlog. The first submission to a queue above the
// minimum worker set spawns its drainer; before Run, tasks simply buffer
// and Run starts a drainer for every non-empty queue.
func (d *Dispatcher) submit(key string, t task) {
	idx := d.queueIndex(key)

	d.mu.Lock()
	if d.ctx != nil && !d.started[idx] {
		d.startWorkerLocked(idx)
	}
	d.mu.Unlock()

	d.queues[idx] <- t
}

// keyFor returns a session message's routing key (its localSeid) or a
// node-level message's routing key (the remote's address), so every event
// for one session or one peer serializes on a single worker.
func keyFor(in pfcptransport.Inbound) string {
	if in.Decoded.Header.HasSEID {
		return fmtUint64(in.Decoded.Header.SEID)
	}
	return in.Remote.Key()
}

func fmtUint64(v uint64) string {
	const digits = "0123456789"
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v%10]
		v /= 10
	}
	return string(buf[i:])
}

// Deliver implements pfcptransport.Deliverer: it classifies the inbound
// message as request or response/report/set-delete and routes it to the
// matching WorkGroup callback on the worker owning its key.
func (d *Dispatcher) Deliver(in pfcptransport.Inbound) {
	key := keyFor(in)
	msgType := in.Decoded.Header.Type

	switch {
	case msgType == pfcpmsg.SessionReportRequest:
		d.submit(key, func() { d.wg.OnSessionReport(&in) })
	case msgType == pfcpmsg.SessionSetDeletionRequest:
		d.submit(key, func() { d.wg.OnSessionSetDelete(&in) })
	case msgType.IsRequest():
		d.submit(key, func() { d.wg.OnRcvdReq(&in) })
	default:
		d.submit(key, func() { d.wg.OnRcvdRsp(&in) })
	}
}

// DeliverTimeout routes an onReqTimeout callback the same way a live
// message would be, keyed by the timed-out request's local SEID / remote.
func (d *Dispatcher) DeliverTimeout(req *pfcptransport.OutstandingRequest) {
	key := req.Remote.Key()
	if req.LocalSeid != 0 {
		key = fmtUint64(req.LocalSeid)
	}
	d.submit(key, func() { d.wg.OnReqTimeout(req) })
}

// DeliverRemoteEvent routes a remote-node lifecycle callback, always keyed
// by the remote's own address so every event for one peer is serialized.
func (d *Dispatcher) DeliverRemoteEvent(remote *pfcpnode.RemoteNode, event func(*pfcpnode.RemoteNode)) {
	d.submit(remote.Key(), func() { event(remote) })
}

// DeliverSendError routes a per-message socket failure to OnSndReqError or
// OnSndRspError, keyed by the remote the send was addressed to.
func (d *Dispatcher) DeliverSendError(remote *pfcpnode.RemoteNode, isRequest bool, err error) {
	d.submit(remote.Key(), func() {
		if isRequest {
			d.wg.OnSndReqError(remote, err)
		} else {
			d.wg.OnSndRspError(remote, err)
		}
	})
}

// DeliverEncodeError routes a message-encoding failure to OnEncodeReqError
// or OnEncodeRspError. Encoding happens before any remote is committed to,
// so these are keyed on a fixed bucket rather than a peer address.
func (d *Dispatcher) DeliverEncodeError(isRequest bool, err error) {
	d.submit("encode", func() {
		if isRequest {
			d.wg.OnEncodeReqError(err)
		} else {
			d.wg.OnEncodeRspError(err)
		}
	})
}
