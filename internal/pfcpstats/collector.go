// Package pfcpstats collects operational counters for the engine — message
// throughput, session lifecycle, and response-time distribution — without
// touching a mutex on the hot path. It is not a metrics-export integration;
// it only produces its own text/JSON reports, leaving Prometheus or
// OpenTelemetry bridging to the embedding application.
package pfcpstats

import (
	"sync/atomic"
	"time"

	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
)

const numMsgTypes = 64

// responseTimeSamples is the size of the ring buffer used to approximate
// response-time percentiles without a mutex, the same ring-buffer shape
// pfcpnode.ActivityWindow uses for lock-free activity tracking.
const responseTimeSamples = 512

// MessageCounters are the per-message-type counters, all plain atomics so
// RecordSent/RecordReceived/etc. never block each other.
type MessageCounters struct {
	Sent       atomic.Uint64
	Received   atomic.Uint64
	Success    atomic.Uint64
	Failed     atomic.Uint64
	Timeout    atomic.Uint64
	Retransmit atomic.Uint64
}

// Collector aggregates engine-wide operational statistics. Every field is
// an atomic counter (or a slice of them); there is no lock anywhere in the
// hot path, and aggregation is snapshot-consistent per counter only.
type Collector struct {
	startTime time.Time

	perType [numMsgTypes]MessageCounters

	sessionsEstablished atomic.Uint64
	sessionsModified    atomic.Uint64
	sessionsDeleted     atomic.Uint64
	sessionsFailed      atomic.Uint64
	activeSessions      atomic.Int64

	decodeErrors       atomic.Uint64
	unmatchedResponses atomic.Uint64
	duplicateRequests  atomic.Uint64
	versionRejections  atomic.Uint64

	rtSamples [responseTimeSamples]atomic.Int64
	rtCursor  atomic.Uint64
	rtCount   atomic.Uint64
}

// NewCollector builds a collector whose elapsed-time clock starts now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) counters(msgType pfcpmsg.MsgType) *MessageCounters {
	idx := int(msgType)
	if idx < 0 || idx >= numMsgTypes {
		idx = 0
	}
	return &c.perType[idx]
}

// RecordSent records a request or response having been sent.
func (c *Collector) RecordSent(msgType pfcpmsg.MsgType) {
	c.counters(msgType).Sent.Add(1)
}

// RecordReceived records a datagram of msgType having been received.
func (c *Collector) RecordReceived(msgType pfcpmsg.MsgType) {
	c.counters(msgType).Received.Add(1)
}

// RecordSuccess records a transaction completing with an accepted cause,
// sampling its round-trip latency into the response-time ring.
func (c *Collector) RecordSuccess(msgType pfcpmsg.MsgType, rtt time.Duration) {
	c.counters(msgType).Success.Add(1)
	idx := c.rtCursor.Add(1) % responseTimeSamples
	c.rtSamples[idx].Store(int64(rtt))
	c.rtCount.Add(1)
}

// RecordFailure records a transaction completing with a rejecting cause.
func (c *Collector) RecordFailure(msgType pfcpmsg.MsgType) {
	c.counters(msgType).Failed.Add(1)
}

// RecordTimeout records a request that exhausted its N1 retries.
func (c *Collector) RecordTimeout(msgType pfcpmsg.MsgType) {
	c.counters(msgType).Timeout.Add(1)
}

// RecordRetransmit records one T1 retry of a still-outstanding request.
func (c *Collector) RecordRetransmit(msgType pfcpmsg.MsgType) {
	c.counters(msgType).Retransmit.Add(1)
}

// RecordDecodeError records an inbound datagram that failed header or IE
// decoding and was dropped.
func (c *Collector) RecordDecodeError() {
	c.decodeErrors.Add(1)
}

// RecordUnmatchedResponse records a response with no outstanding request.
func (c *Collector) RecordUnmatchedResponse() {
	c.unmatchedResponses.Add(1)
}

// RecordDuplicateRequest records a retransmitted request answered from the
// response cache without re-invoking the application.
func (c *Collector) RecordDuplicateRequest() {
	c.duplicateRequests.Add(1)
}

// RecordVersionRejection records an inbound datagram carrying an
// unsupported protocol version, answered with Version Not Supported.
func (c *Collector) RecordVersionRejection() {
	c.versionRejections.Add(1)
}

// RecordSessionEstablished records a new session and increments the active count.
func (c *Collector) RecordSessionEstablished() {
	c.sessionsEstablished.Add(1)
	c.activeSessions.Add(1)
}

// RecordSessionModified records a session modification.
func (c *Collector) RecordSessionModified() {
	c.sessionsModified.Add(1)
}

// RecordSessionDeleted records a session teardown and decrements the active count.
func (c *Collector) RecordSessionDeleted() {
	c.sessionsDeleted.Add(1)
	c.activeSessions.Add(-1)
}

// RecordSessionFailed records a session that failed to establish.
func (c *Collector) RecordSessionFailed() {
	c.sessionsFailed.Add(1)
}

// Duration returns the time elapsed since the collector was created.
func (c *Collector) Duration() time.Duration {
	return time.Since(c.startTime)
}

// SessionCounts is a point-in-time read of the session lifecycle counters.
type SessionCounts struct {
	Established uint64
	Modified    uint64
	Deleted     uint64
	Failed      uint64
	Active      int64
}

// Sessions returns the current session lifecycle counts.
func (c *Collector) Sessions() SessionCounts {
	return SessionCounts{
		Established: c.sessionsEstablished.Load(),
		Modified:    c.sessionsModified.Load(),
		Deleted:     c.sessionsDeleted.Load(),
		Failed:      c.sessionsFailed.Load(),
		Active:      c.activeSessions.Load(),
	}
}

// MessageSnapshot is a point-in-time, non-atomic copy of one message type's
// counters, safe to read after Snapshot has captured it.
type MessageSnapshot struct {
	Type       pfcpmsg.MsgType
	Sent       uint64
	Received   uint64
	Success    uint64
	Failed     uint64
	Timeout    uint64
	Retransmit uint64
}

func (c *Collector) messageSnapshots() []MessageSnapshot {
	var out []MessageSnapshot
	for i := 0; i < numMsgTypes; i++ {
		mc := &c.perType[i]
		sent := mc.Sent.Load()
		recv := mc.Received.Load()
		succ := mc.Success.Load()
		fail := mc.Failed.Load()
		to := mc.Timeout.Load()
		rtx := mc.Retransmit.Load()
		if sent == 0 && recv == 0 && succ == 0 && fail == 0 && to == 0 && rtx == 0 {
			continue
		}
		out = append(out, MessageSnapshot{
			Type: pfcpmsg.MsgType(i), Sent: sent, Received: recv,
			Success: succ, Failed: fail, Timeout: to, Retransmit: rtx,
		})
	}
	return out
}

// ResponseTimeStats are the min/avg/max/p99 response times seen so far,
// computed over whatever the ring buffer currently holds.
type ResponseTimeStats struct {
	Min, Avg, Max, P99 time.Duration
}

func (c *Collector) responseTimeStats() ResponseTimeStats {
	n := c.rtCount.Load()
	if n == 0 {
		return ResponseTimeStats{}
	}
	limit := n
	if limit > responseTimeSamples {
		limit = responseTimeSamples
	}
	samples := make([]int64, 0, limit)
	for i := uint64(0); i < responseTimeSamples; i++ {
		if v := c.rtSamples[i].Load(); v != 0 {
			samples = append(samples, v)
		}
	}
	if len(samples) == 0 {
		return ResponseTimeStats{}
	}
	sortInt64s(samples)

	var sum int64
	for _, v := range samples {
		sum += v
	}
	p99Idx := int(float64(len(samples)) * 0.99)
	if p99Idx >= len(samples) {
		p99Idx = len(samples) - 1
	}
	return ResponseTimeStats{
		Min: time.Duration(samples[0]),
		Avg: time.Duration(sum / int64(len(samples))),
		Max: time.Duration(samples[len(samples)-1]),
		P99: time.Duration(samples[p99Idx]),
	}
}

func sortInt64s(s []int64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// TotalSent sums Sent across every message type.
func (c *Collector) TotalSent() uint64 {
	var total uint64
	for i := range c.perType {
		total += c.perType[i].Sent.Load()
	}
	return total
}

// TransportCounts is a point-in-time read of the drop/reject counters.
type TransportCounts struct {
	DecodeErrors       uint64
	UnmatchedResponses uint64
	DuplicateRequests  uint64
	VersionRejections  uint64
}

// Transport returns the current drop/reject counts.
func (c *Collector) Transport() TransportCounts {
	return TransportCounts{
		DecodeErrors:       c.decodeErrors.Load(),
		UnmatchedResponses: c.unmatchedResponses.Load(),
		DuplicateRequests:  c.duplicateRequests.Load(),
		VersionRejections:  c.versionRejections.Load(),
	}
}

// Snapshot is a consistent-enough (field-by-field atomic loads, no global
// lock) point-in-time view of the collector, suitable for reporting.
type Snapshot struct {
	Duration   time.Duration
	Messages   []MessageSnapshot
	Sessions   SessionCounts
	Transport  TransportCounts
	ResponseTime ResponseTimeStats
	TotalSent  uint64
}

// TakeSnapshot captures the collector's current state.
func (c *Collector) TakeSnapshot() Snapshot {
	return Snapshot{
		Duration:     c.Duration(),
		Messages:     c.messageSnapshots(),
		Sessions:     c.Sessions(),
		Transport:    c.Transport(),
		ResponseTime: c.responseTimeStats(),
		TotalSent:    c.TotalSent(),
	}
}
