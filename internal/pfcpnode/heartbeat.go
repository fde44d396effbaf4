package pfcpnode

import (
	"context"
	"time"
)

// HeartbeatSender is the narrow capability the heartbeat loop needs from
// the transport layer: send a Heartbeat Request to a remote and block
// until a response arrives, the configured T1/N1 retry budget is
// exhausted, or ctx is canceled.
type HeartbeatSender interface {
	SendHeartbeat(ctx context.Context, remote *RemoteNode) error
}

// HeartbeatLoop runs one remote node's periodic liveness check: on each
// tick of period, if the activity window shows no recent traffic, it sends
// a heartbeat; heartbeatN1 consecutive failures mark the remote down.
// Exactly one HeartbeatLoop runs per RemoteNode for its lifetime.
type HeartbeatLoop struct {
	remote       *RemoteNode
	sender       HeartbeatSender
	period       time.Duration
	rotatePeriod time.Duration
	n1           int
	onFail       func(*RemoteNode)
}

// NewHeartbeatLoop builds a loop that sends a heartbeat every period and
// marks remote down after n1+1 consecutive heartbeat failures (the first
// attempt plus n1 retries), invoking
// onFail exactly once at that point.
// rotatePeriod drives the independent activity-window rotation cadence
// (pfcpconfig.TimingConfig's LenActivityWindowMs) rather than reusing the
// heartbeat send period; a non-positive value falls back to period.
func NewHeartbeatLoop(remote *RemoteNode, sender HeartbeatSender, period, rotatePeriod time.Duration, n1 int, onFail func(*RemoteNode)) *HeartbeatLoop {
	if rotatePeriod <= 0 {
		rotatePeriod = period
	}
	return &HeartbeatLoop{remote: remote, sender: sender, period: period, rotatePeriod: rotatePeriod, n1: n1, onFail: onFail}
}

// Run blocks until ctx is canceled, driving two independent tickers: the
// activity window rotates every rotatePeriod so stale activity ages out
// over nbrActivityWindows * lenActivityWindow, while the heartbeat send
// check runs every period.
func (l *HeartbeatLoop) Run(ctx context.Context) {
	hbTicker := time.NewTicker(l.period)
	defer hbTicker.Stop()
	rotTicker := time.NewTicker(l.rotatePeriod)
	defer rotTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-rotTicker.C:
			l.remote.Activity.Rotate()
		case <-hbTicker.C:
			if l.remote.Activity.Alive() {
				l.remote.ResetHeartbeatMisses()
				continue
			}
			if err := l.sender.SendHeartbeat(ctx, l.remote); err != nil {
				if l.remote.RecordHeartbeatMiss(l.n1) {
					l.remote.MarkDown()
					if l.onFail != nil {
						l.onFail(l.remote)
					}
				}
				continue
			}
			l.remote.MarkUp()
		}
	}
}
