package main

import (
	"github.com/sirupsen/logrus"

	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
	"github.com/hieulven/pfcp-engine/internal/pfcptransport"
)

// loggingWorkGroup is the simplest possible pfcpdispatch.WorkGroup: it logs
// every event at an appropriate level and performs no session-lifecycle
// logic of its own. A real application supplies its own WorkGroup wired to
// session bookkeeping.
type loggingWorkGroup struct {
	log *logrus.Entry
}

func (w *loggingWorkGroup) OnRcvdReq(req *pfcptransport.Inbound) {
	w.log.WithFields(logrus.Fields{
		"remote":   req.Remote.Key(),
		"msg_type": req.Decoded.Header.Type,
		"seq_nbr":  req.Decoded.Header.SeqNbr,
	}).Info("received request")
}

func (w *loggingWorkGroup) OnRcvdRsp(rsp *pfcptransport.Inbound) {
	w.log.WithFields(logrus.Fields{
		"remote":   rsp.Remote.Key(),
		"msg_type": rsp.Decoded.Header.Type,
		"seq_nbr":  rsp.Decoded.Header.SeqNbr,
	}).Info("received response")
}

func (w *loggingWorkGroup) OnReqTimeout(req *pfcptransport.OutstandingRequest) {
	w.log.WithFields(logrus.Fields{
		"remote":  req.Remote.Key(),
		"seq_nbr": req.SeqNbr,
	}).Warn("request timed out")
}

func (w *loggingWorkGroup) OnSndReqError(remote *pfcpnode.RemoteNode, err error) {
	w.log.WithField("remote", remote.Key()).WithError(err).Error("send request failed")
}

func (w *loggingWorkGroup) OnSndRspError(remote *pfcpnode.RemoteNode, err error) {
	w.log.WithField("remote", remote.Key()).WithError(err).Error("send response failed")
}

func (w *loggingWorkGroup) OnEncodeReqError(err error) {
	w.log.WithError(err).Error("encode request failed")
}

func (w *loggingWorkGroup) OnEncodeRspError(err error) {
	w.log.WithError(err).Error("encode response failed")
}

func (w *loggingWorkGroup) OnRemoteNodeAdded(remote *pfcpnode.RemoteNode) {
	w.log.WithField("remote", remote.Key()).Info("remote node added")
}

func (w *loggingWorkGroup) OnRemoteNodeFailure(remote *pfcpnode.RemoteNode) {
	w.log.WithField("remote", remote.Key()).Warn("remote node failed")
}

func (w *loggingWorkGroup) OnRemoteNodeRestart(remote *pfcpnode.RemoteNode) {
	w.log.WithField("remote", remote.Key()).Warn("remote node restarted")
}

func (w *loggingWorkGroup) OnRemoteNodeRemoved(remote *pfcpnode.RemoteNode) {
	w.log.WithField("remote", remote.Key()).Info("remote node removed")
}

func (w *loggingWorkGroup) OnSessionReport(req *pfcptransport.Inbound) {
	w.log.WithField("remote", req.Remote.Key()).Info("received session report")
}

func (w *loggingWorkGroup) OnSessionSetDelete(req *pfcptransport.Inbound) {
	w.log.WithField("remote", req.Remote.Key()).Info("received session set deletion")
}
