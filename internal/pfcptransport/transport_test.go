package pfcptransport

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hieulven/pfcp-engine/internal/ie"
	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
	"github.com/hieulven/pfcp-engine/internal/pfcptranslate"
)

type recordingDeliverer struct {
	mu        sync.Mutex
	timeouts  []*OutstandingRequest
	inbounds  []Inbound
	delivered int
}

func (r *recordingDeliverer) Deliver(in Inbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered++
	r.inbounds = append(r.inbounds, in)
}

func (r *recordingDeliverer) DeliverTimeout(req *OutstandingRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeouts = append(r.timeouts, req)
}

func (r *recordingDeliverer) deliveredCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delivered
}

func newTestTransport(t *testing.T) (*Transport, *pfcpnode.LocalNode, *recordingDeliverer, *Socket) {
	t.Helper()
	local, err := pfcpnode.NewLocalNode(net.ParseIP("127.0.0.1"), 0, false, 0, 0, 0, nil)
	require.NoError(t, err)
	sock, err := NewSocket(net.ParseIP("127.0.0.1"), 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sock.Close() })

	deliverer := &recordingDeliverer{}
	tr := NewTransport(sock, local, 20*time.Millisecond, 1, deliverer, nil, nil)
	return tr, local, deliverer, sock
}

// peerSocket binds a loopback UDP socket posing as the remote peer, so a
// test can observe what the transport actually puts on the wire.
func peerSocket(t *testing.T) (*net.UDPConn, *net.UDPAddr) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, conn.LocalAddr().(*net.UDPAddr)
}

func readDatagram(t *testing.T, conn *net.UDPConn) []byte {
	t.Helper()
	buf := make([]byte, 65535)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestOnReqTimeoutDeliversToDeliverer(t *testing.T) {
	tr, local, deliverer, _ := newTestTransport(t)
	remote := local.CreateRemoteNode(net.ParseIP("127.0.0.2"), 8805)

	req := tr.outstanding.Track(remote, 7, 0, []byte("x"))
	tr.onReqTimeout(req)

	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	require.Len(t, deliverer.timeouts, 1)
	assert.EqualValues(t, 7, deliverer.timeouts[0].SeqNbr)
}

func TestProcessDatagramDetectsRestartAndInvokesHandler(t *testing.T) {
	tr, local, _, _ := newTestTransport(t)

	var restarted *pfcpnode.RemoteNode
	tr.SetRestartHandler(func(r *pfcpnode.RemoteNode) { restarted = r })

	from := &net.UDPAddr{IP: net.ParseIP("127.0.0.3"), Port: 8805}

	first, err := pfcptranslate.EncodeHeartbeatReq(1, time.Unix(1000, 0))
	require.NoError(t, err)
	tr.ProcessDatagram(first, from)
	assert.Nil(t, restarted, "first observation establishes the baseline, not a restart")

	second, err := pfcptranslate.EncodeHeartbeatReq(2, time.Unix(2000, 0))
	require.NoError(t, err)
	tr.ProcessDatagram(second, from)

	require.NotNil(t, restarted)
	assert.Equal(t, local.RemoteNode(from.IP, uint16(from.Port)), restarted)
}

func TestProcessDatagramRejectsUnsupportedVersion(t *testing.T) {
	tr, _, deliverer, _ := newTestTransport(t)
	peer, peerAddr := peerSocket(t)

	b, err := pfcptranslate.EncodeHeartbeatReq(9, time.Unix(1000, 0))
	require.NoError(t, err)
	b[0] = 2<<5 | b[0]&0x1f // overwrite the version bits

	tr.ProcessDatagram(b, peerAddr)

	rsp := readDatagram(t, peer)
	info, err := pfcptranslate.GetMsgInfo(rsp)
	require.NoError(t, err)
	assert.Equal(t, pfcpmsg.VersionNotSupportedResponse, info.Type)
	assert.EqualValues(t, 9, info.SeqNbr)

	assert.Zero(t, deliverer.deliveredCount())
	assert.EqualValues(t, 1, tr.Stats().Transport().VersionRejections)
}

func TestProcessDatagramDropsUnmatchedResponse(t *testing.T) {
	tr, _, deliverer, _ := newTestTransport(t)
	from := &net.UDPAddr{IP: net.ParseIP("127.0.0.3"), Port: 8805}

	rsp, err := pfcptranslate.EncodeHeartbeatRsp(42, time.Unix(1000, 0))
	require.NoError(t, err)
	tr.ProcessDatagram(rsp, from)

	assert.Zero(t, deliverer.deliveredCount())
	assert.EqualValues(t, 1, tr.Stats().Transport().UnmatchedResponses)
}

func TestProcessDatagramMatchedResponseCarriesRequest(t *testing.T) {
	tr, local, deliverer, _ := newTestTransport(t)
	peer, peerAddr := peerSocket(t)
	_ = peer
	remote := local.CreateRemoteNode(peerAddr.IP, uint16(peerAddr.Port))

	reqBytes, err := pfcptranslate.EncodeHeartbeatReq(11, time.Unix(1000, 0))
	require.NoError(t, err)
	require.NoError(t, tr.SendRequest(remote, 11, 0, reqBytes))

	rsp, err := pfcptranslate.EncodeHeartbeatRsp(11, time.Unix(1000, 0))
	require.NoError(t, err)
	tr.ProcessDatagram(rsp, peerAddr)

	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	require.Len(t, deliverer.inbounds, 1)
	require.NotNil(t, deliverer.inbounds[0].Req)
	assert.EqualValues(t, 11, deliverer.inbounds[0].Req.SeqNbr)
	assert.Equal(t, remote, deliverer.inbounds[0].Req.Remote)
	assert.Equal(t, 0, tr.outstanding.Count())
}

func TestDuplicateRequestReplaysCachedResponseWithoutDelivery(t *testing.T) {
	tr, local, deliverer, _ := newTestTransport(t)
	peer, peerAddr := peerSocket(t)
	remote := local.CreateRemoteNode(peerAddr.IP, uint16(peerAddr.Port))

	// The first copy of the request reaches the application.
	req := &pfcpmsg.HeartbeatRequestMsg{RecoveryTimeStamp: ie.NewRecoveryTimeStamp(3820000000)}
	reqBytes, err := pfcptranslate.EncodeReq(pfcpmsg.HeartbeatRequest, 10, nil, req)
	require.NoError(t, err)
	tr.ProcessDatagram(reqBytes, peerAddr)
	require.Equal(t, 1, deliverer.deliveredCount())

	// The application answers; the transport caches the bytes.
	rspBytes, err := pfcptranslate.EncodeHeartbeatRsp(10, time.Unix(1000, 0))
	require.NoError(t, err)
	require.NoError(t, tr.SendResponse(remote, 10, 0, rspBytes))
	first := readDatagram(t, peer)

	// The identical retransmission is answered from the cache, handler
	// invocation count still 1.
	tr.ProcessDatagram(reqBytes, peerAddr)
	replayed := readDatagram(t, peer)

	assert.Equal(t, first, replayed)
	assert.Equal(t, 1, deliverer.deliveredCount())
	assert.EqualValues(t, 1, tr.Stats().Transport().DuplicateRequests)
}

func TestInboundEstablishmentCreatesSessionAndLearnsPeerSeid(t *testing.T) {
	tr, local, deliverer, _ := newTestTransport(t)
	from := &net.UDPAddr{IP: net.ParseIP("127.0.0.9"), Port: 8805}

	est := &pfcpmsg.SessionEstablishmentRequestMsg{
		NodeID: ie.NewNodeIDIPv4(net.ParseIP("10.0.0.1")),
		FSEID:  ie.NewFSEID(0x1, net.ParseIP("10.0.0.1"), nil),
	}
	var zero uint64
	b, err := pfcptranslate.EncodeReq(pfcpmsg.SessionEstablishmentRequest, 2, &zero, est)
	require.NoError(t, err)

	tr.ProcessDatagram(b, from)

	deliverer.mu.Lock()
	in := deliverer.inbounds[0]
	deliverer.mu.Unlock()
	require.NotNil(t, in.Session)
	assert.EqualValues(t, 0x1, in.Session.RemoteSeid)
	assert.NotZero(t, in.Session.LocalSeid)

	remote := local.RemoteNode(from.IP, uint16(from.Port))
	assert.Equal(t, in.Session, local.Sessions.ByRemote(remote, 0x1))

	// A re-decode of the same request after cache eviction reuses the
	// session instead of allocating a second one.
	tr.ProcessDatagram(b, from)
	assert.Equal(t, 1, local.Sessions.Count())
}

func TestEstablishmentResponseTeachesRemoteSeid(t *testing.T) {
	tr, local, deliverer, _ := newTestTransport(t)
	peer, peerAddr := peerSocket(t)
	_ = peer
	remote := local.CreateRemoteNode(peerAddr.IP, uint16(peerAddr.Port))

	sess, err := local.CreateSession(remote)
	require.NoError(t, err)

	est := &pfcpmsg.SessionEstablishmentRequestMsg{
		NodeID: ie.NewNodeIDIPv4(net.ParseIP("10.0.0.1")),
		FSEID:  ie.NewFSEID(sess.LocalSeid, net.ParseIP("10.0.0.1"), nil),
	}
	var zero uint64
	reqBytes, err := pfcptranslate.EncodeReq(pfcpmsg.SessionEstablishmentRequest, 3, &zero, est)
	require.NoError(t, err)
	require.NoError(t, tr.SendRequest(remote, 3, sess.LocalSeid, reqBytes))

	rsp := &pfcpmsg.SessionEstablishmentResponseMsg{
		NodeID: ie.NewNodeIDIPv4(net.ParseIP("10.0.0.2")),
		Cause:  ie.NewCause(ie.CauseRequestAccepted),
		FSEID:  ie.NewFSEID(0xA0, net.ParseIP("10.0.0.2"), nil),
	}
	rspBytes, err := pfcptranslate.EncodeRsp(pfcpmsg.SessionEstablishmentResponse, 3, &sess.LocalSeid, rsp)
	require.NoError(t, err)
	tr.ProcessDatagram(rspBytes, peerAddr)

	assert.EqualValues(t, 0xA0, sess.RemoteSeid)
	assert.Equal(t, sess, local.Sessions.ByRemote(remote, 0xA0))

	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	require.Len(t, deliverer.inbounds, 1)
	assert.Equal(t, sess, deliverer.inbounds[0].Session)
}

func TestDestroySessionDeferredWhileRequestOutstanding(t *testing.T) {
	tr, local, _, _ := newTestTransport(t)
	peer, peerAddr := peerSocket(t)
	_ = peer
	remote := local.CreateRemoteNode(peerAddr.IP, uint16(peerAddr.Port))

	sess, err := local.CreateSession(remote)
	require.NoError(t, err)

	reqBytes, err := pfcptranslate.EncodeReq(pfcpmsg.SessionDeletionRequest, 4, &sess.RemoteSeid, &pfcpmsg.SessionDeletionRequestMsg{})
	require.NoError(t, err)
	require.NoError(t, tr.SendRequest(remote, 4, sess.LocalSeid, reqBytes))

	tr.DestroySession(sess)
	assert.NotNil(t, local.Sessions.ByLocalSeid(sess.LocalSeid), "destroy must wait for the in-flight request")

	rspBytes, err := pfcptranslate.EncodeRsp(pfcpmsg.SessionDeletionResponse, 4, &sess.LocalSeid, &pfcpmsg.SessionDeletionResponseMsg{Cause: ie.NewCause(ie.CauseRequestAccepted)})
	require.NoError(t, err)
	tr.ProcessDatagram(rspBytes, peerAddr)

	assert.Nil(t, local.Sessions.ByLocalSeid(sess.LocalSeid), "destroy completes once the response resolves the request")
}

func TestRunLoopsCancelAllDrainsOutstandingOnShutdown(t *testing.T) {
	tr, local, deliverer, sock := newTestTransport(t)
	remote := local.CreateRemoteNode(net.ParseIP("127.0.0.4"), 8805)
	tr.outstanding.Track(remote, 99, 0, []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = tr.RunLoops(ctx)
		close(done)
	}()

	cancel()
	_ = sock.Close() // unblock the read loop's blocking ReadFrom
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunLoops did not return after cancellation")
	}

	deliverer.mu.Lock()
	defer deliverer.mu.Unlock()
	require.Len(t, deliverer.timeouts, 1)
	assert.EqualValues(t, 99, deliverer.timeouts[0].SeqNbr)
}
