package pfcpengine

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hieulven/pfcp-engine/internal/pfcpconfig"
	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
	"github.com/hieulven/pfcp-engine/internal/pfcptransport"
)

type nopWorkGroup struct{}

func (nopWorkGroup) OnRcvdReq(*pfcptransport.Inbound)                 {}
func (nopWorkGroup) OnRcvdRsp(*pfcptransport.Inbound)                  {}
func (nopWorkGroup) OnReqTimeout(*pfcptransport.OutstandingRequest)    {}
func (nopWorkGroup) OnSndReqError(*pfcpnode.RemoteNode, error)         {}
func (nopWorkGroup) OnSndRspError(*pfcpnode.RemoteNode, error)         {}
func (nopWorkGroup) OnEncodeReqError(error)                            {}
func (nopWorkGroup) OnEncodeRspError(error)                            {}
func (nopWorkGroup) OnRemoteNodeAdded(*pfcpnode.RemoteNode)            {}
func (nopWorkGroup) OnRemoteNodeFailure(*pfcpnode.RemoteNode)          {}
func (nopWorkGroup) OnRemoteNodeRestart(*pfcpnode.RemoteNode)          {}
func (nopWorkGroup) OnRemoteNodeRemoved(*pfcpnode.RemoteNode)          {}
func (nopWorkGroup) OnSessionReport(*pfcptransport.Inbound)            {}
func (nopWorkGroup) OnSessionSetDelete(*pfcptransport.Inbound)         {}

func testConfig(t *testing.T, port int) *pfcpconfig.Config {
	t.Helper()
	cfg, err := pfcpconfig.Load("")
	require.NoError(t, err)
	cfg.Node.BindAddress = "127.0.0.1"
	cfg.Node.PFCPPort = port
	return cfg
}

func TestNewBuildsBoundEngine(t *testing.T) {
	cfg := testConfig(t, 38805)
	eng, err := New(cfg, nopWorkGroup{}, nil)
	require.NoError(t, err)
	defer eng.Close()

	assert.Equal(t, cfg.Node.PFCPPort, int(eng.Local.Port))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, 38806)
	cfg.Timing.T1Ms = 0

	_, err := New(cfg, nopWorkGroup{}, nil)
	require.Error(t, err)
}

func TestCreateRemoteNodeRegistersHeartbeatLoop(t *testing.T) {
	cfg := testConfig(t, 38807)
	eng, err := New(cfg, nopWorkGroup{}, nil)
	require.NoError(t, err)
	defer eng.Close()

	remote := eng.CreateRemoteNode(net.ParseIP("127.0.0.1"), 38999)
	assert.NotNil(t, remote)
	assert.Len(t, eng.heartbeatLoops, 1)
}
