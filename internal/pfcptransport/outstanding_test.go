package pfcptransport

import (
	"net"
	"testing"
	"time"

	"github.com/hieulven/pfcp-engine/internal/pfcpnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRemote(t *testing.T) *pfcpnode.RemoteNode {
	t.Helper()
	n, err := pfcpnode.NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	return n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)
}

func TestOutstandingResolveRemovesEntry(t *testing.T) {
	tbl := NewOutstandingTable(10*time.Millisecond, 2, func(*OutstandingRequest) error { return nil }, nil, nil)
	remote := newTestRemote(t)
	tbl.Track(remote, 1, 0, []byte("req"))
	assert.Equal(t, 1, tbl.Count())

	req := tbl.Resolve(remote, 1)
	require.NotNil(t, req)
	assert.Equal(t, 0, tbl.Count())

	assert.Nil(t, tbl.Resolve(remote, 1))
}

func TestOutstandingSweepRetriesThenTimesOut(t *testing.T) {
	remote := newTestRemote(t)
	var resends int
	var timeouts int
	tbl := NewOutstandingTable(1*time.Millisecond, 2,
		func(*OutstandingRequest) error { resends++; return nil },
		func(*OutstandingRequest) { timeouts++ },
		nil)

	tbl.Track(remote, 5, 0, []byte("req"))
	for i := 0; i < 10; i++ {
		time.Sleep(2 * time.Millisecond)
		tbl.Sweep()
	}

	assert.Equal(t, 2, resends)
	assert.Equal(t, 1, timeouts)
	assert.Equal(t, 0, tbl.Count())
}

func TestOutstandingCancelForRemoteFiresTimeout(t *testing.T) {
	remote := newTestRemote(t)
	var timeouts int
	tbl := NewOutstandingTable(time.Second, 3, func(*OutstandingRequest) error { return nil },
		func(*OutstandingRequest) { timeouts++ }, nil)
	tbl.Track(remote, 1, 0, []byte("req"))
	tbl.Track(remote, 2, 0, []byte("req"))

	tbl.CancelForRemote(remote)
	assert.Equal(t, 2, timeouts)
	assert.Equal(t, 0, tbl.Count())
}

func TestResponseCacheReplaysWithinTTL(t *testing.T) {
	remote := newTestRemote(t)
	cache := NewResponseCache(10*time.Millisecond, 1)
	cache.Put(remote, 1, 100, []byte("rsp"))

	assert.Equal(t, []byte("rsp"), cache.Lookup(remote, 1, 100))
	assert.Nil(t, cache.Lookup(remote, 1, 200))
	assert.Nil(t, cache.Lookup(remote, 2, 100))
}

func TestResponseCacheEvictsAfterTTL(t *testing.T) {
	remote := newTestRemote(t)
	cache := NewResponseCache(1*time.Millisecond, 0)
	cache.Put(remote, 1, 0, []byte("rsp"))
	time.Sleep(10 * time.Millisecond)
	cache.Evict()
	assert.Equal(t, 0, cache.Count())
}
