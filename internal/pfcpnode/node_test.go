package pfcpnode

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSEIDAllocatorSkipsReservedZero(t *testing.T) {
	a := NewSEIDAllocator(0)
	seid, err := a.Allocate()
	require.NoError(t, err)
	assert.NotZero(t, seid)
}

func TestSEIDAllocatorNoDuplicates(t *testing.T) {
	a := NewSEIDAllocator(1)
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		seid, err := a.Allocate()
		require.NoError(t, err)
		assert.False(t, seen[seid], "duplicate SEID allocated")
		seen[seid] = true
	}
}

func TestSEIDAllocatorReleaseAllowsReuse(t *testing.T) {
	a := NewSEIDAllocator(1)
	seid, _ := a.Allocate()
	a.Release(seid)
	assert.Equal(t, 0, a.AllocatedCount())
}

func TestTEIDRangeAllocatorRespectsRange(t *testing.T) {
	a, err := NewTEIDRangeAllocator(4, 3)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		teid, err := a.Allocate()
		require.NoError(t, err)
		assert.EqualValues(t, 3, teid>>(32-4))
	}
}

func TestTEIDRangeAllocatorRejectsBadRangeValue(t *testing.T) {
	_, err := NewTEIDRangeAllocator(2, 4)
	assert.Error(t, err)
}

func TestRemoteNodeAllocTEIDStaysInAssignedRange(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, true, 3, 0, 0, nil)
	require.NoError(t, err)
	remote := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)

	rangeVal, err := n.AllocTEIDRange()
	require.NoError(t, err)
	remote.SetTEIDRange(rangeVal)

	seen := make(map[uint32]bool)
	for i := 0; i < 50; i++ {
		teid, err := remote.AllocTEID()
		require.NoError(t, err)
		assert.EqualValues(t, rangeVal, teid>>(32-3))
		assert.False(t, seen[teid], "duplicate TEID minted")
		seen[teid] = true
	}

	for teid := range seen {
		remote.ReleaseTEID(teid)
	}
}

func TestRemoteNodeAllocTEIDWithoutPartitioning(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	remote := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)

	teid, err := remote.AllocTEID()
	require.NoError(t, err)
	assert.NotZero(t, teid)
}

func TestLocalNodeSeqNbrWraps(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	n.nextSq = 0xFFFFFF
	first := n.AllocSeqNbr()
	second := n.AllocSeqNbr()
	assert.EqualValues(t, 0xFFFFFF, first)
	assert.EqualValues(t, 0, second)
}

func TestCreateRemoteNodeIsIdempotent(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	addr := net.ParseIP("10.0.0.2")
	r1 := n.CreateRemoteNode(addr, 8805)
	r2 := n.CreateRemoteNode(addr, 8805)
	assert.Same(t, r1, r2)
}

func TestRestartDetectionStrictIncrease(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	r := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)

	assert.False(t, r.ObserveRecoveryTimeStamp(100))
	assert.False(t, r.ObserveRecoveryTimeStamp(100))
	assert.False(t, r.ObserveRecoveryTimeStamp(99))
	assert.True(t, r.ObserveRecoveryTimeStamp(150))
}

func TestInvalidateRemoteRemovesOnlyItsSessions(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	r1 := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)
	r2 := n.CreateRemoteNode(net.ParseIP("10.0.0.3"), 8805)

	reg := NewSessionRegistry()
	s1 := &Session{Remote: r1, LocalSeid: 1, RemoteSeid: 10}
	s2 := &Session{Remote: r2, LocalSeid: 2, RemoteSeid: 20}
	reg.Add(s1)
	reg.Add(s2)

	removed := reg.InvalidateRemote(r1)
	assert.Len(t, removed, 1)
	assert.Nil(t, reg.ByLocalSeid(1))
	assert.NotNil(t, reg.ByLocalSeid(2))
}

func TestHeartbeatLoopMarksDownAfterN1Misses(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	r := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)

	failed := make(chan struct{}, 1)
	loop := NewHeartbeatLoop(r, failingSender{}, 5*time.Millisecond, 5*time.Millisecond, 2, func(*RemoteNode) {
		select {
		case failed <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	loop.Run(ctx)

	select {
	case <-failed:
	default:
		t.Fatal("expected onFail to have been invoked")
	}
	assert.Equal(t, RemoteNodeDown, r.State())
}

func TestReleaseAssociationRemovesRemoteAndSessions(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	remote := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)

	sess, err := n.CreateSession(remote)
	require.NoError(t, err)

	removed := n.ReleaseAssociation(remote)
	assert.Equal(t, []*Session{sess}, removed)
	assert.Nil(t, n.Sessions.ByLocalSeid(sess.LocalSeid))
	assert.Nil(t, n.RemoteNode(remote.Addr, remote.Port))
}

func TestCreateSessionAllocatesDistinctSeids(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	remote := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)

	s1, err := n.CreateSession(remote)
	require.NoError(t, err)
	s2, err := n.CreateSession(remote)
	require.NoError(t, err)

	assert.NotEqual(t, s1.LocalSeid, s2.LocalSeid)
	assert.Equal(t, 2, n.Sessions.Count())
}

func TestConfiguredActivityWindowSizeThreadsIntoRemoteNodes(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 6, 500*time.Millisecond, nil)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, n.ActivityWindowLen())

	r := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)
	assert.Len(t, r.Activity.slots, 6)
}

func TestNewLocalNodeDefaultsNonPositiveActivityWindowConfig(t *testing.T) {
	n, err := NewLocalNode(net.ParseIP("10.0.0.1"), 8805, false, 0, 0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultActivityWindowLen, n.ActivityWindowLen())

	r := n.CreateRemoteNode(net.ParseIP("10.0.0.2"), 8805)
	assert.Len(t, r.Activity.slots, defaultNbrActivityWindows)
}

type failingSender struct{}

func (failingSender) SendHeartbeat(ctx context.Context, remote *RemoteNode) error {
	return errors.New("no response")
}
