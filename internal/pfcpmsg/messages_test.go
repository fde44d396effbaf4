package pfcpmsg

import (
	"testing"

	"github.com/hieulven/pfcp-engine/internal/ie"
	"github.com/stretchr/testify/assert"
)

func TestSessionEstablishmentRequestToIEsOrdering(t *testing.T) {
	m := &SessionEstablishmentRequestMsg{
		NodeID: ie.NewNodeIDIPv4(nil),
		FSEID:  ie.NewFSEID(1, nil, nil),
	}
	assert.True(t, m.AddCreatePDR(ie.NewGrouped(ie.CreatePDR, ie.NewPDRID(1))))
	assert.True(t, m.AddCreateFAR(ie.NewGrouped(ie.CreateFAR, ie.NewFARID(1))))

	ies := m.ToIEs()
	assert.Len(t, ies, 4)
	assert.Equal(t, ie.NodeID, ies[0].Type)
	assert.Equal(t, ie.FSEID, ies[1].Type)
	assert.Equal(t, ie.CreatePDR, ies[2].Type)
	assert.Equal(t, ie.CreateFAR, ies[3].Type)
}

func TestRepeatableSlotCapacity(t *testing.T) {
	m := &SessionEstablishmentRequestMsg{}
	for n := 0; n < maxRepeatable; n++ {
		assert.True(t, m.AddCreatePDR(ie.NewPDRID(uint16(n))))
	}
	assert.False(t, m.AddCreatePDR(ie.NewPDRID(99)))
	assert.Len(t, m.ToIEs(), maxRepeatable)
}

func TestResponseRequestBackReference(t *testing.T) {
	req := &HeartbeatRequestMsg{RecoveryTimeStamp: ie.NewRecoveryTimeStamp(100)}
	rsp := &HeartbeatResponseMsg{RecoveryTimeStamp: ie.NewRecoveryTimeStamp(100), Request: req}
	assert.Same(t, req, rsp.Request)
}
