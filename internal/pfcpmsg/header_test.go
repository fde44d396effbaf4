package pfcpmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTripNoSEID(t *testing.T) {
	h := &Header{Type: HeartbeatRequest, SeqNbr: 0x010203}
	payload := []byte{0xaa, 0xbb}
	b := make([]byte, h.MarshalLen()+len(payload))
	n, err := h.MarshalTo(b, payload)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)

	got, offset, err := ParseHeader(b)
	require.NoError(t, err)
	assert.Equal(t, HeartbeatRequest, got.Type)
	assert.EqualValues(t, 1, got.Version)
	assert.False(t, got.HasSEID)
	assert.EqualValues(t, 0x010203, got.SeqNbr)
	assert.Equal(t, payload, b[offset:])
}

func TestHeaderLengthFieldCoversBytesAfterLength(t *testing.T) {
	h := &Header{Type: SessionEstablishmentRequest, HasSEID: true, SEID: 7, SeqNbr: 1}
	payload := []byte{0x00, 0x13, 0x00, 0x01, 0x01}
	b := make([]byte, h.MarshalLen()+len(payload))
	written, err := h.MarshalTo(b, payload)
	require.NoError(t, err)

	declared := int(b[2])<<8 | int(b[3])
	assert.Equal(t, written-4, declared)
}

func TestHeaderRoundTripWithSEID(t *testing.T) {
	h := &Header{Type: SessionModificationRequest, HasSEID: true, SEID: 0x1122334455667788, SeqNbr: 42}
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	b := make([]byte, h.MarshalLen()+len(payload))
	_, err := h.MarshalTo(b, payload)
	require.NoError(t, err)

	got, offset, err := ParseHeader(b)
	require.NoError(t, err)
	assert.True(t, got.HasSEID)
	assert.EqualValues(t, 0x1122334455667788, got.SEID)
	assert.EqualValues(t, 42, got.SeqNbr)
	assert.Equal(t, payload, b[offset:])
}

func TestParseHeaderTooShort(t *testing.T) {
	_, _, err := ParseHeader([]byte{0x20, 0x01})
	assert.Error(t, err)
}

func TestMsgTypeClassification(t *testing.T) {
	assert.True(t, SessionEstablishmentRequest.IsRequest())
	assert.False(t, SessionEstablishmentResponse.IsRequest())
	assert.True(t, SessionEstablishmentRequest.IsSessionMessage())
	assert.False(t, HeartbeatRequest.IsSessionMessage())
}
