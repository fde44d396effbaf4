package ie

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafRoundTrip(t *testing.T) {
	orig := NewCause(CauseRequestAccepted)
	b, err := orig.Marshal()
	require.NoError(t, err)

	got, n, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	cv, err := got.CauseValue()
	require.NoError(t, err)
	assert.Equal(t, CauseRequestAccepted, cv)
}

func TestGroupedRoundTrip(t *testing.T) {
	pdr := NewGrouped(CreatePDR,
		NewPDRID(1),
		NewPrecedence(100),
		NewGrouped(PDI, NewSourceInterface(SourceInterfaceAccess)),
	)
	b, err := pdr.Marshal()
	require.NoError(t, err)

	got, n, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	require.Len(t, got.Child, 3)

	id, err := got.Find(PDRID).PDRIDValue()
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	pdi := got.Find(PDI)
	require.NotNil(t, pdi)
	si, err := pdi.Find(SourceInterface).SourceInterfaceValue()
	require.NoError(t, err)
	assert.Equal(t, SourceInterfaceAccess, si)
}

func TestMarshalLenMatchesActualOutput(t *testing.T) {
	g := NewGrouped(CreateFAR, NewFARID(0), NewApplyAction(ApplyActionForward))
	assert.Equal(t, g.MarshalLen(), len(mustMarshal(t, g)))
}

func TestParseAllHandlesMultipleSiblings(t *testing.T) {
	a := NewPDRID(1)
	b2 := NewPrecedence(200)
	ab, bb := mustMarshal(t, a), mustMarshal(t, b2)
	items, err := ParseAll(append(ab, bb...))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, PDRID, items[0].Type)
	assert.Equal(t, Precedence, items[1].Type)
}

func TestParseTooShortBuffer(t *testing.T) {
	_, _, err := Parse([]byte{0x00, 0x13})
	assert.ErrorIs(t, err, ErrTooShort)

	_, _, err = Parse([]byte{0x00, 0x13, 0x00, 0x05, 0x01})
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestFindAllReturnsEveryMatch(t *testing.T) {
	far := NewGrouped(UpdateFAR, NewFARID(1), NewFARID(2), NewPrecedence(5))
	ids := far.FindAll(FARID)
	assert.Len(t, ids, 2)
}

func TestPresent(t *testing.T) {
	assert.False(t, Present(nil))
	assert.True(t, Present(NewPDRID(1)))
}

func TestFSEIDRoundTripDualStack(t *testing.T) {
	v4 := net.ParseIP("10.0.0.1")
	v6 := net.ParseIP("2001:db8::1")
	orig := NewFSEID(0xdeadbeef, v4, v6)

	got, _, err := Parse(mustMarshal(t, orig))
	require.NoError(t, err)
	f, err := got.FSEIDValue()
	require.NoError(t, err)
	assert.EqualValues(t, 0xdeadbeef, f.SEID)
	assert.True(t, f.IPv4.Equal(v4))
	assert.True(t, f.IPv6.Equal(v6))
}

func TestFTEIDChooseRoundTrip(t *testing.T) {
	orig := NewFTEIDChoose(3, true, false)
	got, _, err := Parse(mustMarshal(t, orig))
	require.NoError(t, err)
	f, err := got.FTEIDValue()
	require.NoError(t, err)
	assert.True(t, f.Choose)
	assert.EqualValues(t, 3, f.ChooseID)
}

func TestVolumeMeasurementPartialFields(t *testing.T) {
	total := uint64(12345)
	orig := NewVolumeMeasurement(&total, nil, nil)
	got, _, err := Parse(mustMarshal(t, orig))
	require.NoError(t, err)
	v, err := got.VolumeMeasurementValue()
	require.NoError(t, err)
	assert.True(t, v.HasTotal)
	assert.False(t, v.HasUplink)
	assert.EqualValues(t, 12345, v.Total)
}

func TestTypeStringFallsBackForUnknown(t *testing.T) {
	assert.Contains(t, Type(65000).String(), "IE(65000)")
	assert.Equal(t, "Cause", Cause.String())
}

func mustMarshal(t *testing.T, i *IE) []byte {
	t.Helper()
	b, err := i.Marshal()
	require.NoError(t, err)
	return b
}
