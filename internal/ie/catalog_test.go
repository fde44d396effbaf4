package ie

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint32LeafRoundTrips(t *testing.T) {
	cases := []struct {
		name string
		ie   *IE
		get  func(*IE) (uint32, error)
		want uint32
	}{
		{"TimeThreshold", NewTimeThreshold(3600), (*IE).TimeThresholdValue, 3600},
		{"TimeQuota", NewTimeQuota(7200), (*IE).TimeQuotaValue, 7200},
		{"SubsequentTimeThreshold", NewSubsequentTimeThreshold(60), (*IE).SubsequentTimeThresholdValue, 60},
		{"SubsequentTimeQuota", NewSubsequentTimeQuota(120), (*IE).SubsequentTimeQuotaValue, 120},
		{"QuotaHoldingTime", NewQuotaHoldingTime(30), (*IE).QuotaHoldingTimeValue, 30},
		{"InactivityDetectionTime", NewInactivityDetectionTime(300), (*IE).InactivityDetectionTimeValue, 300},
		{"MonitoringTime", NewMonitoringTime(3820000000), (*IE).MonitoringTimeValue, 3820000000},
		{"StartTime", NewStartTime(3820000001), (*IE).StartTimeValue, 3820000001},
		{"EndTime", NewEndTime(3820000002), (*IE).EndTimeValue, 3820000002},
		{"TimeOfFirstPacket", NewTimeOfFirstPacket(3820000003), (*IE).TimeOfFirstPacketValue, 3820000003},
		{"TimeOfLastPacket", NewTimeOfLastPacket(3820000004), (*IE).TimeOfLastPacketValue, 3820000004},
		{"EventTimeStamp", NewEventTimeStamp(3820000005), (*IE).EventTimeStampValue, 3820000005},
		{"MeasurementPeriod", NewMeasurementPeriod(10), (*IE).MeasurementPeriodValue, 10},
		{"LinkedURRID", NewLinkedURRID(7), (*IE).LinkedURRIDValue, 7},
		{"AggregatedURRID", NewAggregatedURRID(8), (*IE).AggregatedURRIDValue, 8},
		{"EventQuota", NewEventQuota(100), (*IE).EventQuotaValue, 100},
		{"EventThreshold", NewEventThreshold(50), (*IE).EventThresholdValue, 50},
		{"SubsequentEventQuota", NewSubsequentEventQuota(25), (*IE).SubsequentEventQuotaValue, 25},
		{"SubsequentEventThreshold", NewSubsequentEventThreshold(10), (*IE).SubsequentEventThresholdValue, 10},
		{"URSEQN", NewURSEQN(42), (*IE).URSEQNValue, 42},
		{"QueryURRReference", NewQueryURRReference(9), (*IE).QueryURRReferenceValue, 9},
		{"UserPlaneInactivityTimer", NewUserPlaneInactivityTimer(600), (*IE).UserPlaneInactivityTimerValue, 600},
		{"QERCorrelationID", NewQERCorrelationID(77), (*IE).QERCorrelationIDValue, 77},
		{"AveragingWindow", NewAveragingWindow(2000), (*IE).AveragingWindowValue, 2000},
		{"FramedRouting", NewFramedRouting(2), (*IE).FramedRoutingValue, 2},
		{"EthernetFilterID", NewEthernetFilterID(3), (*IE).EthernetFilterIDValue, 3},
		{"EthernetInactivityTimer", NewEthernetInactivityTimer(90), (*IE).EthernetInactivityTimerValue, 90},
		{"SequenceNumber", NewSequenceNumber(0xABCDEF), (*IE).SequenceNumberValue, 0xABCDEF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := Parse(mustMarshal(t, tc.ie))
			require.NoError(t, err)
			v, err := tc.get(got)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestVolumeThresholdPartialFields(t *testing.T) {
	up := uint64(1 << 30)
	dl := uint64(1 << 31)
	got, _, err := Parse(mustMarshal(t, NewVolumeThreshold(nil, &up, &dl)))
	require.NoError(t, err)
	v, err := got.VolumeThresholdValue()
	require.NoError(t, err)
	assert.False(t, v.HasTotal)
	assert.True(t, v.HasUplink)
	assert.True(t, v.HasDownlink)
	assert.Equal(t, up, v.Uplink)
	assert.Equal(t, dl, v.Downlink)
}

func TestVolumeQuotaAllFields(t *testing.T) {
	total, up, dl := uint64(300), uint64(100), uint64(200)
	got, _, err := Parse(mustMarshal(t, NewVolumeQuota(&total, &up, &dl)))
	require.NoError(t, err)
	v, err := got.VolumeQuotaValue()
	require.NoError(t, err)
	assert.Equal(t, VolumeFields{
		HasTotal: true, HasUplink: true, HasDownlink: true,
		Total: 300, Uplink: 100, Downlink: 200,
	}, v)
}

func TestDroppedDLTrafficThreshold(t *testing.T) {
	pkts := uint64(1000)
	got, _, err := Parse(mustMarshal(t, NewDroppedDLTrafficThreshold(&pkts, nil)))
	require.NoError(t, err)
	p, b, err := got.DroppedDLTrafficThresholdValue()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.EqualValues(t, 1000, *p)
	assert.Nil(t, b)
}

func TestMeasurementMethodFlags(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewMeasurementMethod(MeasurementMethodVolume|MeasurementMethodDuration)))
	require.NoError(t, err)
	v, err := got.MeasurementMethodValue()
	require.NoError(t, err)
	assert.NotZero(t, v&MeasurementMethodVolume)
	assert.NotZero(t, v&MeasurementMethodDuration)
	assert.Zero(t, v&MeasurementMethodEvent)
}

func TestReportingTriggersRoundTrip(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewReportingTriggers(0x0180)))
	require.NoError(t, err)
	v, err := got.ReportingTriggersValue()
	require.NoError(t, err)
	assert.EqualValues(t, 0x0180, v)
}

func TestMultiplierSignedRoundTrip(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewMultiplier(-15, -2)))
	require.NoError(t, err)
	digits, exp, err := got.MultiplierValue()
	require.NoError(t, err)
	assert.EqualValues(t, -15, digits)
	assert.EqualValues(t, -2, exp)
}

func TestAdditionalUsageReportsInformation(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewAdditionalUsageReportsInformation(true, 300)))
	require.NoError(t, err)
	auri, nbr, err := got.AdditionalUsageReportsInformationValue()
	require.NoError(t, err)
	assert.True(t, auri)
	assert.EqualValues(t, 300, nbr)
}

func TestTimeQuotaMechanism(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewTimeQuotaMechanism(1, 900)))
	require.NoError(t, err)
	btit, base, err := got.TimeQuotaMechanismValue()
	require.NoError(t, err)
	assert.EqualValues(t, 1, btit)
	assert.EqualValues(t, 900, base)
}

func TestPacketRateBothDirections(t *testing.T) {
	orig := NewPacketRate(
		&PacketRateLimit{Unit: 2, MaxPackets: 1000},
		&PacketRateLimit{Unit: 0, MaxPackets: 500},
	)
	got, _, err := Parse(mustMarshal(t, orig))
	require.NoError(t, err)
	v, err := got.PacketRateValue()
	require.NoError(t, err)
	require.NotNil(t, v.Uplink)
	require.NotNil(t, v.Downlink)
	assert.EqualValues(t, 2, v.Uplink.Unit)
	assert.EqualValues(t, 1000, v.Uplink.MaxPackets)
	assert.EqualValues(t, 500, v.Downlink.MaxPackets)
}

func TestDLFlowLevelMarking(t *testing.T) {
	tos := uint16(0x2E00)
	got, _, err := Parse(mustMarshal(t, NewDLFlowLevelMarking(&tos, nil)))
	require.NoError(t, err)
	v, err := got.DLFlowLevelMarkingValue()
	require.NoError(t, err)
	assert.True(t, v.HasTosTrafficClass)
	assert.EqualValues(t, 0x2E00, v.TosTrafficClass)
	assert.False(t, v.HasServiceClassIndicator)
}

func TestRQIAndPagingPolicyIndicator(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewRQI(true)))
	require.NoError(t, err)
	on, err := got.RQIValue()
	require.NoError(t, err)
	assert.True(t, on)

	got, _, err = Parse(mustMarshal(t, NewPagingPolicyIndicator(5)))
	require.NoError(t, err)
	ppi, err := got.PagingPolicyIndicatorValue()
	require.NoError(t, err)
	assert.EqualValues(t, 5, ppi)
}

func TestStringLeafRoundTrips(t *testing.T) {
	cases := []struct {
		name string
		ie   *IE
		get  func(*IE) (string, error)
		want string
	}{
		{"NetworkInstance", NewNetworkInstance("internet"), (*IE).NetworkInstanceValue, "internet"},
		{"ApplicationID", NewApplicationID("app-042"), (*IE).ApplicationIDValue, "app-042"},
		{"ApplicationInstanceID", NewApplicationInstanceID("inst-9"), (*IE).ApplicationInstanceIDValue, "inst-9"},
		{"ForwardingPolicy", NewForwardingPolicy("policy-a"), (*IE).ForwardingPolicyValue, "policy-a"},
		{"FramedRoute", NewFramedRoute("192.0.2.0/24 0.0.0.0 1"), (*IE).FramedRouteValue, "192.0.2.0/24 0.0.0.0 1"},
		{"FramedIPv6Route", NewFramedIPv6Route("2001:db8::/32 :: 1"), (*IE).FramedIPv6RouteValue, "2001:db8::/32 :: 1"},
		{"ActivatePredefinedRules", NewActivatePredefinedRules("ruleset-1"), (*IE).ActivatePredefinedRulesValue, "ruleset-1"},
		{"DeactivatePredefinedRules", NewDeactivatePredefinedRules("ruleset-1"), (*IE).DeactivatePredefinedRulesValue, "ruleset-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := Parse(mustMarshal(t, tc.ie))
			require.NoError(t, err)
			v, err := tc.get(got)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestFlowInformationRoundTrip(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewFlowInformation(FlowDirectionBidirectional, "permit out ip from any to any")))
	require.NoError(t, err)
	dir, desc, err := got.FlowInformationValue()
	require.NoError(t, err)
	assert.Equal(t, FlowDirectionBidirectional, dir)
	assert.Equal(t, "permit out ip from any to any", desc)
}

func TestRedirectInformationRoundTrip(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewRedirectInformation(RedirectURL, "http://example.invalid/blocked")))
	require.NoError(t, err)
	at, addr, err := got.RedirectInformationValue()
	require.NoError(t, err)
	assert.Equal(t, RedirectURL, at)
	assert.Equal(t, "http://example.invalid/blocked", addr)
}

func TestHeaderEnrichmentRoundTrip(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewHeaderEnrichment(0, "X-MSISDN", "4915200000000")))
	require.NoError(t, err)
	ht, name, value, err := got.HeaderEnrichmentValue()
	require.NoError(t, err)
	assert.Zero(t, ht)
	assert.Equal(t, "X-MSISDN", name)
	assert.Equal(t, "4915200000000", value)
}

func TestAPNDNNLabelEncoding(t *testing.T) {
	orig := NewAPNDNN("apn1.mnc001.mcc262.gprs")
	// Each label carries its own length octet on the wire.
	assert.Equal(t, byte(4), orig.Payload[0])
	assert.Equal(t, []byte("apn1"), orig.Payload[1:5])

	got, _, err := Parse(mustMarshal(t, orig))
	require.NoError(t, err)
	apn, err := got.APNDNNValue()
	require.NoError(t, err)
	assert.Equal(t, "apn1.mnc001.mcc262.gprs", apn)
}

func TestRemoteGTPUPeerDualStack(t *testing.T) {
	v4 := net.ParseIP("192.0.2.10")
	v6 := net.ParseIP("2001:db8::10")
	got, _, err := Parse(mustMarshal(t, NewRemoteGTPUPeer(v4, v6)))
	require.NoError(t, err)
	v, err := got.RemoteGTPUPeerValue()
	require.NoError(t, err)
	assert.True(t, v.IPv4.Equal(v4))
	assert.True(t, v.IPv6.Equal(v6))
}

func TestDownlinkDataServiceInformation(t *testing.T) {
	ppi := uint8(3)
	qfi := uint8(9)
	got, _, err := Parse(mustMarshal(t, NewDownlinkDataServiceInformation(&ppi, &qfi)))
	require.NoError(t, err)
	v, err := got.DownlinkDataServiceInformationValue()
	require.NoError(t, err)
	assert.True(t, v.HasPPI)
	assert.True(t, v.HasQFI)
	assert.EqualValues(t, 3, v.PPI)
	assert.EqualValues(t, 9, v.QFI)
}

func TestDLBufferingDurationSpareUnitsDecodeAsOneMinute(t *testing.T) {
	// Spare unit codes 5 and 6 fall back to the one-minute unit on decode.
	for _, spare := range []byte{5, 6} {
		raw := NewLeaf(DLBufferingDuration, []byte{spare<<5 | 10})
		unit, value, err := raw.DLBufferingDurationValue()
		require.NoError(t, err)
		assert.Equal(t, TimerUnit1Minute, unit)
		assert.EqualValues(t, 10, value)
	}

	got, _, err := Parse(mustMarshal(t, NewDLBufferingDuration(TimerUnit10Minutes, 6)))
	require.NoError(t, err)
	unit, value, err := got.DLBufferingDurationValue()
	require.NoError(t, err)
	assert.Equal(t, TimerUnit10Minutes, unit)
	assert.EqualValues(t, 6, value)
}

func TestDLBufferingSuggestedPacketCountWidths(t *testing.T) {
	small, _, err := Parse(mustMarshal(t, NewDLBufferingSuggestedPacketCount(200)))
	require.NoError(t, err)
	assert.Len(t, small.Payload, 1)
	v, err := small.DLBufferingSuggestedPacketCountValue()
	require.NoError(t, err)
	assert.EqualValues(t, 200, v)

	big, _, err := Parse(mustMarshal(t, NewDLBufferingSuggestedPacketCount(1000)))
	require.NoError(t, err)
	assert.Len(t, big.Payload, 2)
	v, err = big.DLBufferingSuggestedPacketCountValue()
	require.NoError(t, err)
	assert.EqualValues(t, 1000, v)
}

func TestMACAddressSubset(t *testing.T) {
	src := net.HardwareAddr{0x02, 0x00, 0x5e, 0x00, 0x00, 0x01}
	got, _, err := Parse(mustMarshal(t, NewMACAddress(MACAddressFields{Source: src})))
	require.NoError(t, err)
	v, err := got.MACAddressValue()
	require.NoError(t, err)
	assert.Equal(t, src, v.Source)
	assert.Nil(t, v.Destination)
}

func TestVLANTagRoundTrip(t *testing.T) {
	f := VLANTagFields{HasPCP: true, PCP: 5, HasDEI: true, DEI: true, HasVID: true, VID: 0x0ABC}
	got, _, err := Parse(mustMarshal(t, NewCTag(f)))
	require.NoError(t, err)
	v, err := got.CTagValue()
	require.NoError(t, err)
	assert.Equal(t, f, v)

	got, _, err = Parse(mustMarshal(t, NewSTag(f)))
	require.NoError(t, err)
	v, err = got.STagValue()
	require.NoError(t, err)
	assert.Equal(t, f, v)
}

func TestEthertype(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewEthertype(0x0800)))
	require.NoError(t, err)
	v, err := got.EthertypeValue()
	require.NoError(t, err)
	assert.EqualValues(t, 0x0800, v)
}

func TestUserIDAllSubfields(t *testing.T) {
	f := UserIDFields{IMSI: "262011234567890", IMEI: "49015420323751", MSISDN: "4915200000000", NAI: "user@realm"}
	got, _, err := Parse(mustMarshal(t, NewUserID(f)))
	require.NoError(t, err)
	v, err := got.UserIDValue()
	require.NoError(t, err)
	assert.Equal(t, f, v)
}

func TestUserIDIMSIOnly(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewUserIDIMSI("262011234567890")))
	require.NoError(t, err)
	v, err := got.UserIDValue()
	require.NoError(t, err)
	assert.Equal(t, "262011234567890", v.IMSI)
	assert.Empty(t, v.IMEI)
}

func TestTraceInformationRoundTrip(t *testing.T) {
	f := TraceInformationFields{
		MCCMNC:           [3]byte{0x62, 0xf2, 0x10},
		TraceID:          [3]byte{0x00, 0x00, 0x2a},
		TriggeringEvents: []byte{0x01, 0x02},
		SessionTraceDepth: 1,
		InterfaceList:    []byte{0x80},
		CollectionIP:     net.ParseIP("198.51.100.7"),
	}
	got, _, err := Parse(mustMarshal(t, NewTraceInformation(f)))
	require.NoError(t, err)
	v, err := got.TraceInformationValue()
	require.NoError(t, err)
	assert.Equal(t, f.MCCMNC, v.MCCMNC)
	assert.Equal(t, f.TraceID, v.TraceID)
	assert.Equal(t, f.TriggeringEvents, v.TriggeringEvents)
	assert.Equal(t, f.SessionTraceDepth, v.SessionTraceDepth)
	assert.Equal(t, f.InterfaceList, v.InterfaceList)
	assert.True(t, v.CollectionIP.Equal(f.CollectionIP))
}

func TestFQCSIDRoundTrip(t *testing.T) {
	got, _, err := Parse(mustMarshal(t, NewFQCSID(net.ParseIP("10.0.0.1"), []uint16{7, 9})))
	require.NoError(t, err)
	addr, csids, err := got.FQCSIDValue()
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 0, 0, 1}, addr)
	assert.Equal(t, []uint16{7, 9}, csids)
}

func TestGroupedConstructorsProduceGroupedTypes(t *testing.T) {
	urr := NewCreateURR(
		NewURRID(1),
		NewMeasurementMethod(MeasurementMethodVolume),
		NewReportingTriggers(0x0001),
		NewVolumeThreshold(nil, nil, ptrU64(1<<20)),
	)
	b := mustMarshal(t, urr)
	got, _, err := Parse(b)
	require.NoError(t, err)
	require.Len(t, got.Child, 4)
	assert.Equal(t, urr.MarshalLen(), len(b))

	report := NewUserPlanePathFailureReport(
		NewRemoteGTPUPeer(net.ParseIP("192.0.2.1"), nil),
		NewRemoteGTPUPeer(net.ParseIP("192.0.2.2"), nil),
	)
	got, _, err = Parse(mustMarshal(t, report))
	require.NoError(t, err)
	assert.Len(t, got.FindAll(RemoteGTPUPeer), 2)
}

func ptrU64(v uint64) *uint64 { return &v }
