// Package ie implements the PFCP Information Element wire format: the
// 2-byte type / 2-byte length / value TLV defined in 3GPP TS 29.244 §8.1.2,
// including grouped IEs that nest further IEs as their value.
package ie

// Type identifies a PFCP Information Element as defined in TS 29.244 table
// 8.1.2-1. Only the R15 subset exercised by this module is enumerated; any
// type not listed here still round-trips correctly through Parse/MarshalTo,
// it simply has no typed constructor or field accessor (its value stays as
// raw bytes in IE.Payload).
type Type uint16

const (
	CreatePDR                   Type = 1
	PDI                         Type = 2
	CreateFAR                   Type = 3
	ForwardingParameters        Type = 4
	DuplicatingParameters       Type = 5
	CreateURR                   Type = 6
	CreateQER                   Type = 7
	CreatedPDR                  Type = 8
	UpdatePDR                   Type = 9
	UpdateFAR                   Type = 10
	UpdateForwardingParameters  Type = 11
	UpdateBARSessionReportRsp   Type = 12
	UpdateURR                   Type = 13
	UpdateQER                   Type = 14
	RemovePDR                   Type = 15
	RemoveFAR                   Type = 16
	RemoveURR                   Type = 17
	RemoveQER                   Type = 18
	Cause                       Type = 19
	SourceInterface             Type = 20
	FTEID                       Type = 21
	NetworkInstance             Type = 22
	SDFFilter                   Type = 23
	ApplicationID               Type = 24
	GateStatus                  Type = 25
	MBR                         Type = 26
	GBR                         Type = 27
	QERCorrelationID            Type = 28
	Precedence                  Type = 29
	TransportLevelMarking       Type = 30
	VolumeThreshold             Type = 31
	TimeThreshold               Type = 32
	MonitoringTime              Type = 33
	SubsequentVolumeThreshold   Type = 34
	SubsequentTimeThreshold     Type = 35
	InactivityDetectionTime     Type = 36
	ReportingTriggers           Type = 37
	RedirectInformation         Type = 38
	ReportType                  Type = 39
	OffendingIE                 Type = 40
	ForwardingPolicy            Type = 41
	DestinationInterface        Type = 42
	UPFunctionFeatures          Type = 43
	ApplyAction                 Type = 44
	DownlinkDataServiceInfo     Type = 45
	DownlinkDataNotificationDly Type = 46
	DLBufferingDuration         Type = 47
	DLBufferingSuggestedCount   Type = 48
	PFCPSMReqFlags              Type = 49
	PFCPSRRspFlags              Type = 50
	LoadControlInformation      Type = 51
	SequenceNumber              Type = 52
	Metric                      Type = 53
	OverloadControlInformation  Type = 54
	Timer                       Type = 55
	PDRID                       Type = 56
	FSEID                       Type = 57
	ApplicationIDsPFDs          Type = 58
	PFDContext                  Type = 59
	NodeID                      Type = 60
	PFDContents                 Type = 61
	MeasurementMethod           Type = 62
	UsageReportTrigger          Type = 63
	MeasurementPeriod           Type = 64
	FQCSID                      Type = 65
	VolumeMeasurement           Type = 66
	DurationMeasurement         Type = 67
	ApplicationDetectionInfo    Type = 68
	TimeOfFirstPacket           Type = 69
	TimeOfLastPacket            Type = 70
	QuotaHoldingTime            Type = 71
	DroppedDLTrafficThreshold   Type = 72
	VolumeQuota                 Type = 73
	TimeQuota                   Type = 74
	StartTime                   Type = 75
	EndTime                     Type = 76
	QueryURR                    Type = 77
	UsageReportSMR              Type = 78
	UsageReportSDR              Type = 79
	UsageReportSRR              Type = 80
	URRID                       Type = 81
	LinkedURRID                 Type = 82
	DownlinkDataReport          Type = 83
	OuterHeaderCreation         Type = 84
	CreateBAR                   Type = 85
	UpdateBARSessionModReq      Type = 86
	RemoveBAR                   Type = 87
	BARID                       Type = 88
	CPFunctionFeatures          Type = 89
	UsageInformation            Type = 90
	ApplicationInstanceID       Type = 91
	FlowInformation             Type = 92
	UEIPAddress                 Type = 93
	PacketRate                  Type = 94
	OuterHeaderRemoval          Type = 95
	RecoveryTimeStamp           Type = 96
	DLFlowLevelMarking          Type = 97
	HeaderEnrichment            Type = 98
	ErrorIndicationReport       Type = 99
	MeasurementInformation      Type = 100
	NodeReportType              Type = 101
	UserPlanePathFailureReport  Type = 102
	RemoteGTPUPeer              Type = 103
	URSEQN                      Type = 104
	UpdateDuplicatingParameters Type = 105
	ActivatePredefinedRules     Type = 106
	DeactivatePredefinedRules   Type = 107
	FARID                       Type = 108
	QERID                       Type = 109
	OCIFlags                    Type = 110
	AssociationReleaseRequest   Type = 111
	GracefulReleasePeriod       Type = 112
	PDNType                     Type = 113
	FailedRuleID                Type = 114
	TimeQuotaMechanism          Type = 115
	UserPlaneIPResourceInfo     Type = 116
	UserPlaneInactivityTimer    Type = 117
	AggregatedURRs              Type = 118
	Multiplier                  Type = 119
	AggregatedURRID             Type = 120
	SubsequentVolumeQuota       Type = 121
	SubsequentTimeQuota         Type = 122
	RQI                         Type = 123
	QFI                         Type = 124
	QueryURRReference           Type = 125
	AdditionalUsageReportsInfo  Type = 126
	CreateTrafficEndpoint       Type = 127
	CreatedTrafficEndpoint      Type = 128
	UpdateTrafficEndpoint       Type = 129
	RemoveTrafficEndpoint       Type = 130
	TrafficEndpointID           Type = 131
	EthernetPacketFilter        Type = 132
	MACAddress                  Type = 133
	CTag                        Type = 134
	STag                        Type = 135
	Ethertype                   Type = 136
	Proxying                    Type = 137
	EthernetFilterID            Type = 138
	EthernetFilterProperties    Type = 139
	SuggestedBufferingPktsCount Type = 140
	UserID                      Type = 141
	EthernetPDUSessionInfo      Type = 142
	EthernetTrafficInformation  Type = 143
	MACAddressesDetected        Type = 144
	MACAddressesRemoved         Type = 145
	EthernetInactivityTimer     Type = 146
	AdditionalMonitoringTime    Type = 147
	EventQuota                  Type = 148
	EventThreshold              Type = 149
	SubsequentEventQuota        Type = 150
	SubsequentEventThreshold    Type = 151
	TraceInformation            Type = 152
	FramedRoute                 Type = 153
	FramedRouting               Type = 154
	FramedIPv6Route             Type = 155
	EventTimeStamp              Type = 156
	AveragingWindow             Type = 157
	PagingPolicyIndicator       Type = 158
	APNDNN                      Type = 159
	ThreeGPPInterfaceType       Type = 160
	PFCPSRReqFlags              Type = 161
)

// groupedTypes is the set of IE types whose value is itself a sequence of
// nested IEs rather than bit-packed leaf fields. Parse consults this set to
// decide whether to recurse.
var groupedTypes = map[Type]bool{
	CreatePDR:                  true,
	PDI:                        true,
	CreateFAR:                  true,
	ForwardingParameters:       true,
	DuplicatingParameters:      true,
	UpdateDuplicatingParameters: true,
	CreateURR:                  true,
	CreateQER:                  true,
	CreatedPDR:                 true,
	UpdatePDR:                  true,
	UpdateFAR:                  true,
	UpdateForwardingParameters: true,
	UpdateURR:                  true,
	UpdateQER:                  true,
	RemovePDR:                  true,
	RemoveFAR:                  true,
	RemoveURR:                  true,
	RemoveQER:                  true,
	ApplicationIDsPFDs:         true,
	PFDContext:                 true,
	QueryURR:                   true,
	UsageReportSMR:             true,
	UsageReportSDR:             true,
	UsageReportSRR:             true,
	DownlinkDataReport:         true,
	CreateBAR:                  true,
	UpdateBARSessionModReq:     true,
	UpdateBARSessionReportRsp:  true,
	RemoveBAR:                  true,
	ApplicationDetectionInfo:   true,
	LoadControlInformation:     true,
	OverloadControlInformation: true,
	AggregatedURRs:             true,
	CreateTrafficEndpoint:      true,
	CreatedTrafficEndpoint:     true,
	UpdateTrafficEndpoint:      true,
	RemoveTrafficEndpoint:      true,
	ErrorIndicationReport:      true,
	UserPlanePathFailureReport: true,
	EthernetPacketFilter:       true,
	EthernetTrafficInformation: true,
	AdditionalMonitoringTime:   true,
}

// IsGrouped reports whether t's value is a nested IE sequence.
func IsGrouped(t Type) bool {
	return groupedTypes[t]
}

var typeNames = map[Type]string{
	Cause: "Cause", NodeID: "NodeID", RecoveryTimeStamp: "RecoveryTimeStamp",
	FSEID: "FSEID", FTEID: "FTEID", PDRID: "PDRID", Precedence: "Precedence",
	SourceInterface: "SourceInterface", DestinationInterface: "DestinationInterface",
	UEIPAddress: "UEIPAddress", UPFunctionFeatures: "UPFunctionFeatures",
	CPFunctionFeatures: "CPFunctionFeatures", UserPlaneIPResourceInfo: "UserPlaneIPResourceInfo",
	CreatePDR: "CreatePDR", PDI: "PDI", CreateFAR: "CreateFAR",
	ForwardingParameters: "ForwardingParameters", CreateURR: "CreateURR",
	CreateQER: "CreateQER", CreateBAR: "CreateBAR", ApplyAction: "ApplyAction",
	GateStatus: "GateStatus", MBR: "MBR", GBR: "GBR", QFI: "QFI",
	OuterHeaderCreation: "OuterHeaderCreation", OuterHeaderRemoval: "OuterHeaderRemoval",
	OffendingIE: "OffendingIE", ReportType: "ReportType", SequenceNumber: "SequenceNumber",
	Timer: "Timer", FQCSID: "FQCSID", UserID: "UserID", TraceInformation: "TraceInformation",
	AssociationReleaseRequest: "AssociationReleaseRequest", GracefulReleasePeriod: "GracefulReleasePeriod",
	PDNType: "PDNType", FailedRuleID: "FailedRuleID", UsageReportTrigger: "UsageReportTrigger",
	VolumeMeasurement: "VolumeMeasurement", DurationMeasurement: "DurationMeasurement",
	URRID: "URRID", QERID: "QERID", BARID: "BARID", FARID: "FARID",
	NodeReportType: "NodeReportType", UserPlanePathFailureReport: "UserPlanePathFailureReport",
	RemoteGTPUPeer: "RemoteGTPUPeer", APNDNN: "APNDNN", ThreeGPPInterfaceType: "ThreeGPPInterfaceType",
	SDFFilter: "SDFFilter", EthernetPacketFilter: "EthernetPacketFilter",
	MeasurementMethod: "MeasurementMethod", ReportingTriggers: "ReportingTriggers",
}

// String returns a human-readable name for a well-known IE type, or a
// generic "IE(<n>)" for anything outside the catalog above.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "IE(" + itoa(int(t)) + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
