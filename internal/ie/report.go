package ie

import "encoding/binary"

// Report Type flag bits (TS 29.244 §8.2.39).
const (
	ReportTypeDLDR uint8 = 1 << iota // downlink data report
	ReportTypeUSAR                   // usage report
	ReportTypeERIR                   // error indication report
	ReportTypeUPIR                   // user plane inactivity report
)

// DownlinkDataServiceInformationFields is the decoded form of a Downlink
// Data Service Information IE.
type DownlinkDataServiceInformationFields struct {
	HasPPI bool
	PPI    uint8 // paging policy indication from the DL packet's ToS/TC
	HasQFI bool
	QFI    uint8
}

// NewDownlinkDataServiceInformation builds a Downlink Data Service
// Information IE; ppi and qfi may each be nil.
func NewDownlinkDataServiceInformation(ppi, qfi *uint8) *IE {
	var flags byte
	b := []byte{0}
	if ppi != nil {
		flags |= 0x01
		b = append(b, *ppi&0x3f)
	}
	if qfi != nil {
		flags |= 0x02
		b = append(b, *qfi&0x3f)
	}
	b[0] = flags
	return NewLeaf(DownlinkDataServiceInfo, b)
}

func (i *IE) DownlinkDataServiceInformationValue() (DownlinkDataServiceInformationFields, error) {
	var out DownlinkDataServiceInformationFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	if flags&0x01 != 0 {
		if len(rest) < 1 {
			return out, ErrTooShort
		}
		out.HasPPI = true
		out.PPI = rest[0] & 0x3f
		rest = rest[1:]
	}
	if flags&0x02 != 0 {
		if len(rest) < 1 {
			return out, ErrTooShort
		}
		out.HasQFI = true
		out.QFI = rest[0] & 0x3f
	}
	return out, nil
}

// NewDownlinkDataNotificationDelay builds a Downlink Data Notification Delay
// IE; the value counts in multiples of 50 ms.
func NewDownlinkDataNotificationDelay(fiftyMsUnits uint8) *IE {
	return NewLeaf(DownlinkDataNotificationDly, []byte{fiftyMsUnits})
}

func (i *IE) DownlinkDataNotificationDelayValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewDLBufferingDuration builds a DL Buffering Duration IE, reusing the
// Timer IE's 3-bit unit + 5-bit value packing.
func NewDLBufferingDuration(unit TimerUnit, value uint8) *IE {
	return NewLeaf(DLBufferingDuration, []byte{byte(unit)<<5 | value&0x1f})
}

// DLBufferingDurationValue decodes the unit and value. The spare unit codes
// 5 and 6 decode as one minute, the fallback TS 29.244 table 8.2.56-1
// prescribes for unexpected unit values.
func (i *IE) DLBufferingDurationValue() (TimerUnit, uint8, error) {
	if len(i.Payload) < 1 {
		return 0, 0, ErrTooShort
	}
	unit := TimerUnit(i.Payload[0] >> 5)
	if unit == 5 || unit == 6 {
		unit = TimerUnit1Minute
	}
	return unit, i.Payload[0] & 0x1f, nil
}

// NewDLBufferingSuggestedPacketCount builds a DL Buffering Suggested Packet
// Count IE. The value is encoded in one octet when it fits, two otherwise.
func NewDLBufferingSuggestedPacketCount(count uint16) *IE {
	if count <= 0xff {
		return NewLeaf(DLBufferingSuggestedCount, []byte{byte(count)})
	}
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, count)
	return NewLeaf(DLBufferingSuggestedCount, b)
}

func (i *IE) DLBufferingSuggestedPacketCountValue() (uint16, error) {
	switch len(i.Payload) {
	case 0:
		return 0, ErrTooShort
	case 1:
		return uint16(i.Payload[0]), nil
	default:
		return binary.BigEndian.Uint16(i.Payload[:2]), nil
	}
}

// NewSuggestedBufferingPacketsCount builds a Suggested Buffering Packets
// Count IE (the CP function's hint to the UP function).
func NewSuggestedBufferingPacketsCount(count uint8) *IE {
	return NewLeaf(SuggestedBufferingPktsCount, []byte{count})
}

func (i *IE) SuggestedBufferingPacketsCountValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// Node Report Type flag bits.
const (
	NodeReportUserPlanePathFailure uint8 = 1 << iota
)

// NewNodeReportType builds a Node Report Type IE.
func NewNodeReportType(flags uint8) *IE {
	return NewLeaf(NodeReportType, []byte{flags})
}

func (i *IE) NodeReportTypeValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewSequenceNumber builds a Sequence Number IE (load/overload control
// information sequencing).
func NewSequenceNumber(seq uint32) *IE { return newUint32Leaf(SequenceNumber, seq) }

func (i *IE) SequenceNumberValue() (uint32, error) { return i.uint32Value() }

// NewMetric builds a Metric IE: a 0-100 percentage of load or overload.
func NewMetric(percent uint8) *IE {
	return NewLeaf(Metric, []byte{percent})
}

func (i *IE) MetricValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// OCI flag bits.
const (
	OCIAssociatedOverload uint8 = 1 << iota // AOCI
)

// NewOCIFlags builds an OCI Flags IE.
func NewOCIFlags(flags uint8) *IE {
	return NewLeaf(OCIFlags, []byte{flags})
}

func (i *IE) OCIFlagsValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// PFCPSMReq flag bits (session modification request flags).
const (
	SMReqDropBufferedPackets uint8 = 1 << iota // DROBU
	SMReqSendEndMarker                         // SNDEM
	SMReqQueryAllURRs                          // QAURR
)

// NewPFCPSMReqFlags builds a PFCPSMReq-Flags IE.
func NewPFCPSMReqFlags(flags uint8) *IE {
	return NewLeaf(PFCPSMReqFlags, []byte{flags})
}

func (i *IE) PFCPSMReqFlagsValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// PFCPSRRsp flag bits (session report response flags).
const (
	SRRspDropBufferedPackets uint8 = 1 << iota // DROBU
)

// NewPFCPSRRspFlags builds a PFCPSRRsp-Flags IE.
func NewPFCPSRRspFlags(flags uint8) *IE {
	return NewLeaf(PFCPSRRspFlags, []byte{flags})
}

func (i *IE) PFCPSRRspFlagsValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// PFCPSRReq flag bits (session report request flags).
const (
	SRReqPSDBU uint8 = 1 << iota // PFCP session deleted by the UP function
)

// NewPFCPSRReqFlags builds a PFCPSRReq-Flags IE.
func NewPFCPSRReqFlags(flags uint8) *IE {
	return NewLeaf(PFCPSRReqFlags, []byte{flags})
}

func (i *IE) PFCPSRReqFlagsValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}
