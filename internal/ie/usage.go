package ie

import "encoding/binary"

// Most usage-measurement IEs are a single big-endian unsigned integer;
// these two helpers keep their constructors and accessors from repeating
// the same four lines thirty times.
func newUint32Leaf(t Type, v uint32) *IE {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return NewLeaf(t, b)
}

func (i *IE) uint32Value() (uint32, error) {
	if len(i.Payload) < 4 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint32(i.Payload), nil
}

// MeasurementMethod flag bits (TS 29.244 §8.2.40).
const (
	MeasurementMethodDuration uint8 = 1 << iota
	MeasurementMethodVolume
	MeasurementMethodEvent
)

// NewMeasurementMethod builds a Measurement Method IE from its DURAT/VOLUM/
// EVENT flag bits.
func NewMeasurementMethod(flags uint8) *IE {
	return NewLeaf(MeasurementMethod, []byte{flags})
}

func (i *IE) MeasurementMethodValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewReportingTriggers builds a Reporting Triggers IE from its 2-octet flag
// bitmask (PERIO, VOLTH, TIMTH, ... per TS 29.244 §8.2.19).
func NewReportingTriggers(flags uint16) *IE {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, flags)
	return NewLeaf(ReportingTriggers, b)
}

func (i *IE) ReportingTriggersValue() (uint16, error) {
	if len(i.Payload) < 2 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint16(i.Payload), nil
}

// VolumeFields is the decoded form of the volume threshold/quota family of
// IEs, which all share the TOVOL/ULVOL/DLVOL flags + conditional 64-bit
// octet counts layout of TS 29.244 §8.2.13.
type VolumeFields struct {
	HasTotal, HasUplink, HasDownlink bool
	Total, Uplink, Downlink          uint64
}

func newVolumeLeaf(t Type, total, uplink, downlink *uint64) *IE {
	var flags byte
	b := []byte{0}
	if total != nil {
		flags |= 0x01
		b = appendU64(b, *total)
	}
	if uplink != nil {
		flags |= 0x02
		b = appendU64(b, *uplink)
	}
	if downlink != nil {
		flags |= 0x04
		b = appendU64(b, *downlink)
	}
	b[0] = flags
	return NewLeaf(t, b)
}

func (i *IE) volumeValue() (VolumeFields, error) {
	var out VolumeFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	take := func() (uint64, error) {
		if len(rest) < 8 {
			return 0, ErrTooShort
		}
		v := binary.BigEndian.Uint64(rest[:8])
		rest = rest[8:]
		return v, nil
	}
	var err error
	if flags&0x01 != 0 {
		out.HasTotal = true
		if out.Total, err = take(); err != nil {
			return out, err
		}
	}
	if flags&0x02 != 0 {
		out.HasUplink = true
		if out.Uplink, err = take(); err != nil {
			return out, err
		}
	}
	if flags&0x04 != 0 {
		out.HasDownlink = true
		if out.Downlink, err = take(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// NewVolumeThreshold builds a Volume Threshold IE; any subset of the
// total/uplink/downlink octet counts may be present.
func NewVolumeThreshold(total, uplink, downlink *uint64) *IE {
	return newVolumeLeaf(VolumeThreshold, total, uplink, downlink)
}

func (i *IE) VolumeThresholdValue() (VolumeFields, error) { return i.volumeValue() }

// NewVolumeQuota builds a Volume Quota IE.
func NewVolumeQuota(total, uplink, downlink *uint64) *IE {
	return newVolumeLeaf(VolumeQuota, total, uplink, downlink)
}

func (i *IE) VolumeQuotaValue() (VolumeFields, error) { return i.volumeValue() }

// NewSubsequentVolumeThreshold builds a Subsequent Volume Threshold IE.
func NewSubsequentVolumeThreshold(total, uplink, downlink *uint64) *IE {
	return newVolumeLeaf(SubsequentVolumeThreshold, total, uplink, downlink)
}

func (i *IE) SubsequentVolumeThresholdValue() (VolumeFields, error) { return i.volumeValue() }

// NewSubsequentVolumeQuota builds a Subsequent Volume Quota IE.
func NewSubsequentVolumeQuota(total, uplink, downlink *uint64) *IE {
	return newVolumeLeaf(SubsequentVolumeQuota, total, uplink, downlink)
}

func (i *IE) SubsequentVolumeQuotaValue() (VolumeFields, error) { return i.volumeValue() }

// DroppedDLTrafficThreshold flag bits: DLPA (packet count present) and DLBY
// (byte count present), TS 29.244 §8.2.33.
const (
	DroppedDLPacketsPresent uint8 = 1 << iota
	DroppedDLBytesPresent
)

// NewDroppedDLTrafficThreshold builds a Dropped DL Traffic Threshold IE;
// packets and/or bytes may each be nil.
func NewDroppedDLTrafficThreshold(packets, bytes *uint64) *IE {
	var flags byte
	b := []byte{0}
	if packets != nil {
		flags |= DroppedDLPacketsPresent
		b = appendU64(b, *packets)
	}
	if bytes != nil {
		flags |= DroppedDLBytesPresent
		b = appendU64(b, *bytes)
	}
	b[0] = flags
	return NewLeaf(DroppedDLTrafficThreshold, b)
}

// DroppedDLTrafficThresholdValue decodes the packet/byte thresholds; a nil
// pointer in the returned pair means that count was absent.
func (i *IE) DroppedDLTrafficThresholdValue() (packets, bytes *uint64, err error) {
	if len(i.Payload) < 1 {
		return nil, nil, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	if flags&DroppedDLPacketsPresent != 0 {
		if len(rest) < 8 {
			return nil, nil, ErrTooShort
		}
		v := binary.BigEndian.Uint64(rest[:8])
		packets = &v
		rest = rest[8:]
	}
	if flags&DroppedDLBytesPresent != 0 {
		if len(rest) < 8 {
			return packets, nil, ErrTooShort
		}
		v := binary.BigEndian.Uint64(rest[:8])
		bytes = &v
	}
	return packets, bytes, nil
}

// NewTimeThreshold builds a Time Threshold IE (seconds of traffic time).
func NewTimeThreshold(seconds uint32) *IE { return newUint32Leaf(TimeThreshold, seconds) }

func (i *IE) TimeThresholdValue() (uint32, error) { return i.uint32Value() }

// NewTimeQuota builds a Time Quota IE.
func NewTimeQuota(seconds uint32) *IE { return newUint32Leaf(TimeQuota, seconds) }

func (i *IE) TimeQuotaValue() (uint32, error) { return i.uint32Value() }

// NewSubsequentTimeThreshold builds a Subsequent Time Threshold IE.
func NewSubsequentTimeThreshold(seconds uint32) *IE {
	return newUint32Leaf(SubsequentTimeThreshold, seconds)
}

func (i *IE) SubsequentTimeThresholdValue() (uint32, error) { return i.uint32Value() }

// NewSubsequentTimeQuota builds a Subsequent Time Quota IE.
func NewSubsequentTimeQuota(seconds uint32) *IE {
	return newUint32Leaf(SubsequentTimeQuota, seconds)
}

func (i *IE) SubsequentTimeQuotaValue() (uint32, error) { return i.uint32Value() }

// NewQuotaHoldingTime builds a Quota Holding Time IE.
func NewQuotaHoldingTime(seconds uint32) *IE { return newUint32Leaf(QuotaHoldingTime, seconds) }

func (i *IE) QuotaHoldingTimeValue() (uint32, error) { return i.uint32Value() }

// NewInactivityDetectionTime builds an Inactivity Detection Time IE.
func NewInactivityDetectionTime(seconds uint32) *IE {
	return newUint32Leaf(InactivityDetectionTime, seconds)
}

func (i *IE) InactivityDetectionTimeValue() (uint32, error) { return i.uint32Value() }

// NewMonitoringTime builds a Monitoring Time IE (NTP-epoch seconds).
func NewMonitoringTime(ntpSeconds uint32) *IE { return newUint32Leaf(MonitoringTime, ntpSeconds) }

func (i *IE) MonitoringTimeValue() (uint32, error) { return i.uint32Value() }

// NewStartTime builds a Start Time IE (NTP-epoch seconds).
func NewStartTime(ntpSeconds uint32) *IE { return newUint32Leaf(StartTime, ntpSeconds) }

func (i *IE) StartTimeValue() (uint32, error) { return i.uint32Value() }

// NewEndTime builds an End Time IE (NTP-epoch seconds).
func NewEndTime(ntpSeconds uint32) *IE { return newUint32Leaf(EndTime, ntpSeconds) }

func (i *IE) EndTimeValue() (uint32, error) { return i.uint32Value() }

// NewTimeOfFirstPacket builds a Time of First Packet IE (NTP-epoch seconds).
func NewTimeOfFirstPacket(ntpSeconds uint32) *IE {
	return newUint32Leaf(TimeOfFirstPacket, ntpSeconds)
}

func (i *IE) TimeOfFirstPacketValue() (uint32, error) { return i.uint32Value() }

// NewTimeOfLastPacket builds a Time of Last Packet IE (NTP-epoch seconds).
func NewTimeOfLastPacket(ntpSeconds uint32) *IE {
	return newUint32Leaf(TimeOfLastPacket, ntpSeconds)
}

func (i *IE) TimeOfLastPacketValue() (uint32, error) { return i.uint32Value() }

// NewEventTimeStamp builds an Event Time Stamp IE (NTP-epoch seconds).
func NewEventTimeStamp(ntpSeconds uint32) *IE { return newUint32Leaf(EventTimeStamp, ntpSeconds) }

func (i *IE) EventTimeStampValue() (uint32, error) { return i.uint32Value() }

// NewMeasurementPeriod builds a Measurement Period IE (seconds).
func NewMeasurementPeriod(seconds uint32) *IE { return newUint32Leaf(MeasurementPeriod, seconds) }

func (i *IE) MeasurementPeriodValue() (uint32, error) { return i.uint32Value() }

// MeasurementInformation flag bits (TS 29.244 §8.2.62).
const (
	MeasurementBeforeQoSEnforcement uint8 = 1 << iota
	MeasurementInactive
	MeasurementReducedReporting
)

// NewMeasurementInformation builds a Measurement Information IE.
func NewMeasurementInformation(flags uint8) *IE {
	return NewLeaf(MeasurementInformation, []byte{flags})
}

func (i *IE) MeasurementInformationValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewLinkedURRID builds a Linked URR ID IE.
func NewLinkedURRID(id uint32) *IE { return newUint32Leaf(LinkedURRID, id) }

func (i *IE) LinkedURRIDValue() (uint32, error) { return i.uint32Value() }

// NewAggregatedURRID builds an Aggregated URR ID IE.
func NewAggregatedURRID(id uint32) *IE { return newUint32Leaf(AggregatedURRID, id) }

func (i *IE) AggregatedURRIDValue() (uint32, error) { return i.uint32Value() }

// NewMultiplier builds a Multiplier IE: an 8-octet signed digits value and a
// 4-octet signed exponent, scaling an aggregated URR's contribution.
func NewMultiplier(valueDigits int64, exponent int32) *IE {
	b := make([]byte, 12)
	binary.BigEndian.PutUint64(b[:8], uint64(valueDigits))
	binary.BigEndian.PutUint32(b[8:], uint32(exponent))
	return NewLeaf(Multiplier, b)
}

func (i *IE) MultiplierValue() (valueDigits int64, exponent int32, err error) {
	if len(i.Payload) < 12 {
		return 0, 0, ErrTooShort
	}
	return int64(binary.BigEndian.Uint64(i.Payload[:8])), int32(binary.BigEndian.Uint32(i.Payload[8:12])), nil
}

// NewEventQuota builds an Event Quota IE.
func NewEventQuota(events uint32) *IE { return newUint32Leaf(EventQuota, events) }

func (i *IE) EventQuotaValue() (uint32, error) { return i.uint32Value() }

// NewEventThreshold builds an Event Threshold IE.
func NewEventThreshold(events uint32) *IE { return newUint32Leaf(EventThreshold, events) }

func (i *IE) EventThresholdValue() (uint32, error) { return i.uint32Value() }

// NewSubsequentEventQuota builds a Subsequent Event Quota IE.
func NewSubsequentEventQuota(events uint32) *IE {
	return newUint32Leaf(SubsequentEventQuota, events)
}

func (i *IE) SubsequentEventQuotaValue() (uint32, error) { return i.uint32Value() }

// NewSubsequentEventThreshold builds a Subsequent Event Threshold IE.
func NewSubsequentEventThreshold(events uint32) *IE {
	return newUint32Leaf(SubsequentEventThreshold, events)
}

func (i *IE) SubsequentEventThresholdValue() (uint32, error) { return i.uint32Value() }

// NewURSEQN builds a Usage Report Sequence Number IE.
func NewURSEQN(seq uint32) *IE { return newUint32Leaf(URSEQN, seq) }

func (i *IE) URSEQNValue() (uint32, error) { return i.uint32Value() }

// NewQueryURRReference builds a Query URR Reference IE, echoed in usage
// reports triggered by a Query URR so the CP function can correlate them.
func NewQueryURRReference(ref uint32) *IE { return newUint32Leaf(QueryURRReference, ref) }

func (i *IE) QueryURRReferenceValue() (uint32, error) { return i.uint32Value() }

// NewAdditionalUsageReportsInformation builds an Additional Usage Reports
// Information IE: the AURI flag in the top bit and a 15-bit count of usage
// reports still pending at the sender.
func NewAdditionalUsageReportsInformation(auri bool, nbr uint16) *IE {
	v := nbr & 0x7fff
	if auri {
		v |= 0x8000
	}
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return NewLeaf(AdditionalUsageReportsInfo, b)
}

func (i *IE) AdditionalUsageReportsInformationValue() (auri bool, nbr uint16, err error) {
	if len(i.Payload) < 2 {
		return false, 0, ErrTooShort
	}
	v := binary.BigEndian.Uint16(i.Payload)
	return v&0x8000 != 0, v & 0x7fff, nil
}

// UsageInformation flag bits (TS 29.244 §8.2.90).
const (
	UsageBeforeQoSEnforcement uint8 = 1 << iota
	UsageAfterQoSEnforcement
	UsageAfterEnvelopeClosure
	UsageBeforeEnvelopeClosure
)

// NewUsageInformation builds a Usage Information IE.
func NewUsageInformation(flags uint8) *IE {
	return NewLeaf(UsageInformation, []byte{flags})
}

func (i *IE) UsageInformationValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewTimeQuotaMechanism builds a Time Quota Mechanism IE: the 2-bit base
// time interval type (CTP/DTP) and the interval length in seconds.
func NewTimeQuotaMechanism(btit uint8, baseIntervalSec uint32) *IE {
	b := make([]byte, 5)
	b[0] = btit & 0x03
	binary.BigEndian.PutUint32(b[1:], baseIntervalSec)
	return NewLeaf(TimeQuotaMechanism, b)
}

func (i *IE) TimeQuotaMechanismValue() (btit uint8, baseIntervalSec uint32, err error) {
	if len(i.Payload) < 5 {
		return 0, 0, ErrTooShort
	}
	return i.Payload[0] & 0x03, binary.BigEndian.Uint32(i.Payload[1:5]), nil
}

// NewUserPlaneInactivityTimer builds a User Plane Inactivity Timer IE
// (seconds; 0 disables inactivity detection).
func NewUserPlaneInactivityTimer(seconds uint32) *IE {
	return newUint32Leaf(UserPlaneInactivityTimer, seconds)
}

func (i *IE) UserPlaneInactivityTimerValue() (uint32, error) { return i.uint32Value() }
