package ie

import "encoding/binary"

// NewQERCorrelationID builds a QER Correlation ID IE, linking QERs across
// sessions that share an APN-AMBR budget.
func NewQERCorrelationID(id uint32) *IE { return newUint32Leaf(QERCorrelationID, id) }

func (i *IE) QERCorrelationIDValue() (uint32, error) { return i.uint32Value() }

// PacketRateFields is the decoded form of a Packet Rate IE. A nil direction
// means that direction's rate was absent.
type PacketRateFields struct {
	Uplink   *PacketRateLimit
	Downlink *PacketRateLimit
}

// PacketRateLimit is one direction's rate cap: a Timer-style unit code
// (0=minute, 1=6min, 2=hour, 3=day, 4=week) and the packet budget per unit.
type PacketRateLimit struct {
	Unit       uint8
	MaxPackets uint16
}

// NewPacketRate builds a Packet Rate IE; either direction may be nil.
func NewPacketRate(uplink, downlink *PacketRateLimit) *IE {
	var flags byte
	b := []byte{0}
	if uplink != nil {
		flags |= 0x01
		b = append(b, uplink.Unit&0x07, byte(uplink.MaxPackets>>8), byte(uplink.MaxPackets))
	}
	if downlink != nil {
		flags |= 0x02
		b = append(b, downlink.Unit&0x07, byte(downlink.MaxPackets>>8), byte(downlink.MaxPackets))
	}
	b[0] = flags
	return NewLeaf(PacketRate, b)
}

func (i *IE) PacketRateValue() (PacketRateFields, error) {
	var out PacketRateFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	take := func() (*PacketRateLimit, error) {
		if len(rest) < 3 {
			return nil, ErrTooShort
		}
		l := &PacketRateLimit{
			Unit:       rest[0] & 0x07,
			MaxPackets: binary.BigEndian.Uint16(rest[1:3]),
		}
		rest = rest[3:]
		return l, nil
	}
	var err error
	if flags&0x01 != 0 {
		if out.Uplink, err = take(); err != nil {
			return out, err
		}
	}
	if flags&0x02 != 0 {
		if out.Downlink, err = take(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// DLFlowLevelMarkingFields is the decoded form of a DL Flow Level Marking
// IE: the ToS/Traffic Class to stamp on downlink flows and/or the service
// class indicator, each optional.
type DLFlowLevelMarkingFields struct {
	HasTosTrafficClass     bool
	TosTrafficClass        uint16
	HasServiceClassIndicator bool
	ServiceClassIndicator  uint16
}

// NewDLFlowLevelMarking builds a DL Flow Level Marking IE; either field may
// be nil.
func NewDLFlowLevelMarking(tosTrafficClass, serviceClassIndicator *uint16) *IE {
	var flags byte
	b := []byte{0}
	if tosTrafficClass != nil {
		flags |= 0x01
		b = append(b, byte(*tosTrafficClass>>8), byte(*tosTrafficClass))
	}
	if serviceClassIndicator != nil {
		flags |= 0x02
		b = append(b, byte(*serviceClassIndicator>>8), byte(*serviceClassIndicator))
	}
	b[0] = flags
	return NewLeaf(DLFlowLevelMarking, b)
}

func (i *IE) DLFlowLevelMarkingValue() (DLFlowLevelMarkingFields, error) {
	var out DLFlowLevelMarkingFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	if flags&0x01 != 0 {
		if len(rest) < 2 {
			return out, ErrTooShort
		}
		out.HasTosTrafficClass = true
		out.TosTrafficClass = binary.BigEndian.Uint16(rest[:2])
		rest = rest[2:]
	}
	if flags&0x02 != 0 {
		if len(rest) < 2 {
			return out, ErrTooShort
		}
		out.HasServiceClassIndicator = true
		out.ServiceClassIndicator = binary.BigEndian.Uint16(rest[:2])
	}
	return out, nil
}

// NewRQI builds a Reflective QoS Indication IE.
func NewRQI(on bool) *IE {
	var v byte
	if on {
		v = 1
	}
	return NewLeaf(RQI, []byte{v})
}

func (i *IE) RQIValue() (bool, error) {
	if len(i.Payload) < 1 {
		return false, ErrTooShort
	}
	return i.Payload[0]&0x01 != 0, nil
}

// NewPagingPolicyIndicator builds a Paging Policy Indicator IE (3-bit value).
func NewPagingPolicyIndicator(ppi uint8) *IE {
	return NewLeaf(PagingPolicyIndicator, []byte{ppi & 0x07})
}

func (i *IE) PagingPolicyIndicatorValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0] & 0x07, nil
}

// NewAveragingWindow builds an Averaging Window IE (milliseconds over which
// GFBR/MFBR compliance is measured).
func NewAveragingWindow(millis uint32) *IE { return newUint32Leaf(AveragingWindow, millis) }

func (i *IE) AveragingWindowValue() (uint32, error) { return i.uint32Value() }
