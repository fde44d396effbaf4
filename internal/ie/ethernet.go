package ie

import (
	"encoding/binary"
	"net"
)

// MAC Address flag bits (TS 29.244 §8.2.93).
const (
	MACSourcePresent           uint8 = 1 << iota // SOUR
	MACDestinationPresent                        // DEST
	MACUpperSourcePresent                        // USOU
	MACUpperDestinationPresent                   // UDES
)

// MACAddressFields is the decoded form of a MAC Address IE; nil slices mean
// the corresponding address was absent.
type MACAddressFields struct {
	Source           net.HardwareAddr
	Destination      net.HardwareAddr
	UpperSource      net.HardwareAddr
	UpperDestination net.HardwareAddr
}

// NewMACAddress builds a MAC Address IE; any subset of the four addresses
// may be supplied.
func NewMACAddress(f MACAddressFields) *IE {
	var flags byte
	b := []byte{0}
	add := func(bit uint8, a net.HardwareAddr) {
		if len(a) == 6 {
			flags |= bit
			b = append(b, a...)
		}
	}
	add(MACSourcePresent, f.Source)
	add(MACDestinationPresent, f.Destination)
	add(MACUpperSourcePresent, f.UpperSource)
	add(MACUpperDestinationPresent, f.UpperDestination)
	b[0] = flags
	return NewLeaf(MACAddress, b)
}

func (i *IE) MACAddressValue() (MACAddressFields, error) {
	var out MACAddressFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	take := func() (net.HardwareAddr, error) {
		if len(rest) < 6 {
			return nil, ErrTooShort
		}
		a := append(net.HardwareAddr(nil), rest[:6]...)
		rest = rest[6:]
		return a, nil
	}
	var err error
	if flags&MACSourcePresent != 0 {
		if out.Source, err = take(); err != nil {
			return out, err
		}
	}
	if flags&MACDestinationPresent != 0 {
		if out.Destination, err = take(); err != nil {
			return out, err
		}
	}
	if flags&MACUpperSourcePresent != 0 {
		if out.UpperSource, err = take(); err != nil {
			return out, err
		}
	}
	if flags&MACUpperDestinationPresent != 0 {
		if out.UpperDestination, err = take(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// VLANTagFields is the decoded form of a C-Tag or S-Tag IE: the PCP/DEI/VID
// fields of an 802.1Q tag, each with its own significance flag.
type VLANTagFields struct {
	HasPCP bool
	PCP    uint8
	HasDEI bool
	DEI    bool
	HasVID bool
	VID    uint16
}

func newVLANTagLeaf(t Type, f VLANTagFields) *IE {
	var flags byte
	if f.HasPCP {
		flags |= 0x01
	}
	if f.HasDEI {
		flags |= 0x02
	}
	if f.HasVID {
		flags |= 0x04
	}
	var dei byte
	if f.DEI {
		dei = 1
	}
	// Octet layout follows 802.1Q: VID split across the two value octets
	// with PCP and DEI packed beside the high nibble.
	b := []byte{
		flags,
		byte(f.VID>>8)&0x0f | dei<<4 | (f.PCP&0x07)<<5,
		byte(f.VID),
	}
	return NewLeaf(t, b)
}

func (i *IE) vlanTagValue() (VLANTagFields, error) {
	var out VLANTagFields
	if len(i.Payload) < 3 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	out.HasPCP = flags&0x01 != 0
	out.HasDEI = flags&0x02 != 0
	out.HasVID = flags&0x04 != 0
	out.PCP = i.Payload[1] >> 5 & 0x07
	out.DEI = i.Payload[1]>>4&0x01 != 0
	out.VID = uint16(i.Payload[1]&0x0f)<<8 | uint16(i.Payload[2])
	return out, nil
}

// NewCTag builds a C-Tag (customer VLAN tag) IE.
func NewCTag(f VLANTagFields) *IE { return newVLANTagLeaf(CTag, f) }

func (i *IE) CTagValue() (VLANTagFields, error) { return i.vlanTagValue() }

// NewSTag builds an S-Tag (service VLAN tag) IE.
func NewSTag(f VLANTagFields) *IE { return newVLANTagLeaf(STag, f) }

func (i *IE) STagValue() (VLANTagFields, error) { return i.vlanTagValue() }

// NewEthertype builds an Ethertype IE.
func NewEthertype(v uint16) *IE {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return NewLeaf(Ethertype, b)
}

func (i *IE) EthertypeValue() (uint16, error) {
	if len(i.Payload) < 2 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint16(i.Payload), nil
}

// Ethernet PDU Session Information flag bits.
const (
	EthernetIndication uint8 = 1 << iota // ETHI: session carries Ethernet PDUs
)

// NewEthernetPDUSessionInformation builds an Ethernet PDU Session
// Information IE.
func NewEthernetPDUSessionInformation(flags uint8) *IE {
	return NewLeaf(EthernetPDUSessionInfo, []byte{flags})
}

func (i *IE) EthernetPDUSessionInformationValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewEthernetFilterID builds an Ethernet Filter ID IE.
func NewEthernetFilterID(id uint32) *IE { return newUint32Leaf(EthernetFilterID, id) }

func (i *IE) EthernetFilterIDValue() (uint32, error) { return i.uint32Value() }

// Ethernet Filter Properties flag bits.
const (
	EthernetFilterBidirectional uint8 = 1 << iota // BIDE
)

// NewEthernetFilterProperties builds an Ethernet Filter Properties IE.
func NewEthernetFilterProperties(flags uint8) *IE {
	return NewLeaf(EthernetFilterProperties, []byte{flags})
}

func (i *IE) EthernetFilterPropertiesValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewEthernetInactivityTimer builds an Ethernet Inactivity Timer IE
// (seconds).
func NewEthernetInactivityTimer(seconds uint32) *IE {
	return newUint32Leaf(EthernetInactivityTimer, seconds)
}

func (i *IE) EthernetInactivityTimerValue() (uint32, error) { return i.uint32Value() }
