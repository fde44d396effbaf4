package ie

import (
	"encoding/binary"
	"fmt"
	"net"
)

// NewCause builds a Cause IE.
func NewCause(c CauseValue) *IE {
	return NewLeaf(Cause, []byte{byte(c)})
}

// CauseValue decodes a Cause IE's result code.
func (i *IE) CauseValue() (CauseValue, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return CauseValue(i.Payload[0]), nil
}

// NewRecoveryTimeStamp builds a Recovery Time Stamp IE from NTP-epoch
// seconds (seconds since 1900-01-01, per TS 29.244 §8.2.28).
func NewRecoveryTimeStamp(ntpSeconds uint32) *IE {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, ntpSeconds)
	return NewLeaf(RecoveryTimeStamp, b)
}

func (i *IE) RecoveryTimeStampValue() (uint32, error) {
	if len(i.Payload) < 4 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint32(i.Payload), nil
}

// NewNodeIDIPv4 builds a NodeID IE carrying an IPv4 address.
func NewNodeIDIPv4(addr net.IP) *IE {
	v4 := addr.To4()
	b := make([]byte, 1+len(v4))
	b[0] = byte(NodeIDIPv4)
	copy(b[1:], v4)
	return NewLeaf(NodeID, b)
}

// NewNodeIDIPv6 builds a NodeID IE carrying an IPv6 address.
func NewNodeIDIPv6(addr net.IP) *IE {
	v6 := addr.To16()
	b := make([]byte, 1+len(v6))
	b[0] = byte(NodeIDIPv6)
	copy(b[1:], v6)
	return NewLeaf(NodeID, b)
}

// NewNodeIDFQDN builds a NodeID IE carrying an FQDN, encoded as raw octets
// per TS 29.244 (no length-prefixed labels, unlike DNS wire format).
func NewNodeIDFQDN(fqdn string) *IE {
	b := make([]byte, 1+len(fqdn))
	b[0] = byte(NodeIDFQDN)
	copy(b[1:], fqdn)
	return NewLeaf(NodeID, b)
}

// NodeIDValue decodes a NodeID IE's type tag and textual representation.
func (i *IE) NodeIDValue() (NodeIDType, string, error) {
	if len(i.Payload) < 1 {
		return 0, "", ErrTooShort
	}
	nt := NodeIDType(i.Payload[0] & 0x0f)
	rest := i.Payload[1:]
	switch nt {
	case NodeIDIPv4:
		if len(rest) < 4 {
			return 0, "", ErrTooShort
		}
		return nt, net.IP(rest[:4]).String(), nil
	case NodeIDIPv6:
		if len(rest) < 16 {
			return 0, "", ErrTooShort
		}
		return nt, net.IP(rest[:16]).String(), nil
	case NodeIDFQDN:
		return nt, string(rest), nil
	default:
		return nt, "", fmt.Errorf("ie: unknown NodeID type %d", nt)
	}
}

// FSEIDFields is the decoded form of an F-SEID IE.
type FSEIDFields struct {
	SEID uint64
	IPv4 net.IP
	IPv6 net.IP
}

// NewFSEID builds an F-SEID IE. Either ipv4, ipv6, or both may be supplied;
// at least one must be non-nil per TS 29.244 §8.2.37.
func NewFSEID(seid uint64, ipv4, ipv6 net.IP) *IE {
	var flags byte
	if ipv4 != nil {
		flags |= 0x02
	}
	if ipv6 != nil {
		flags |= 0x01
	}
	b := make([]byte, 0, 1+8+16)
	b = append(b, flags)
	seidBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(seidBuf, seid)
	b = append(b, seidBuf...)
	if ipv4 != nil {
		b = append(b, ipv4.To4()...)
	}
	if ipv6 != nil {
		b = append(b, ipv6.To16()...)
	}
	return NewLeaf(FSEID, b)
}

// FSEIDValue decodes an F-SEID IE.
func (i *IE) FSEIDValue() (FSEIDFields, error) {
	var out FSEIDFields
	if len(i.Payload) < 9 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	out.SEID = binary.BigEndian.Uint64(i.Payload[1:9])
	rest := i.Payload[9:]
	if flags&0x02 != 0 {
		if len(rest) < 4 {
			return out, ErrTooShort
		}
		out.IPv4 = net.IP(append([]byte(nil), rest[:4]...))
		rest = rest[4:]
	}
	if flags&0x01 != 0 {
		if len(rest) < 16 {
			return out, ErrTooShort
		}
		out.IPv6 = net.IP(append([]byte(nil), rest[:16]...))
	}
	return out, nil
}

// FTEIDFields is the decoded form of an F-TEID IE. Choose is true when the
// CP function is requesting the UP function to allocate a TEID (the Ch
// flag), in which case TEID/IPv4/IPv6 are meaningless on the wire and
// ChooseID carries the correlation value instead.
type FTEIDFields struct {
	Choose   bool
	ChooseID uint8
	TEID     uint32
	IPv4     net.IP
	IPv6     net.IP
}

// NewFTEID builds an F-TEID IE for an already-allocated TEID/address pair.
func NewFTEID(teid uint32, ipv4, ipv6 net.IP) *IE {
	var flags FTEIDFlags
	if ipv4 != nil {
		flags |= FTEIDV4
	}
	if ipv6 != nil {
		flags |= FTEIDV6
	}
	b := make([]byte, 0, 1+4+16)
	b = append(b, byte(flags))
	teidBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(teidBuf, teid)
	b = append(b, teidBuf...)
	if ipv4 != nil {
		b = append(b, ipv4.To4()...)
	}
	if ipv6 != nil {
		b = append(b, ipv6.To16()...)
	}
	return NewLeaf(FTEID, b)
}

// NewFTEIDChoose builds an F-TEID IE requesting the peer allocate the TEID
// (CHOOSE semantics, TS 29.244 §8.2.3).
func NewFTEIDChoose(chooseID uint8, wantV4, wantV6 bool) *IE {
	flags := FTEIDCh
	if wantV4 {
		flags |= FTEIDV4
	}
	if wantV6 {
		flags |= FTEIDV6
	}
	var b []byte
	if chooseID != 0 {
		flags |= FTEIDChID
		b = []byte{byte(flags), chooseID}
	} else {
		b = []byte{byte(flags)}
	}
	return NewLeaf(FTEID, b)
}

// FTEIDValue decodes an F-TEID IE.
func (i *IE) FTEIDValue() (FTEIDFields, error) {
	var out FTEIDFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := FTEIDFlags(i.Payload[0])
	rest := i.Payload[1:]
	out.Choose = flags&FTEIDCh != 0
	if out.Choose {
		if flags&FTEIDChID != 0 {
			if len(rest) < 1 {
				return out, ErrTooShort
			}
			out.ChooseID = rest[0]
		}
		return out, nil
	}
	if len(rest) < 4 {
		return out, ErrTooShort
	}
	out.TEID = binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if flags&FTEIDV4 != 0 {
		if len(rest) < 4 {
			return out, ErrTooShort
		}
		out.IPv4 = net.IP(append([]byte(nil), rest[:4]...))
		rest = rest[4:]
	}
	if flags&FTEIDV6 != 0 {
		if len(rest) < 16 {
			return out, ErrTooShort
		}
		out.IPv6 = net.IP(append([]byte(nil), rest[:16]...))
	}
	return out, nil
}

// UEIPAddressFields is the decoded form of a UE IP Address IE.
type UEIPAddressFields struct {
	IsDestination bool
	IPv4          net.IP
	IPv6          net.IP
}

// NewUEIPAddress builds a UE IP Address IE. isDestination=true marks the
// address as the destination (S/D flag) rather than the source.
func NewUEIPAddress(ipv4, ipv6 net.IP, isDestination bool) *IE {
	var flags UEIPAddressFlags
	if ipv4 != nil {
		flags |= UEIPAddressV4
	}
	if ipv6 != nil {
		flags |= UEIPAddressV6
	}
	if isDestination {
		flags |= UEIPAddressSD
	}
	b := []byte{byte(flags)}
	if ipv4 != nil {
		b = append(b, ipv4.To4()...)
	}
	if ipv6 != nil {
		b = append(b, ipv6.To16()...)
	}
	return NewLeaf(UEIPAddress, b)
}

// UEIPAddressValue decodes a UE IP Address IE.
func (i *IE) UEIPAddressValue() (UEIPAddressFields, error) {
	var out UEIPAddressFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := UEIPAddressFlags(i.Payload[0])
	rest := i.Payload[1:]
	out.IsDestination = flags&UEIPAddressSD != 0
	if flags&UEIPAddressV4 != 0 {
		if len(rest) < 4 {
			return out, ErrTooShort
		}
		out.IPv4 = net.IP(append([]byte(nil), rest[:4]...))
		rest = rest[4:]
	}
	if flags&UEIPAddressV6 != 0 {
		if len(rest) < 16 {
			return out, ErrTooShort
		}
		out.IPv6 = net.IP(append([]byte(nil), rest[:16]...))
	}
	return out, nil
}

// NewUPFunctionFeatures builds a UP Function Features IE from its raw
// 16-bit supported-features bitmask (TS 29.244 §8.2.25 table).
func NewUPFunctionFeatures(bits uint16) *IE {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, bits)
	return NewLeaf(UPFunctionFeatures, b)
}

func (i *IE) UPFunctionFeaturesValue() (uint16, error) {
	if len(i.Payload) < 2 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint16(i.Payload), nil
}

// NewCPFunctionFeatures builds a CP Function Features IE from its raw
// 8-bit supported-features bitmask.
func NewCPFunctionFeatures(bits uint8) *IE {
	return NewLeaf(CPFunctionFeatures, []byte{bits})
}

func (i *IE) CPFunctionFeaturesValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// UserPlaneIPResourceInfoFields is the decoded form of a User Plane IP
// Resource Information IE.
type UserPlaneIPResourceInfoFields struct {
	TEIDRange     uint8
	TEIDRangeBits uint8
	IPv4          net.IP
	IPv6          net.IP
	NetworkInst   string
	SourceIface   *ThreeGPPInterfaceTypeValue
}

// NewUserPlaneIPResourceInfo builds a User Plane IP Resource Information IE.
// teidRangeBits is 0 when the UPF does not partition TEID space by range.
func NewUserPlaneIPResourceInfo(teidRangeBits, teidRange uint8, ipv4, ipv6 net.IP, networkInstance string) *IE {
	var flags byte
	if teidRangeBits > 0 {
		flags |= 0x01 // ASSORI/TEIDRI presence, bits 1-3 hold the width below
		flags |= (teidRangeBits & 0x07) << 1
	}
	if ipv4 != nil {
		flags |= 0x10
	}
	if ipv6 != nil {
		flags |= 0x40
	}
	if networkInstance != "" {
		flags |= 0x20
	}
	b := []byte{flags}
	if teidRangeBits > 0 {
		b = append(b, teidRange)
	}
	if ipv4 != nil {
		b = append(b, ipv4.To4()...)
	}
	if ipv6 != nil {
		b = append(b, ipv6.To16()...)
	}
	if networkInstance != "" {
		b = append(b, []byte(networkInstance)...)
	}
	return NewLeaf(UserPlaneIPResourceInfo, b)
}

// UserPlaneIPResourceInfoValue decodes a User Plane IP Resource Information
// IE.
func (i *IE) UserPlaneIPResourceInfoValue() (UserPlaneIPResourceInfoFields, error) {
	var out UserPlaneIPResourceInfoFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	hasRange := flags&0x01 != 0
	hasV4 := flags&0x10 != 0
	hasV6 := flags&0x40 != 0
	hasNI := flags&0x20 != 0
	if hasRange {
		out.TEIDRangeBits = (flags >> 1) & 0x07
		if len(rest) < 1 {
			return out, ErrTooShort
		}
		out.TEIDRange = rest[0]
		rest = rest[1:]
	}
	if hasV4 {
		if len(rest) < 4 {
			return out, ErrTooShort
		}
		out.IPv4 = net.IP(append([]byte(nil), rest[:4]...))
		rest = rest[4:]
	}
	if hasV6 {
		if len(rest) < 16 {
			return out, ErrTooShort
		}
		out.IPv6 = net.IP(append([]byte(nil), rest[:16]...))
		rest = rest[16:]
	}
	if hasNI {
		out.NetworkInst = string(rest)
	}
	return out, nil
}

// NewFARID builds a FAR ID IE.
func NewFARID(id uint32) *IE {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, id)
	return NewLeaf(FARID, b)
}

func (i *IE) FARIDValue() (uint32, error) {
	if len(i.Payload) < 4 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint32(i.Payload), nil
}

// NewQERID builds a QER ID IE.
func NewQERID(id uint32) *IE {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, id)
	return NewLeaf(QERID, b)
}

func (i *IE) QERIDValue() (uint32, error) {
	if len(i.Payload) < 4 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint32(i.Payload), nil
}

// NewURRID builds a URR ID IE.
func NewURRID(id uint32) *IE {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, id)
	return NewLeaf(URRID, b)
}

func (i *IE) URRIDValue() (uint32, error) {
	if len(i.Payload) < 4 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint32(i.Payload), nil
}

// NewBARID builds a BAR ID IE.
func NewBARID(id uint8) *IE {
	return NewLeaf(BARID, []byte{id})
}

func (i *IE) BARIDValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewPDRID builds a PDR ID IE.
func NewPDRID(id uint16) *IE {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, id)
	return NewLeaf(PDRID, b)
}

func (i *IE) PDRIDValue() (uint16, error) {
	if len(i.Payload) < 2 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint16(i.Payload), nil
}

// NewPrecedence builds a Precedence IE.
func NewPrecedence(v uint32) *IE {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return NewLeaf(Precedence, b)
}

func (i *IE) PrecedenceValue() (uint32, error) {
	if len(i.Payload) < 4 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint32(i.Payload), nil
}

// NewSourceInterface builds a Source Interface IE.
func NewSourceInterface(v SourceInterfaceValue) *IE {
	return NewLeaf(SourceInterface, []byte{byte(v) & 0x0f})
}

func (i *IE) SourceInterfaceValue() (SourceInterfaceValue, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return SourceInterfaceValue(i.Payload[0] & 0x0f), nil
}

// NewDestinationInterface builds a Destination Interface IE.
func NewDestinationInterface(v DestinationInterfaceValue) *IE {
	return NewLeaf(DestinationInterface, []byte{byte(v) & 0x0f})
}

func (i *IE) DestinationInterfaceValue() (DestinationInterfaceValue, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return DestinationInterfaceValue(i.Payload[0] & 0x0f), nil
}

// NewApplyAction builds an Apply Action IE from its flag bitmask.
func NewApplyAction(flags ApplyActionFlags) *IE {
	return NewLeaf(ApplyAction, []byte{byte(flags)})
}

func (i *IE) ApplyActionValue() (ApplyActionFlags, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return ApplyActionFlags(i.Payload[0]), nil
}

// NewGateStatus builds a Gate Status IE. UL/DL each occupy two bits; bit
// layout per TS 29.244 §8.2.14: bits 1-2 UL, bits 3-4 DL.
func NewGateStatus(ul, dl GateStatusValue) *IE {
	return NewLeaf(GateStatus, []byte{byte(ul) | byte(dl)<<2})
}

func (i *IE) GateStatusValue() (ul, dl GateStatusValue, err error) {
	if len(i.Payload) < 1 {
		return 0, 0, ErrTooShort
	}
	b := i.Payload[0]
	return GateStatusValue(b & 0x03), GateStatusValue((b >> 2) & 0x03), nil
}

// NewMBR builds an MBR (Maximum Bitrate) IE, both rates in kbps as 5-octet
// big-endian values per TS 29.244 §8.2.15.
func NewMBR(uplinkKbps, downlinkKbps uint64) *IE {
	b := make([]byte, 10)
	put40(b[0:5], uplinkKbps)
	put40(b[5:10], downlinkKbps)
	return NewLeaf(MBR, b)
}

func (i *IE) MBRValue() (uplinkKbps, downlinkKbps uint64, err error) {
	if len(i.Payload) < 10 {
		return 0, 0, ErrTooShort
	}
	return get40(i.Payload[0:5]), get40(i.Payload[5:10]), nil
}

// NewGBR builds a GBR (Guaranteed Bitrate) IE, same layout as MBR.
func NewGBR(uplinkKbps, downlinkKbps uint64) *IE {
	b := make([]byte, 10)
	put40(b[0:5], uplinkKbps)
	put40(b[5:10], downlinkKbps)
	return NewLeaf(GBR, b)
}

func (i *IE) GBRValue() (uplinkKbps, downlinkKbps uint64, err error) {
	if len(i.Payload) < 10 {
		return 0, 0, ErrTooShort
	}
	return get40(i.Payload[0:5]), get40(i.Payload[5:10]), nil
}

func put40(b []byte, v uint64) {
	b[0] = byte(v >> 32)
	b[1] = byte(v >> 24)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 8)
	b[4] = byte(v)
}

func get40(b []byte) uint64 {
	return uint64(b[0])<<32 | uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])
}

// NewQFI builds a QoS Flow Identifier IE.
func NewQFI(qfi uint8) *IE {
	return NewLeaf(QFI, []byte{qfi & 0x3f})
}

func (i *IE) QFIValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0] & 0x3f, nil
}

// OuterHeaderCreationFields is the decoded form of an Outer Header Creation
// IE. Only the GTP-U/UDP/IPv4/IPv6 description bits are modeled; the
// N19/N6 and stacked-L2TP variants are user-plane concerns this control
// engine never produces.
type OuterHeaderCreationFields struct {
	GTPUIPv4 bool
	GTPUIPv6 bool
	TEID     uint32
	IPv4     net.IP
	IPv6     net.IP
	Port     uint16
}

// NewOuterHeaderCreation builds a GTP-U Outer Header Creation IE.
func NewOuterHeaderCreation(teid uint32, ipv4, ipv6 net.IP) *IE {
	var desc uint16
	if ipv4 != nil {
		desc |= 0x0100
	}
	if ipv6 != nil {
		desc |= 0x0200
	}
	b := make([]byte, 2, 2+4+4+16)
	binary.BigEndian.PutUint16(b, desc)
	teidBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(teidBuf, teid)
	b = append(b, teidBuf...)
	if ipv4 != nil {
		b = append(b, ipv4.To4()...)
	}
	if ipv6 != nil {
		b = append(b, ipv6.To16()...)
	}
	return NewLeaf(OuterHeaderCreation, b)
}

// OuterHeaderCreationValue decodes a GTP-U Outer Header Creation IE.
func (i *IE) OuterHeaderCreationValue() (OuterHeaderCreationFields, error) {
	var out OuterHeaderCreationFields
	if len(i.Payload) < 2 {
		return out, ErrTooShort
	}
	desc := binary.BigEndian.Uint16(i.Payload[0:2])
	out.GTPUIPv4 = desc&0x0100 != 0
	out.GTPUIPv6 = desc&0x0200 != 0
	rest := i.Payload[2:]
	if len(rest) >= 4 {
		out.TEID = binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
	}
	if out.GTPUIPv4 && len(rest) >= 4 {
		out.IPv4 = net.IP(append([]byte(nil), rest[:4]...))
		rest = rest[4:]
	}
	if out.GTPUIPv6 && len(rest) >= 16 {
		out.IPv6 = net.IP(append([]byte(nil), rest[:16]...))
	}
	return out, nil
}

// NewOuterHeaderRemoval builds an Outer Header Removal IE. desc follows the
// TS 29.244 table 8.2.34-1 description-of-header-to-remove enum (0 =
// GTP-U/UDP/IPv4, 1 = GTP-U/UDP/IPv6, 2 = UDP/IPv4, 3 = UDP/IPv6, ...).
func NewOuterHeaderRemoval(desc uint8) *IE {
	return NewLeaf(OuterHeaderRemoval, []byte{desc})
}

func (i *IE) OuterHeaderRemovalValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewOffendingIE builds an Offending IE, carrying the type number of the IE
// that triggered a Mandatory/Conditional-IE-missing or -Incorrect cause.
func NewOffendingIE(t Type) *IE {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(t))
	return NewLeaf(OffendingIE, b)
}

func (i *IE) OffendingIEValue() (Type, error) {
	if len(i.Payload) < 2 {
		return 0, ErrTooShort
	}
	return Type(binary.BigEndian.Uint16(i.Payload)), nil
}

// NewReportType builds a Report Type IE from its flag bitmask (DLDR, USAR,
// ERIR, UPIR bits per TS 29.244 §8.2.39).
func NewReportType(flags uint8) *IE {
	return NewLeaf(ReportType, []byte{flags})
}

func (i *IE) ReportTypeValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewTimer builds a Timer IE from a unit and a 5-bit value.
func NewTimer(unit TimerUnit, value uint8) *IE {
	return NewLeaf(Timer, []byte{byte(unit)<<5 | value&0x1f})
}

func (i *IE) TimerValue() (TimerUnit, uint8, error) {
	if len(i.Payload) < 1 {
		return 0, 0, ErrTooShort
	}
	b := i.Payload[0]
	return TimerUnit(b >> 5), b & 0x1f, nil
}

// NewFQCSID builds an F-QCSID IE carrying one or more PDN Connection Set
// Identifiers associated with a single node address.
func NewFQCSID(nodeIPv4 net.IP, csids []uint16) *IE {
	b := []byte{0x10 | byte(len(csids)&0x0f)} // node-ID type 1 = IPv4 in high nibble
	b = append(b, nodeIPv4.To4()...)
	for _, c := range csids {
		cb := make([]byte, 2)
		binary.BigEndian.PutUint16(cb, c)
		b = append(b, cb...)
	}
	return NewLeaf(FQCSID, b)
}

// FQCSIDValue decodes an F-QCSID IE's node address and CSID list. Only the
// IPv4 node-ID encoding is produced by this engine; IPv6 and MCC/MNC node
// IDs still decode, with the raw address bytes returned as-is.
func (i *IE) FQCSIDValue() (nodeAddr []byte, csids []uint16, err error) {
	if len(i.Payload) < 1 {
		return nil, nil, ErrTooShort
	}
	nodeType := i.Payload[0] >> 4
	count := int(i.Payload[0] & 0x0f)
	addrLen := 4
	switch nodeType {
	case 1:
		addrLen = 4
	case 2:
		addrLen = 16
	}
	rest := i.Payload[1:]
	if len(rest) < addrLen+2*count {
		return nil, nil, ErrTooShort
	}
	nodeAddr = append([]byte(nil), rest[:addrLen]...)
	rest = rest[addrLen:]
	for k := 0; k < count; k++ {
		csids = append(csids, binary.BigEndian.Uint16(rest[2*k:2*k+2]))
	}
	return nodeAddr, csids, nil
}

// UserIDFields is the decoded form of a User ID IE; empty strings mean the
// subfield was absent.
type UserIDFields struct {
	IMSI   string
	IMEI   string
	MSISDN string
	NAI    string
}

// NewUserID builds a User ID IE carrying any subset of IMSI, IMEI, MSISDN,
// and NAI, each length-prefixed in that order.
func NewUserID(f UserIDFields) *IE {
	var flags byte
	b := []byte{0}
	add := func(bit UserIDFlags, v string) {
		if v != "" {
			flags |= byte(bit)
			b = append(b, byte(len(v)))
			b = append(b, v...)
		}
	}
	add(UserIDIMSI, f.IMSI)
	add(UserIDIMEI, f.IMEI)
	add(UserIDMSISDN, f.MSISDN)
	add(UserIDNAI, f.NAI)
	b[0] = flags
	return NewLeaf(UserID, b)
}

// NewUserIDIMSI builds a User ID IE carrying just an IMSI.
func NewUserIDIMSI(imsi string) *IE {
	return NewUserID(UserIDFields{IMSI: imsi})
}

// UserIDValue decodes a User ID IE's present subfields.
func (i *IE) UserIDValue() (UserIDFields, error) {
	var out UserIDFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := UserIDFlags(i.Payload[0])
	rest := i.Payload[1:]
	take := func() (string, error) {
		if len(rest) < 1 {
			return "", ErrTooShort
		}
		n := int(rest[0])
		if len(rest) < 1+n {
			return "", ErrTooShort
		}
		v := string(rest[1 : 1+n])
		rest = rest[1+n:]
		return v, nil
	}
	var err error
	if flags&UserIDIMSI != 0 {
		if out.IMSI, err = take(); err != nil {
			return out, err
		}
	}
	if flags&UserIDIMEI != 0 {
		if out.IMEI, err = take(); err != nil {
			return out, err
		}
	}
	if flags&UserIDMSISDN != 0 {
		if out.MSISDN, err = take(); err != nil {
			return out, err
		}
	}
	if flags&UserIDNAI != 0 {
		if out.NAI, err = take(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// TraceInformationFields is the decoded form of a Trace Information IE.
type TraceInformationFields struct {
	MCCMNC            [3]byte // BCD-packed mobile country + network code
	TraceID           [3]byte
	TriggeringEvents  []byte
	SessionTraceDepth uint8
	InterfaceList     []byte
	CollectionIP      net.IP
}

// NewTraceInformation builds a Trace Information IE: operator identity,
// trace reference, the length-prefixed triggering-event and interface
// bitmaps, the trace depth, and the trace collection entity's IPv4 address.
func NewTraceInformation(f TraceInformationFields) *IE {
	b := make([]byte, 0, 16+len(f.TriggeringEvents)+len(f.InterfaceList))
	b = append(b, f.MCCMNC[:]...)
	b = append(b, f.TraceID[:]...)
	b = append(b, byte(len(f.TriggeringEvents)))
	b = append(b, f.TriggeringEvents...)
	b = append(b, f.SessionTraceDepth)
	b = append(b, byte(len(f.InterfaceList)))
	b = append(b, f.InterfaceList...)
	if v4 := f.CollectionIP.To4(); v4 != nil {
		b = append(b, byte(len(v4)))
		b = append(b, v4...)
	} else {
		b = append(b, 0)
	}
	return NewLeaf(TraceInformation, b)
}

// TraceInformationValue decodes a Trace Information IE.
func (i *IE) TraceInformationValue() (TraceInformationFields, error) {
	var out TraceInformationFields
	b := i.Payload
	if len(b) < 7 {
		return out, ErrTooShort
	}
	copy(out.MCCMNC[:], b[:3])
	copy(out.TraceID[:], b[3:6])
	b = b[6:]

	n := int(b[0])
	if len(b) < 1+n+1 {
		return out, ErrTooShort
	}
	out.TriggeringEvents = append([]byte(nil), b[1:1+n]...)
	b = b[1+n:]

	out.SessionTraceDepth = b[0]
	b = b[1:]
	if len(b) < 1 {
		return out, ErrTooShort
	}
	n = int(b[0])
	if len(b) < 1+n+1 {
		return out, ErrTooShort
	}
	out.InterfaceList = append([]byte(nil), b[1:1+n]...)
	b = b[1+n:]

	n = int(b[0])
	if n > 0 {
		if len(b) < 1+n {
			return out, ErrTooShort
		}
		out.CollectionIP = append(net.IP(nil), b[1:1+n]...)
	}
	return out, nil
}

// NewAssociationReleaseRequest builds an Association Release Request IE.
func NewAssociationReleaseRequest(sarr bool) *IE {
	var v byte
	if sarr {
		v = 1
	}
	return NewLeaf(AssociationReleaseRequest, []byte{v})
}

func (i *IE) AssociationReleaseRequestValue() (bool, error) {
	if len(i.Payload) < 1 {
		return false, ErrTooShort
	}
	return i.Payload[0]&0x01 != 0, nil
}

// NewGracefulReleasePeriod builds a Graceful Release Period IE, reusing the
// Timer IE's unit/value encoding per TS 29.244 §8.2.68.
func NewGracefulReleasePeriod(unit TimerUnit, value uint8) *IE {
	return NewLeaf(GracefulReleasePeriod, []byte{byte(unit)<<5 | value&0x1f})
}

// NewPDNType builds a PDN Type IE.
func NewPDNType(t PDNTypeValue) *IE {
	return NewLeaf(PDNType, []byte{byte(t) & 0x07})
}

func (i *IE) PDNTypeValue() (PDNTypeValue, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return PDNTypeValue(i.Payload[0] & 0x07), nil
}

// NewFailedRuleID builds a Failed Rule ID IE. ruleType follows TS 29.244
// table 8.2.75-1 (0=PDR, 1=FAR, 2=QER, 3=URR, 4=BAR).
func NewFailedRuleID(ruleType uint8, ruleID uint32) *IE {
	b := make([]byte, 5)
	b[0] = ruleType & 0x07
	binary.BigEndian.PutUint32(b[1:], ruleID)
	return NewLeaf(FailedRuleID, b)
}

func (i *IE) FailedRuleIDValue() (ruleType uint8, ruleID uint32, err error) {
	if len(i.Payload) < 5 {
		return 0, 0, ErrTooShort
	}
	return i.Payload[0] & 0x07, binary.BigEndian.Uint32(i.Payload[1:5]), nil
}

// NewUsageReportTrigger builds a Usage Report Trigger IE from its 3-octet
// flag bitmask (TS 29.244 §8.2.41).
func NewUsageReportTrigger(flags uint32) *IE {
	b := make([]byte, 3)
	b[0] = byte(flags >> 16)
	b[1] = byte(flags >> 8)
	b[2] = byte(flags)
	return NewLeaf(UsageReportTrigger, b)
}

func (i *IE) UsageReportTriggerValue() (uint32, error) {
	if len(i.Payload) < 3 {
		return 0, ErrTooShort
	}
	return uint32(i.Payload[0])<<16 | uint32(i.Payload[1])<<8 | uint32(i.Payload[2]), nil
}

// VolumeMeasurementFields is the decoded form of a Volume Measurement IE.
type VolumeMeasurementFields struct {
	HasTotal, HasUplink, HasDownlink bool
	Total, Uplink, Downlink          uint64
}

// NewVolumeMeasurement builds a Volume Measurement IE with any subset of
// total/uplink/downlink octet counts present.
func NewVolumeMeasurement(total, uplink, downlink *uint64) *IE {
	var flags byte
	var b []byte
	if total != nil {
		flags |= 0x01
	}
	if uplink != nil {
		flags |= 0x02
	}
	if downlink != nil {
		flags |= 0x04
	}
	b = append(b, flags)
	if total != nil {
		b = appendU64(b, *total)
	}
	if uplink != nil {
		b = appendU64(b, *uplink)
	}
	if downlink != nil {
		b = appendU64(b, *downlink)
	}
	return NewLeaf(VolumeMeasurement, b)
}

func appendU64(b []byte, v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return append(b, buf...)
}

// VolumeMeasurementValue decodes a Volume Measurement IE.
func (i *IE) VolumeMeasurementValue() (VolumeMeasurementFields, error) {
	var out VolumeMeasurementFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	read := func() (uint64, error) {
		if len(rest) < 8 {
			return 0, ErrTooShort
		}
		v := binary.BigEndian.Uint64(rest[:8])
		rest = rest[8:]
		return v, nil
	}
	var err error
	if out.HasTotal = flags&0x01 != 0; out.HasTotal {
		if out.Total, err = read(); err != nil {
			return out, err
		}
	}
	if out.HasUplink = flags&0x02 != 0; out.HasUplink {
		if out.Uplink, err = read(); err != nil {
			return out, err
		}
	}
	if out.HasDownlink = flags&0x04 != 0; out.HasDownlink {
		if out.Downlink, err = read(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// NewDurationMeasurement builds a Duration Measurement IE in whole seconds.
func NewDurationMeasurement(seconds uint32) *IE {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, seconds)
	return NewLeaf(DurationMeasurement, b)
}

func (i *IE) DurationMeasurementValue() (uint32, error) {
	if len(i.Payload) < 4 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint32(i.Payload), nil
}

// NewSDFFilter builds an SDF Filter IE carrying an IPv4 flow description
// string (the FD flag subfield); the other optional subfields (TTC, SPI,
// FL, BID) are left unset.
func NewSDFFilter(flowDescription string) *IE {
	b := []byte{0x01, 0x00} // FD flag set, one spare octet per §8.2.4
	lenBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(lenBuf, uint16(len(flowDescription)))
	b = append(b, lenBuf...)
	b = append(b, []byte(flowDescription)...)
	return NewLeaf(SDFFilter, b)
}

// SDFFilterValue decodes the flow-description subfield of an SDF Filter IE,
// if the FD flag is set.
func (i *IE) SDFFilterValue() (string, error) {
	if len(i.Payload) < 4 {
		return "", ErrTooShort
	}
	if i.Payload[0]&0x01 == 0 {
		return "", nil
	}
	n := binary.BigEndian.Uint16(i.Payload[2:4])
	if len(i.Payload) < int(4+n) {
		return "", ErrTooShort
	}
	return string(i.Payload[4 : 4+n]), nil
}

// NewEthernetPacketFilter builds an empty grouped Ethernet Packet Filter
// IE shell; callers append MAC Address / Ethertype / C-TAG / S-TAG /
// SDF Filter children via SetChildren.
func NewEthernetPacketFilter(children ...*IE) *IE {
	return NewGrouped(EthernetPacketFilter, children...)
}

// pfdContentsScratchSize bounds the single region a PfdContents IE's eight
// optional sub-strings are packed into.
const pfdContentsScratchSize = 32 * 1024

const numPFDContentsSlots = 8

const (
	pfdSlotFlowDescription = iota
	pfdSlotURL
	pfdSlotDomainName
	pfdSlotCustomPFDContent
	pfdSlotDomainNameProtocol
	pfdSlotAdditionalFlowDescription
	pfdSlotAdditionalURL
	pfdSlotAdditionalDomainNameProtocol
)

// PFDContentsFields is the decoded (or to-be-encoded) form of a PFD
// Contents IE: up to eight optional sub-strings, each tracked by its own
// presence bit. A nil slice means the sub-string is absent.
type PFDContentsFields struct {
	FlowDescription              []byte
	URL                          []byte
	DomainName                   []byte
	CustomPFDContent             []byte
	DomainNameProtocol           []byte
	AdditionalFlowDescription    []byte
	AdditionalURL                []byte
	AdditionalDomainNameProtocol []byte
}

func (f PFDContentsFields) slot(i int) []byte {
	switch i {
	case pfdSlotFlowDescription:
		return f.FlowDescription
	case pfdSlotURL:
		return f.URL
	case pfdSlotDomainName:
		return f.DomainName
	case pfdSlotCustomPFDContent:
		return f.CustomPFDContent
	case pfdSlotDomainNameProtocol:
		return f.DomainNameProtocol
	case pfdSlotAdditionalFlowDescription:
		return f.AdditionalFlowDescription
	case pfdSlotAdditionalURL:
		return f.AdditionalURL
	default:
		return f.AdditionalDomainNameProtocol
	}
}

// PFDContentsBuilder assembles a PfdContents IE's eight optional
// sub-strings into one shared 32 KiB scratch region, mirroring the
// original PFCP stack's PfdContentsIE: setting slot k compacts every
// lower-index sub-string already present to the front of the region,
// writes (or replaces) slot k, and leaves every higher-index sub-string
// where it was. A set that would overflow the region is a complete no-op —
// the builder, including slot k, is left exactly as it was before the
// call — matching the original's short-circuit "move" failure.
type PFDContentsBuilder struct {
	present [numPFDContentsSlots]bool
	values  [numPFDContentsSlots][]byte
}

// NewPFDContentsBuilder returns an empty builder.
func NewPFDContentsBuilder() *PFDContentsBuilder {
	return &PFDContentsBuilder{}
}

func (b *PFDContentsBuilder) size() int {
	n := 0
	for i, v := range b.values {
		if b.present[i] {
			n += len(v)
		}
	}
	return n
}

// set writes value into slot, compacting around it. It reports whether the
// write fit within the scratch region; on false the builder is unchanged.
func (b *PFDContentsBuilder) set(slot int, value []byte) bool {
	savedValue, savedPresent := b.values[slot], b.present[slot]
	b.values[slot], b.present[slot] = value, true
	if b.size() > pfdContentsScratchSize {
		b.values[slot], b.present[slot] = savedValue, savedPresent
		return false
	}
	return true
}

func (b *PFDContentsBuilder) SetFlowDescription(v []byte) bool { return b.set(pfdSlotFlowDescription, v) }
func (b *PFDContentsBuilder) SetURL(v []byte) bool              { return b.set(pfdSlotURL, v) }
func (b *PFDContentsBuilder) SetDomainName(v []byte) bool       { return b.set(pfdSlotDomainName, v) }
func (b *PFDContentsBuilder) SetCustomPFDContent(v []byte) bool {
	return b.set(pfdSlotCustomPFDContent, v)
}
func (b *PFDContentsBuilder) SetDomainNameProtocol(v []byte) bool {
	return b.set(pfdSlotDomainNameProtocol, v)
}
func (b *PFDContentsBuilder) SetAdditionalFlowDescription(v []byte) bool {
	return b.set(pfdSlotAdditionalFlowDescription, v)
}
func (b *PFDContentsBuilder) SetAdditionalURL(v []byte) bool { return b.set(pfdSlotAdditionalURL, v) }
func (b *PFDContentsBuilder) SetAdditionalDomainNameProtocol(v []byte) bool {
	return b.set(pfdSlotAdditionalDomainNameProtocol, v)
}

// Fields snapshots the builder's current sub-strings.
func (b *PFDContentsBuilder) Fields() PFDContentsFields {
	var f PFDContentsFields
	get := func(slot int) []byte {
		if !b.present[slot] {
			return nil
		}
		return b.values[slot]
	}
	f.FlowDescription = get(pfdSlotFlowDescription)
	f.URL = get(pfdSlotURL)
	f.DomainName = get(pfdSlotDomainName)
	f.CustomPFDContent = get(pfdSlotCustomPFDContent)
	f.DomainNameProtocol = get(pfdSlotDomainNameProtocol)
	f.AdditionalFlowDescription = get(pfdSlotAdditionalFlowDescription)
	f.AdditionalURL = get(pfdSlotAdditionalURL)
	f.AdditionalDomainNameProtocol = get(pfdSlotAdditionalDomainNameProtocol)
	return f
}

// Build encodes the builder's current state as a PfdContents IE: a
// one-octet presence bitmap (bit k set iff slot k is present) followed, for
// each present slot in fixed order, by a 2-octet length and that many
// payload octets.
func (b *PFDContentsBuilder) Build() *IE {
	var flags byte
	for i := 0; i < numPFDContentsSlots; i++ {
		if b.present[i] {
			flags |= 1 << uint(i)
		}
	}
	out := make([]byte, 1, 1+b.size()+2*numPFDContentsSlots)
	out[0] = flags
	for i := 0; i < numPFDContentsSlots; i++ {
		if !b.present[i] {
			continue
		}
		v := b.values[i]
		lenBuf := make([]byte, 2)
		binary.BigEndian.PutUint16(lenBuf, uint16(len(v)))
		out = append(out, lenBuf...)
		out = append(out, v...)
	}
	return NewLeaf(PFDContents, out)
}

// NewPFDContents builds a PfdContents IE directly from a fully-populated
// PFDContentsFields, applying each sub-string in fixed slot order (the same
// order the builder's compaction uses). A sub-string that doesn't fit in
// the shared 32 KiB scratch region is silently dropped; every sub-string
// set before it is preserved.
func NewPFDContents(f PFDContentsFields) *IE {
	b := NewPFDContentsBuilder()
	for slot := 0; slot < numPFDContentsSlots; slot++ {
		if v := f.slot(slot); v != nil {
			b.set(slot, v)
		}
	}
	return b.Build()
}

// PFDContentsValue decodes a PfdContents IE built by NewPFDContents/Build.
func (i *IE) PFDContentsValue() (PFDContentsFields, error) {
	var out PFDContentsFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	for slot := 0; slot < numPFDContentsSlots; slot++ {
		if flags&(1<<uint(slot)) == 0 {
			continue
		}
		if len(rest) < 2 {
			return out, ErrTooShort
		}
		n := binary.BigEndian.Uint16(rest[:2])
		rest = rest[2:]
		if len(rest) < int(n) {
			return out, ErrTooShort
		}
		v := append([]byte(nil), rest[:n]...)
		rest = rest[n:]
		switch slot {
		case pfdSlotFlowDescription:
			out.FlowDescription = v
		case pfdSlotURL:
			out.URL = v
		case pfdSlotDomainName:
			out.DomainName = v
		case pfdSlotCustomPFDContent:
			out.CustomPFDContent = v
		case pfdSlotDomainNameProtocol:
			out.DomainNameProtocol = v
		case pfdSlotAdditionalFlowDescription:
			out.AdditionalFlowDescription = v
		case pfdSlotAdditionalURL:
			out.AdditionalURL = v
		case pfdSlotAdditionalDomainNameProtocol:
			out.AdditionalDomainNameProtocol = v
		}
	}
	return out, nil
}
