package ie

import (
	"encoding/binary"
	"net"
)

// NewNetworkInstance builds a Network Instance IE. The value is an opaque
// octet sequence; most deployments carry an APN/DNN-style dotted name.
func NewNetworkInstance(name string) *IE {
	return NewLeaf(NetworkInstance, []byte(name))
}

func (i *IE) NetworkInstanceValue() (string, error) {
	return string(i.Payload), nil
}

// NewApplicationID builds an Application ID IE referencing a PFD-provisioned
// application.
func NewApplicationID(id string) *IE {
	return NewLeaf(ApplicationID, []byte(id))
}

func (i *IE) ApplicationIDValue() (string, error) {
	return string(i.Payload), nil
}

// NewApplicationInstanceID builds an Application Instance ID IE, reported in
// Application Detection Information.
func NewApplicationInstanceID(id string) *IE {
	return NewLeaf(ApplicationInstanceID, []byte(id))
}

func (i *IE) ApplicationInstanceIDValue() (string, error) {
	return string(i.Payload), nil
}

// Flow direction values used by the Flow Information IE.
const (
	FlowDirectionUnspecified   uint8 = 0
	FlowDirectionDownlink      uint8 = 1
	FlowDirectionUplink        uint8 = 2
	FlowDirectionBidirectional uint8 = 3
)

// NewFlowInformation builds a Flow Information IE: a 3-bit direction and a
// length-prefixed flow description (IPFilterRule syntax).
func NewFlowInformation(direction uint8, description string) *IE {
	b := make([]byte, 3+len(description))
	b[0] = direction & 0x07
	binary.BigEndian.PutUint16(b[1:3], uint16(len(description)))
	copy(b[3:], description)
	return NewLeaf(FlowInformation, b)
}

func (i *IE) FlowInformationValue() (direction uint8, description string, err error) {
	if len(i.Payload) < 3 {
		return 0, "", ErrTooShort
	}
	direction = i.Payload[0] & 0x07
	n := int(binary.BigEndian.Uint16(i.Payload[1:3]))
	if len(i.Payload) < 3+n {
		return 0, "", ErrTooShort
	}
	return direction, string(i.Payload[3 : 3+n]), nil
}

// Redirect address types (TS 29.244 §8.2.20).
const (
	RedirectIPv4 uint8 = iota
	RedirectIPv6
	RedirectURL
	RedirectSIPURI
)

// NewRedirectInformation builds a Redirect Information IE: a 4-bit address
// type and a length-prefixed redirect destination.
func NewRedirectInformation(addrType uint8, address string) *IE {
	b := make([]byte, 3+len(address))
	b[0] = addrType & 0x0f
	binary.BigEndian.PutUint16(b[1:3], uint16(len(address)))
	copy(b[3:], address)
	return NewLeaf(RedirectInformation, b)
}

func (i *IE) RedirectInformationValue() (addrType uint8, address string, err error) {
	if len(i.Payload) < 3 {
		return 0, "", ErrTooShort
	}
	addrType = i.Payload[0] & 0x0f
	n := int(binary.BigEndian.Uint16(i.Payload[1:3]))
	if len(i.Payload) < 3+n {
		return 0, "", ErrTooShort
	}
	return addrType, string(i.Payload[3 : 3+n]), nil
}

// NewTransportLevelMarking builds a Transport Level Marking IE: the ToS/
// Traffic Class (2 octets, value + mask) stamped on outer IP headers.
func NewTransportLevelMarking(tosTrafficClass uint16) *IE {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, tosTrafficClass)
	return NewLeaf(TransportLevelMarking, b)
}

func (i *IE) TransportLevelMarkingValue() (uint16, error) {
	if len(i.Payload) < 2 {
		return 0, ErrTooShort
	}
	return binary.BigEndian.Uint16(i.Payload), nil
}

// NewForwardingPolicy builds a Forwarding Policy IE: a length-prefixed
// locally configured policy identifier.
func NewForwardingPolicy(identifier string) *IE {
	b := make([]byte, 1+len(identifier))
	b[0] = byte(len(identifier))
	copy(b[1:], identifier)
	return NewLeaf(ForwardingPolicy, b)
}

func (i *IE) ForwardingPolicyValue() (string, error) {
	if len(i.Payload) < 1 {
		return "", ErrTooShort
	}
	n := int(i.Payload[0])
	if len(i.Payload) < 1+n {
		return "", ErrTooShort
	}
	return string(i.Payload[1 : 1+n]), nil
}

// NewHeaderEnrichment builds a Header Enrichment IE: the 5-bit header type
// (0 = HTTP) and the length-prefixed field name and value to inject.
func NewHeaderEnrichment(headerType uint8, name, value string) *IE {
	b := make([]byte, 0, 3+len(name)+len(value))
	b = append(b, headerType&0x1f)
	b = append(b, byte(len(name)))
	b = append(b, name...)
	b = append(b, byte(len(value)))
	b = append(b, value...)
	return NewLeaf(HeaderEnrichment, b)
}

func (i *IE) HeaderEnrichmentValue() (headerType uint8, name, value string, err error) {
	if len(i.Payload) < 2 {
		return 0, "", "", ErrTooShort
	}
	headerType = i.Payload[0] & 0x1f
	rest := i.Payload[1:]
	n := int(rest[0])
	if len(rest) < 1+n+1 {
		return 0, "", "", ErrTooShort
	}
	name = string(rest[1 : 1+n])
	rest = rest[1+n:]
	m := int(rest[0])
	if len(rest) < 1+m {
		return 0, "", "", ErrTooShort
	}
	return headerType, name, string(rest[1 : 1+m]), nil
}

// Proxying flag bits.
const (
	ProxyingARP  uint8 = 1 << iota // answer ARP requests locally
	ProxyingINS                    // answer IPv6 neighbour solicitation locally
)

// NewProxying builds a Proxying IE.
func NewProxying(flags uint8) *IE {
	return NewLeaf(Proxying, []byte{flags & 0x03})
}

func (i *IE) ProxyingValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0] & 0x03, nil
}

// NewTrafficEndpointID builds a Traffic Endpoint ID IE.
func NewTrafficEndpointID(id uint8) *IE {
	return NewLeaf(TrafficEndpointID, []byte{id})
}

func (i *IE) TrafficEndpointIDValue() (uint8, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return i.Payload[0], nil
}

// NewFramedRoute builds a Framed-Route IE (RADIUS attribute 22 text).
func NewFramedRoute(route string) *IE {
	return NewLeaf(FramedRoute, []byte(route))
}

func (i *IE) FramedRouteValue() (string, error) {
	return string(i.Payload), nil
}

// NewFramedRouting builds a Framed-Routing IE (RADIUS attribute 10 value).
func NewFramedRouting(v uint32) *IE { return newUint32Leaf(FramedRouting, v) }

func (i *IE) FramedRoutingValue() (uint32, error) { return i.uint32Value() }

// NewFramedIPv6Route builds a Framed-IPv6-Route IE (RADIUS attribute 99
// text).
func NewFramedIPv6Route(route string) *IE {
	return NewLeaf(FramedIPv6Route, []byte(route))
}

func (i *IE) FramedIPv6RouteValue() (string, error) {
	return string(i.Payload), nil
}

// NewThreeGPPInterfaceType builds a 3GPP Interface Type IE (6-bit value).
func NewThreeGPPInterfaceType(t ThreeGPPInterfaceTypeValue) *IE {
	return NewLeaf(ThreeGPPInterfaceType, []byte{byte(t) & 0x3f})
}

func (i *IE) ThreeGPPInterfaceTypeValue() (ThreeGPPInterfaceTypeValue, error) {
	if len(i.Payload) < 1 {
		return 0, ErrTooShort
	}
	return ThreeGPPInterfaceTypeValue(i.Payload[0] & 0x3f), nil
}

// NewAPNDNN builds an APN/DNN IE. The value uses DNS label encoding: each
// dot-separated label is prefixed by its length octet.
func NewAPNDNN(apn string) *IE {
	b := make([]byte, 0, len(apn)+1)
	start := 0
	for idx := 0; idx <= len(apn); idx++ {
		if idx == len(apn) || apn[idx] == '.' {
			b = append(b, byte(idx-start))
			b = append(b, apn[start:idx]...)
			start = idx + 1
		}
	}
	return NewLeaf(APNDNN, b)
}

// APNDNNValue decodes the label-encoded APN/DNN back to dotted text.
func (i *IE) APNDNNValue() (string, error) {
	var out []byte
	b := i.Payload
	for len(b) > 0 {
		n := int(b[0])
		if len(b) < 1+n {
			return "", ErrTooShort
		}
		if len(out) > 0 {
			out = append(out, '.')
		}
		out = append(out, b[1:1+n]...)
		b = b[1+n:]
	}
	return string(out), nil
}

// NewActivatePredefinedRules builds an Activate Predefined Rules IE naming a
// UP-function-local rule set.
func NewActivatePredefinedRules(name string) *IE {
	return NewLeaf(ActivatePredefinedRules, []byte(name))
}

func (i *IE) ActivatePredefinedRulesValue() (string, error) {
	return string(i.Payload), nil
}

// NewDeactivatePredefinedRules builds a Deactivate Predefined Rules IE.
func NewDeactivatePredefinedRules(name string) *IE {
	return NewLeaf(DeactivatePredefinedRules, []byte(name))
}

func (i *IE) DeactivatePredefinedRulesValue() (string, error) {
	return string(i.Payload), nil
}

// RemoteGTPUPeerFields is the decoded form of a Remote GTP-U Peer IE.
type RemoteGTPUPeerFields struct {
	IPv4 net.IP
	IPv6 net.IP
}

// NewRemoteGTPUPeer builds a Remote GTP-U Peer IE; either address family may
// be nil.
func NewRemoteGTPUPeer(ipv4, ipv6 net.IP) *IE {
	var flags byte
	b := []byte{0}
	if ipv6 != nil {
		flags |= 0x01
		b = append(b, ipv6.To16()...)
	}
	if ipv4 != nil {
		flags |= 0x02
		b = append(b, ipv4.To4()...)
	}
	b[0] = flags
	return NewLeaf(RemoteGTPUPeer, b)
}

func (i *IE) RemoteGTPUPeerValue() (RemoteGTPUPeerFields, error) {
	var out RemoteGTPUPeerFields
	if len(i.Payload) < 1 {
		return out, ErrTooShort
	}
	flags := i.Payload[0]
	rest := i.Payload[1:]
	if flags&0x01 != 0 {
		if len(rest) < 16 {
			return out, ErrTooShort
		}
		out.IPv6 = append(net.IP(nil), rest[:16]...)
		rest = rest[16:]
	}
	if flags&0x02 != 0 {
		if len(rest) < 4 {
			return out, ErrTooShort
		}
		out.IPv4 = append(net.IP(nil), rest[:4]...)
	}
	return out, nil
}
