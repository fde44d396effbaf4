// Package pfcptranslate turns wire bytes into the typed pfcpmsg structs and
// back, and answers the header-level questions (message type, sequence
// number, protocol version) the transport layer needs without fully
// decoding a datagram.
package pfcptranslate

import (
	"fmt"
	"time"

	"github.com/hieulven/pfcp-engine/internal/ie"
	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
)

// SupportedVersion is the only PFCP protocol version this engine speaks.
const SupportedVersion = 1

// EncodeError wraps a failure to encode an outgoing message.
type EncodeError struct {
	MsgType pfcpmsg.MsgType
	Err     error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("pfcptranslate: encode %s: %v", e.MsgType, e.Err)
}
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError wraps a failure to decode an incoming datagram.
type DecodeError struct {
	MsgType pfcpmsg.MsgType
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("pfcptranslate: decode %s: %v", e.MsgType, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// MsgClass partitions the message-type space: node-level management
// (heartbeat, association, PFD, node report), session-level, or unknown.
type MsgClass int

const (
	ClassUnknown MsgClass = iota
	ClassNode
	ClassSession
)

func (c MsgClass) String() string {
	switch c {
	case ClassNode:
		return "Node"
	case ClassSession:
		return "Session"
	default:
		return "Unknown"
	}
}

// classOf classifies a message type. An unrecognized type is Unknown rather
// than an error: the header still parsed, and the caller decides whether to
// drop or reject it.
func classOf(t pfcpmsg.MsgType) MsgClass {
	if t.IsSessionMessage() {
		return ClassSession
	}
	if _, known := nodeMsgTypes[t]; known {
		return ClassNode
	}
	return ClassUnknown
}

// nodeMsgTypes enumerates the node-level types so classOf does not mistake
// an arbitrary unknown type code for a node message.
var nodeMsgTypes = map[pfcpmsg.MsgType]struct{}{
	pfcpmsg.HeartbeatRequest: {}, pfcpmsg.HeartbeatResponse: {},
	pfcpmsg.PFDManagementRequest: {}, pfcpmsg.PFDManagementResponse: {},
	pfcpmsg.AssociationSetupRequest: {}, pfcpmsg.AssociationSetupResponse: {},
	pfcpmsg.AssociationUpdateRequest: {}, pfcpmsg.AssociationUpdateResponse: {},
	pfcpmsg.AssociationReleaseRequest: {}, pfcpmsg.AssociationReleaseResponse: {},
	pfcpmsg.VersionNotSupportedResponse: {},
	pfcpmsg.NodeReportRequest:           {}, pfcpmsg.NodeReportResponse: {},
	pfcpmsg.SessionSetDeletionRequest: {}, pfcpmsg.SessionSetDeletionResponse: {},
}

// MsgInfo is the cheap, header-only summary of a datagram, used by the
// transport layer to route/correlate before paying for a full IE decode.
// IsCreateSession singles out the one request that must have a Session
// allocated for it before its body is decoded.
type MsgInfo struct {
	Version         uint8
	Type            pfcpmsg.MsgType
	Class           MsgClass
	SeqNbr          uint32
	HasSEID         bool
	SEID            uint64
	IsRequest       bool
	IsCreateSession bool
}

// GetMsgInfo peeks at a datagram's header without decoding its IEs.
func GetMsgInfo(b []byte) (MsgInfo, error) {
	h, _, err := pfcpmsg.ParseHeader(b)
	if err != nil {
		return MsgInfo{}, err
	}
	return MsgInfo{
		Version:         h.Version,
		Type:            h.Type,
		Class:           classOf(h.Type),
		SeqNbr:          h.SeqNbr,
		HasSEID:         h.HasSEID,
		SEID:            h.SEID,
		IsRequest:       h.Type.IsRequest(),
		IsCreateSession: h.Type == pfcpmsg.SessionEstablishmentRequest,
	}, nil
}

// IsVersionSupported reports whether the engine can process a message
// carrying the given PFCP protocol version.
func IsVersionSupported(version uint8) bool {
	return version == SupportedVersion
}

// ieSource is satisfied by every pfcpmsg request/response struct.
type ieSource interface {
	ToIEs() []*ie.IE
}

// EncodeReq encodes a request-side message into a complete PFCP datagram.
func EncodeReq(msgType pfcpmsg.MsgType, seqNbr uint32, seid *uint64, msg ieSource) ([]byte, error) {
	return encode(msgType, seqNbr, seid, msg)
}

// EncodeRsp encodes a response-side message into a complete PFCP datagram.
func EncodeRsp(msgType pfcpmsg.MsgType, seqNbr uint32, seid *uint64, msg ieSource) ([]byte, error) {
	return encode(msgType, seqNbr, seid, msg)
}

func encode(msgType pfcpmsg.MsgType, seqNbr uint32, seid *uint64, msg ieSource) ([]byte, error) {
	h := &pfcpmsg.Header{Type: msgType, SeqNbr: seqNbr}
	if seid != nil {
		h.HasSEID = true
		h.SEID = *seid
	}

	ies := msg.ToIEs()
	payloadLen := 0
	for _, i := range ies {
		payloadLen += i.MarshalLen()
	}
	payload := make([]byte, payloadLen)
	offset := 0
	for _, i := range ies {
		n := i.MarshalLen()
		if err := i.MarshalTo(payload[offset : offset+n]); err != nil {
			return nil, &EncodeError{MsgType: msgType, Err: err}
		}
		offset += n
	}

	b := make([]byte, h.MarshalLen()+payloadLen)
	if _, err := h.MarshalTo(b, payload); err != nil {
		return nil, &EncodeError{MsgType: msgType, Err: err}
	}
	return b, nil
}

// EncodeHeartbeatReq builds a Heartbeat Request carrying the local node's
// recovery time stamp, expressed as NTP-epoch seconds.
func EncodeHeartbeatReq(seqNbr uint32, recoveryTime time.Time) ([]byte, error) {
	msg := &pfcpmsg.HeartbeatRequestMsg{RecoveryTimeStamp: ie.NewRecoveryTimeStamp(ToNTPSeconds(recoveryTime))}
	return EncodeReq(pfcpmsg.HeartbeatRequest, seqNbr, nil, msg)
}

// EncodeHeartbeatRsp builds a Heartbeat Response.
func EncodeHeartbeatRsp(seqNbr uint32, recoveryTime time.Time) ([]byte, error) {
	msg := &pfcpmsg.HeartbeatResponseMsg{RecoveryTimeStamp: ie.NewRecoveryTimeStamp(ToNTPSeconds(recoveryTime))}
	return EncodeRsp(pfcpmsg.HeartbeatResponse, seqNbr, nil, msg)
}

// EncodeVersionNotSupportedRsp builds the one response PFCP sends when the
// received message's PFCP version is unsupported; it carries no IEs.
func EncodeVersionNotSupportedRsp(seqNbr uint32) ([]byte, error) {
	h := &pfcpmsg.Header{Type: pfcpmsg.VersionNotSupportedResponse, SeqNbr: seqNbr}
	b := make([]byte, h.MarshalLen())
	if _, err := h.MarshalTo(b, nil); err != nil {
		return nil, &EncodeError{MsgType: pfcpmsg.VersionNotSupportedResponse, Err: err}
	}
	return b, nil
}

// ntpEpochOffset is the number of seconds between the NTP epoch
// (1900-01-01) and the Unix epoch (1970-01-01).
const ntpEpochOffset = 2208988800

// ToNTPSeconds converts a wall-clock time to the NTP-epoch seconds the
// RecoveryTimeStamp IE carries.
func ToNTPSeconds(t time.Time) uint32 {
	return uint32(t.Unix() + ntpEpochOffset)
}

// FromNTPSeconds converts a RecoveryTimeStamp value back to wall-clock time.
func FromNTPSeconds(s uint32) time.Time {
	return time.Unix(int64(s)-ntpEpochOffset, 0)
}
