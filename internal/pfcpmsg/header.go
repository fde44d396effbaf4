// Package pfcpmsg models the PFCP message header and the per-message-type
// structs built on top of the internal/ie wire codec: one struct per R15
// message type, presence-tracked fields, fixed-capacity repeatable IE slots.
package pfcpmsg

import (
	"encoding/binary"
	"fmt"
)

// MsgType identifies a PFCP message as defined in TS 29.244 table 7.2-1.
type MsgType uint8

const (
	HeartbeatRequest                    MsgType = 1
	HeartbeatResponse                   MsgType = 2
	PFDManagementRequest                MsgType = 3
	PFDManagementResponse               MsgType = 4
	AssociationSetupRequest             MsgType = 5
	AssociationSetupResponse            MsgType = 6
	AssociationUpdateRequest            MsgType = 7
	AssociationUpdateResponse           MsgType = 8
	AssociationReleaseRequest           MsgType = 9
	AssociationReleaseResponse          MsgType = 10
	VersionNotSupportedResponse         MsgType = 11
	NodeReportRequest                   MsgType = 12
	NodeReportResponse                  MsgType = 13
	SessionSetDeletionRequest           MsgType = 14
	SessionSetDeletionResponse          MsgType = 15
	SessionEstablishmentRequest         MsgType = 50
	SessionEstablishmentResponse        MsgType = 51
	SessionModificationRequest          MsgType = 52
	SessionModificationResponse         MsgType = 53
	SessionDeletionRequest              MsgType = 54
	SessionDeletionResponse             MsgType = 55
	SessionReportRequest                MsgType = 56
	SessionReportResponse               MsgType = 57
)

var msgTypeNames = map[MsgType]string{
	HeartbeatRequest: "HeartbeatRequest", HeartbeatResponse: "HeartbeatResponse",
	PFDManagementRequest: "PFDManagementRequest", PFDManagementResponse: "PFDManagementResponse",
	AssociationSetupRequest: "AssociationSetupRequest", AssociationSetupResponse: "AssociationSetupResponse",
	AssociationUpdateRequest: "AssociationUpdateRequest", AssociationUpdateResponse: "AssociationUpdateResponse",
	AssociationReleaseRequest: "AssociationReleaseRequest", AssociationReleaseResponse: "AssociationReleaseResponse",
	VersionNotSupportedResponse: "VersionNotSupportedResponse",
	NodeReportRequest:           "NodeReportRequest", NodeReportResponse: "NodeReportResponse",
	SessionSetDeletionRequest: "SessionSetDeletionRequest", SessionSetDeletionResponse: "SessionSetDeletionResponse",
	SessionEstablishmentRequest: "SessionEstablishmentRequest", SessionEstablishmentResponse: "SessionEstablishmentResponse",
	SessionModificationRequest: "SessionModificationRequest", SessionModificationResponse: "SessionModificationResponse",
	SessionDeletionRequest: "SessionDeletionRequest", SessionDeletionResponse: "SessionDeletionResponse",
	SessionReportRequest: "SessionReportRequest", SessionReportResponse: "SessionReportResponse",
}

func (m MsgType) String() string {
	if n, ok := msgTypeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("MsgType(%d)", uint8(m))
}

// IsRequest reports whether m is a request-side message type: the request
// half of each request/response pair listed below. VersionNotSupportedResponse
// is the one response-only type, with no paired request.
func (m MsgType) IsRequest() bool {
	switch m {
	case HeartbeatRequest, PFDManagementRequest, AssociationSetupRequest,
		AssociationUpdateRequest, AssociationReleaseRequest, NodeReportRequest,
		SessionSetDeletionRequest, SessionEstablishmentRequest,
		SessionModificationRequest, SessionDeletionRequest, SessionReportRequest:
		return true
	default:
		return false
	}
}

// IsSessionMessage reports whether m carries a SEID in its header (S flag
// set), i.e. it targets a specific session rather than the node as a whole.
func (m MsgType) IsSessionMessage() bool {
	switch m {
	case SessionEstablishmentRequest, SessionEstablishmentResponse,
		SessionModificationRequest, SessionModificationResponse,
		SessionDeletionRequest, SessionDeletionResponse,
		SessionReportRequest, SessionReportResponse:
		return true
	default:
		return false
	}
}

const (
	flagVersionShift = 5
	flagMP           = 0x02 // message priority present (R16, reserved here)
	flagS            = 0x01 // SEID present
	version1         = 1
)

// headerLenNoSEID and headerLenSEID are fixed header sizes following the
// PFCP flags/type/length octets, per TS 29.244 §7.2.2.
const (
	headerLenNoSEID = 8  // flags, type, length(2), seqnbr(3), spare(1)
	headerLenSEID   = 16 // + seid(8), with seqnbr/spare shifted after it
)

// Header is the fixed 8- or 16-byte PFCP message header.
type Header struct {
	Version  uint8 // as received; MarshalTo always writes version 1
	Type     MsgType
	HasSEID  bool
	SEID     uint64
	SeqNbr   uint32 // 24-bit sequence number
	Priority uint8  // message priority, 4 bits; zero unless MP flag used
}

// MarshalLen returns the header's wire length, not including the IE payload
// that follows it.
func (h *Header) MarshalLen() int {
	if h.HasSEID {
		return headerLenSEID
	}
	return headerLenNoSEID
}

// MarshalTo writes the header followed immediately by payload (the already
// encoded IE sequence) into b, filling in the PFCP Message Length field
// (payload length + header length minus the 4-octet flags/type/length
// prefix, per TS 29.244 §7.2.2).
func (h *Header) MarshalTo(b []byte, payload []byte) (int, error) {
	hl := h.MarshalLen()
	total := hl + len(payload)
	if len(b) < total {
		return 0, fmt.Errorf("pfcpmsg: buffer too short: need %d, have %d", total, len(b))
	}
	flags := byte(version1) << flagVersionShift
	if h.HasSEID {
		flags |= flagS
	}
	b[0] = flags
	b[1] = byte(h.Type)
	binary.BigEndian.PutUint16(b[2:4], uint16(total-4))

	offset := 4
	if h.HasSEID {
		binary.BigEndian.PutUint64(b[offset:offset+8], h.SEID)
		offset += 8
	}
	b[offset] = byte(h.SeqNbr >> 16)
	b[offset+1] = byte(h.SeqNbr >> 8)
	b[offset+2] = byte(h.SeqNbr)
	b[offset+3] = h.Priority & 0x0f
	offset += 4

	copy(b[offset:], payload)
	return total, nil
}

// ParseHeader decodes a message header from the front of b and returns it
// along with the byte offset at which the IE payload begins.
func ParseHeader(b []byte) (*Header, int, error) {
	if len(b) < 4 {
		return nil, 0, fmt.Errorf("pfcpmsg: %w: header truncated", ErrTooShort)
	}
	flags := b[0]
	h := &Header{
		Version: flags >> flagVersionShift,
		Type:    MsgType(b[1]),
		HasSEID: flags&flagS != 0,
	}
	msgLen := int(binary.BigEndian.Uint16(b[2:4]))
	if len(b) < 4+msgLen {
		return nil, 0, fmt.Errorf("pfcpmsg: %w: declares length %d, have %d", ErrTooShort, msgLen, len(b)-4)
	}

	offset := 4
	if h.HasSEID {
		if len(b) < offset+8 {
			return nil, 0, ErrTooShort
		}
		h.SEID = binary.BigEndian.Uint64(b[offset : offset+8])
		offset += 8
	}
	if len(b) < offset+4 {
		return nil, 0, ErrTooShort
	}
	h.SeqNbr = uint32(b[offset])<<16 | uint32(b[offset+1])<<8 | uint32(b[offset+2])
	h.Priority = b[offset+3] & 0x0f
	offset += 4

	return h, offset, nil
}

// ErrTooShort is returned when a buffer ends before the declared message
// length is satisfied.
var ErrTooShort = fmt.Errorf("pfcpmsg: buffer too short")
