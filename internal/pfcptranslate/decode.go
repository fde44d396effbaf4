package pfcptranslate

import (
	"github.com/hieulven/pfcp-engine/internal/ie"
	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
)

// DecodedMessage bundles the parsed header and the typed message body. Body
// is one of the pfcpmsg.*Msg structs; callers type-switch on Header.Type to
// know which.
type DecodedMessage struct {
	Header *pfcpmsg.Header
	Body   interface{}
}

// DecodeReq decodes a complete request datagram into its typed message.
func DecodeReq(b []byte) (*DecodedMessage, error) {
	return decode(b)
}

// DecodeRsp decodes a complete response datagram into its typed message.
// The caller is responsible for attaching the Request back-reference once
// the outstanding request is looked up by sequence number.
func DecodeRsp(b []byte) (*DecodedMessage, error) {
	return decode(b)
}

func decode(b []byte) (*DecodedMessage, error) {
	h, offset, err := pfcpmsg.ParseHeader(b)
	if err != nil {
		return nil, err
	}
	ies, err := ie.ParseAll(b[offset:])
	if err != nil {
		return nil, &DecodeError{MsgType: h.Type, Err: err}
	}

	body, err := decodeBody(h.Type, ies)
	if err != nil {
		return nil, &DecodeError{MsgType: h.Type, Err: err}
	}
	return &DecodedMessage{Header: h, Body: body}, nil
}

func decodeBody(t pfcpmsg.MsgType, ies []*ie.IE) (interface{}, error) {
	find := func(typ ie.Type) *ie.IE { return findType(ies, typ) }
	findAll := func(typ ie.Type) []*ie.IE { return findAllType(ies, typ) }

	switch t {
	case pfcpmsg.HeartbeatRequest:
		return &pfcpmsg.HeartbeatRequestMsg{RecoveryTimeStamp: find(ie.RecoveryTimeStamp)}, nil
	case pfcpmsg.HeartbeatResponse:
		return &pfcpmsg.HeartbeatResponseMsg{RecoveryTimeStamp: find(ie.RecoveryTimeStamp)}, nil

	case pfcpmsg.AssociationSetupRequest:
		m := &pfcpmsg.AssociationSetupRequestMsg{
			NodeID:             find(ie.NodeID),
			RecoveryTimeStamp:  find(ie.RecoveryTimeStamp),
			UPFunctionFeatures: find(ie.UPFunctionFeatures),
			CPFunctionFeatures: find(ie.CPFunctionFeatures),
		}
		for _, r := range findAll(ie.UserPlaneIPResourceInfo) {
			m.AddUserPlaneIPResource(r)
		}
		return m, nil
	case pfcpmsg.AssociationSetupResponse:
		m := &pfcpmsg.AssociationSetupResponseMsg{
			NodeID:             find(ie.NodeID),
			Cause:              find(ie.Cause),
			RecoveryTimeStamp:  find(ie.RecoveryTimeStamp),
			UPFunctionFeatures: find(ie.UPFunctionFeatures),
			CPFunctionFeatures: find(ie.CPFunctionFeatures),
		}
		for _, r := range findAll(ie.UserPlaneIPResourceInfo) {
			m.AddUserPlaneIPResource(r)
		}
		return m, nil

	case pfcpmsg.VersionNotSupportedResponse:
		return &pfcpmsg.VersionNotSupportedResponseMsg{}, nil

	case pfcpmsg.PFDManagementRequest:
		m := &pfcpmsg.PFDManagementRequestMsg{}
		for _, a := range findAll(ie.ApplicationIDsPFDs) {
			m.AddApplicationIDsPFDs(a)
		}
		return m, nil
	case pfcpmsg.PFDManagementResponse:
		return &pfcpmsg.PFDManagementResponseMsg{
			Cause:       find(ie.Cause),
			OffendingIE: find(ie.OffendingIE),
		}, nil

	case pfcpmsg.AssociationUpdateRequest:
		return &pfcpmsg.AssociationUpdateRequestMsg{
			NodeID:                    find(ie.NodeID),
			UPFunctionFeatures:        find(ie.UPFunctionFeatures),
			CPFunctionFeatures:        find(ie.CPFunctionFeatures),
			AssociationReleaseRequest: find(ie.AssociationReleaseRequest),
			GracefulReleasePeriod:     find(ie.GracefulReleasePeriod),
		}, nil
	case pfcpmsg.AssociationUpdateResponse:
		return &pfcpmsg.AssociationUpdateResponseMsg{
			NodeID:             find(ie.NodeID),
			Cause:              find(ie.Cause),
			UPFunctionFeatures: find(ie.UPFunctionFeatures),
			CPFunctionFeatures: find(ie.CPFunctionFeatures),
		}, nil

	case pfcpmsg.AssociationReleaseRequest:
		return &pfcpmsg.AssociationReleaseRequestMsg{NodeID: find(ie.NodeID)}, nil
	case pfcpmsg.AssociationReleaseResponse:
		return &pfcpmsg.AssociationReleaseResponseMsg{NodeID: find(ie.NodeID), Cause: find(ie.Cause)}, nil

	case pfcpmsg.NodeReportRequest:
		return &pfcpmsg.NodeReportRequestMsg{
			NodeID:                     find(ie.NodeID),
			NodeReportType:             find(ie.NodeReportType),
			UserPlanePathFailureReport: find(ie.UserPlanePathFailureReport),
		}, nil
	case pfcpmsg.NodeReportResponse:
		return &pfcpmsg.NodeReportResponseMsg{NodeID: find(ie.NodeID), Cause: find(ie.Cause)}, nil

	case pfcpmsg.SessionSetDeletionRequest:
		return &pfcpmsg.SessionSetDeletionRequestMsg{NodeID: find(ie.NodeID), FQCSID: find(ie.FQCSID)}, nil
	case pfcpmsg.SessionSetDeletionResponse:
		return &pfcpmsg.SessionSetDeletionResponseMsg{NodeID: find(ie.NodeID), Cause: find(ie.Cause)}, nil

	case pfcpmsg.SessionEstablishmentRequest:
		m := &pfcpmsg.SessionEstablishmentRequestMsg{
			NodeID:    find(ie.NodeID),
			FSEID:     find(ie.FSEID),
			CreateBAR: find(ie.CreateBAR),
			PDNType:   find(ie.PDNType),
			UserID:    find(ie.UserID),
			APNDNN:    find(ie.APNDNN),
		}
		for _, p := range findAll(ie.CreatePDR) {
			m.AddCreatePDR(p)
		}
		for _, f := range findAll(ie.CreateFAR) {
			m.AddCreateFAR(f)
		}
		for _, u := range findAll(ie.CreateURR) {
			m.AddCreateURR(u)
		}
		for _, q := range findAll(ie.CreateQER) {
			m.AddCreateQER(q)
		}
		return m, nil
	case pfcpmsg.SessionEstablishmentResponse:
		m := &pfcpmsg.SessionEstablishmentResponseMsg{
			NodeID:      find(ie.NodeID),
			Cause:       find(ie.Cause),
			OffendingIE: find(ie.OffendingIE),
			FSEID:       find(ie.FSEID),
		}
		for _, p := range findAll(ie.CreatedPDR) {
			m.AddCreatedPDR(p)
		}
		return m, nil

	case pfcpmsg.SessionModificationRequest:
		m := &pfcpmsg.SessionModificationRequestMsg{FSEID: find(ie.FSEID)}
		for _, p := range findAll(ie.CreatePDR) {
			m.AddCreatePDR(p)
		}
		for _, f := range findAll(ie.CreateFAR) {
			m.AddCreateFAR(f)
		}
		for _, p := range findAll(ie.UpdatePDR) {
			m.AddUpdatePDR(p)
		}
		for _, f := range findAll(ie.UpdateFAR) {
			m.AddUpdateFAR(f)
		}
		for _, u := range findAll(ie.UpdateURR) {
			m.AddUpdateURR(u)
		}
		for _, q := range findAll(ie.UpdateQER) {
			m.AddUpdateQER(q)
		}
		for _, p := range findAll(ie.RemovePDR) {
			m.AddRemovePDR(p)
		}
		for _, f := range findAll(ie.RemoveFAR) {
			m.AddRemoveFAR(f)
		}
		for _, u := range findAll(ie.RemoveURR) {
			m.AddRemoveURR(u)
		}
		for _, q := range findAll(ie.RemoveQER) {
			m.AddRemoveQER(q)
		}
		return m, nil
	case pfcpmsg.SessionModificationResponse:
		return &pfcpmsg.SessionModificationResponseMsg{
			Cause:       find(ie.Cause),
			OffendingIE: find(ie.OffendingIE),
			FSEID:       find(ie.FSEID),
		}, nil

	case pfcpmsg.SessionDeletionRequest:
		return &pfcpmsg.SessionDeletionRequestMsg{}, nil
	case pfcpmsg.SessionDeletionResponse:
		m := &pfcpmsg.SessionDeletionResponseMsg{Cause: find(ie.Cause)}
		for _, u := range findAll(ie.UsageReportSDR) {
			m.AddUsageReport(u)
		}
		return m, nil

	case pfcpmsg.SessionReportRequest:
		m := &pfcpmsg.SessionReportRequestMsg{
			ReportType:            find(ie.ReportType),
			DownlinkDataReport:    find(ie.DownlinkDataReport),
			ErrorIndicationReport: find(ie.ErrorIndicationReport),
		}
		for _, u := range findAll(ie.UsageReportSRR) {
			m.AddUsageReport(u)
		}
		return m, nil
	case pfcpmsg.SessionReportResponse:
		m := &pfcpmsg.SessionReportResponseMsg{Cause: find(ie.Cause), OffendingIE: find(ie.OffendingIE)}
		for _, f := range findAll(ie.UpdateFAR) {
			m.AddUpdateFAR(f)
		}
		return m, nil

	default:
		return nil, &unsupportedMsgTypeError{t}
	}
}

type unsupportedMsgTypeError struct{ t pfcpmsg.MsgType }

func (e *unsupportedMsgTypeError) Error() string {
	return "pfcptranslate: unsupported message type " + e.t.String()
}

func findType(ies []*ie.IE, t ie.Type) *ie.IE {
	for _, i := range ies {
		if i.Type == t {
			return i
		}
	}
	return nil
}

func findAllType(ies []*ie.IE, t ie.Type) []*ie.IE {
	var out []*ie.IE
	for _, i := range ies {
		if i.Type == t {
			out = append(out, i)
		}
	}
	return out
}
