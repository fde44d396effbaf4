package pfcpmsg

import "github.com/hieulven/pfcp-engine/internal/ie"

// maxRepeatable bounds the fixed-capacity repeatable-IE slots (CreatePDR,
// CreateFAR, ...) a single message struct can hold. TS 29.244 imposes no
// protocol-level cap; this is a session-shape limit generous enough for any
// realistic rule set without growing the struct unboundedly.
const maxRepeatable = 16

// HeartbeatRequest carries the sender's recovery time stamp.
type HeartbeatRequestMsg struct {
	RecoveryTimeStamp *ie.IE
}

func (m *HeartbeatRequestMsg) ToIEs() []*ie.IE {
	return nonNil(m.RecoveryTimeStamp)
}

// HeartbeatResponseMsg mirrors HeartbeatRequestMsg; Request back-references
// the request it answers (non-owning, set by the translator/transport
// layer on decode).
type HeartbeatResponseMsg struct {
	RecoveryTimeStamp *ie.IE
	Request           *HeartbeatRequestMsg
}

func (m *HeartbeatResponseMsg) ToIEs() []*ie.IE {
	return nonNil(m.RecoveryTimeStamp)
}

// AssociationSetupRequestMsg is the CP/UP function capability exchange that
// establishes a PFCP association.
type AssociationSetupRequestMsg struct {
	NodeID                *ie.IE
	RecoveryTimeStamp     *ie.IE
	UPFunctionFeatures    *ie.IE
	CPFunctionFeatures    *ie.IE
	UserPlaneIPResources  [maxRepeatable]*ie.IE
	nextUPResource        int
}

func (m *AssociationSetupRequestMsg) AddUserPlaneIPResource(i *ie.IE) bool {
	if m.nextUPResource >= maxRepeatable {
		return false
	}
	m.UserPlaneIPResources[m.nextUPResource] = i
	m.nextUPResource++
	return true
}

func (m *AssociationSetupRequestMsg) ToIEs() []*ie.IE {
	out := nonNil(m.NodeID, m.RecoveryTimeStamp, m.UPFunctionFeatures, m.CPFunctionFeatures)
	return append(out, m.UserPlaneIPResources[:m.nextUPResource]...)
}

type AssociationSetupResponseMsg struct {
	NodeID               *ie.IE
	Cause                *ie.IE
	RecoveryTimeStamp    *ie.IE
	UPFunctionFeatures   *ie.IE
	CPFunctionFeatures   *ie.IE
	UserPlaneIPResources [maxRepeatable]*ie.IE
	nextUPResource       int
	Request              *AssociationSetupRequestMsg
}

func (m *AssociationSetupResponseMsg) AddUserPlaneIPResource(i *ie.IE) bool {
	if m.nextUPResource >= maxRepeatable {
		return false
	}
	m.UserPlaneIPResources[m.nextUPResource] = i
	m.nextUPResource++
	return true
}

func (m *AssociationSetupResponseMsg) ToIEs() []*ie.IE {
	out := nonNil(m.NodeID, m.Cause, m.RecoveryTimeStamp, m.UPFunctionFeatures, m.CPFunctionFeatures)
	return append(out, m.UserPlaneIPResources[:m.nextUPResource]...)
}

// PFDManagementRequestMsg provisions packet flow descriptions for
// application detection: one Application ID's PFDs grouped IE per managed
// application.
type PFDManagementRequestMsg struct {
	ApplicationIDsPFDs [maxRepeatable]*ie.IE
	nextApp            int
}

func (m *PFDManagementRequestMsg) AddApplicationIDsPFDs(i *ie.IE) bool {
	return addSlot(&m.ApplicationIDsPFDs, &m.nextApp, i)
}

func (m *PFDManagementRequestMsg) ToIEs() []*ie.IE {
	return append([]*ie.IE(nil), m.ApplicationIDsPFDs[:m.nextApp]...)
}

type PFDManagementResponseMsg struct {
	Cause       *ie.IE
	OffendingIE *ie.IE
	Request     *PFDManagementRequestMsg
}

func (m *PFDManagementResponseMsg) ToIEs() []*ie.IE { return nonNil(m.Cause, m.OffendingIE) }

// AssociationUpdateRequestMsg renegotiates an established association's
// features, or — when the AssociationReleaseRequest IE is set — asks the
// peer to initiate a graceful release.
type AssociationUpdateRequestMsg struct {
	NodeID                    *ie.IE
	UPFunctionFeatures        *ie.IE
	CPFunctionFeatures        *ie.IE
	AssociationReleaseRequest *ie.IE
	GracefulReleasePeriod     *ie.IE
}

func (m *AssociationUpdateRequestMsg) ToIEs() []*ie.IE {
	return nonNil(m.NodeID, m.UPFunctionFeatures, m.CPFunctionFeatures,
		m.AssociationReleaseRequest, m.GracefulReleasePeriod)
}

type AssociationUpdateResponseMsg struct {
	NodeID             *ie.IE
	Cause              *ie.IE
	UPFunctionFeatures *ie.IE
	CPFunctionFeatures *ie.IE
	Request            *AssociationUpdateRequestMsg
}

func (m *AssociationUpdateResponseMsg) ToIEs() []*ie.IE {
	return nonNil(m.NodeID, m.Cause, m.UPFunctionFeatures, m.CPFunctionFeatures)
}

// AssociationReleaseRequestMsg and its response tear down an association.
type AssociationReleaseRequestMsg struct {
	NodeID *ie.IE
}

func (m *AssociationReleaseRequestMsg) ToIEs() []*ie.IE { return nonNil(m.NodeID) }

type AssociationReleaseResponseMsg struct {
	NodeID  *ie.IE
	Cause   *ie.IE
	Request *AssociationReleaseRequestMsg
}

func (m *AssociationReleaseResponseMsg) ToIEs() []*ie.IE { return nonNil(m.NodeID, m.Cause) }

// SessionEstablishmentRequestMsg creates a new PFCP session: a set of PDRs,
// FARs, URRs, QERs, and an optional BAR, keyed by the CP function's F-SEID.
type SessionEstablishmentRequestMsg struct {
	NodeID     *ie.IE
	FSEID      *ie.IE
	CreatePDRs [maxRepeatable]*ie.IE
	CreateFARs [maxRepeatable]*ie.IE
	CreateURRs [maxRepeatable]*ie.IE
	CreateQERs [maxRepeatable]*ie.IE
	CreateBAR  *ie.IE
	PDNType    *ie.IE
	UserID     *ie.IE
	APNDNN     *ie.IE

	nextPDR, nextFAR, nextURR, nextQER int
}

func (m *SessionEstablishmentRequestMsg) AddCreatePDR(i *ie.IE) bool {
	return addSlot(&m.CreatePDRs, &m.nextPDR, i)
}
func (m *SessionEstablishmentRequestMsg) AddCreateFAR(i *ie.IE) bool {
	return addSlot(&m.CreateFARs, &m.nextFAR, i)
}
func (m *SessionEstablishmentRequestMsg) AddCreateURR(i *ie.IE) bool {
	return addSlot(&m.CreateURRs, &m.nextURR, i)
}
func (m *SessionEstablishmentRequestMsg) AddCreateQER(i *ie.IE) bool {
	return addSlot(&m.CreateQERs, &m.nextQER, i)
}

func (m *SessionEstablishmentRequestMsg) ToIEs() []*ie.IE {
	out := nonNil(m.NodeID, m.FSEID)
	out = append(out, m.CreatePDRs[:m.nextPDR]...)
	out = append(out, m.CreateFARs[:m.nextFAR]...)
	out = append(out, m.CreateURRs[:m.nextURR]...)
	out = append(out, m.CreateQERs[:m.nextQER]...)
	out = append(out, nonNil(m.CreateBAR, m.PDNType, m.UserID, m.APNDNN)...)
	return out
}

type SessionEstablishmentResponseMsg struct {
	NodeID      *ie.IE
	Cause       *ie.IE
	OffendingIE *ie.IE
	FSEID       *ie.IE
	CreatedPDRs [maxRepeatable]*ie.IE
	nextPDR     int
	Request     *SessionEstablishmentRequestMsg
}

func (m *SessionEstablishmentResponseMsg) AddCreatedPDR(i *ie.IE) bool {
	return addSlot(&m.CreatedPDRs, &m.nextPDR, i)
}

func (m *SessionEstablishmentResponseMsg) ToIEs() []*ie.IE {
	out := nonNil(m.NodeID, m.Cause, m.OffendingIE, m.FSEID)
	return append(out, m.CreatedPDRs[:m.nextPDR]...)
}

// SessionModificationRequestMsg updates a subset of an existing session's
// rules; every repeatable slot may be empty if the modification does not
// touch that rule type.
type SessionModificationRequestMsg struct {
	FSEID      *ie.IE // present only when the CP function's F-SEID changed
	UpdatePDRs [maxRepeatable]*ie.IE
	UpdateFARs [maxRepeatable]*ie.IE
	UpdateURRs [maxRepeatable]*ie.IE
	UpdateQERs [maxRepeatable]*ie.IE
	RemovePDRs [maxRepeatable]*ie.IE
	RemoveFARs [maxRepeatable]*ie.IE
	RemoveURRs [maxRepeatable]*ie.IE
	RemoveQERs [maxRepeatable]*ie.IE
	CreatePDRs [maxRepeatable]*ie.IE
	CreateFARs [maxRepeatable]*ie.IE

	nextUpdatePDR, nextUpdateFAR, nextUpdateURR, nextUpdateQER int
	nextRemovePDR, nextRemoveFAR, nextRemoveURR, nextRemoveQER int
	nextCreatePDR, nextCreateFAR                               int
}

func (m *SessionModificationRequestMsg) AddUpdatePDR(i *ie.IE) bool {
	return addSlot(&m.UpdatePDRs, &m.nextUpdatePDR, i)
}
func (m *SessionModificationRequestMsg) AddUpdateFAR(i *ie.IE) bool {
	return addSlot(&m.UpdateFARs, &m.nextUpdateFAR, i)
}
func (m *SessionModificationRequestMsg) AddUpdateURR(i *ie.IE) bool {
	return addSlot(&m.UpdateURRs, &m.nextUpdateURR, i)
}
func (m *SessionModificationRequestMsg) AddUpdateQER(i *ie.IE) bool {
	return addSlot(&m.UpdateQERs, &m.nextUpdateQER, i)
}
func (m *SessionModificationRequestMsg) AddRemovePDR(i *ie.IE) bool {
	return addSlot(&m.RemovePDRs, &m.nextRemovePDR, i)
}
func (m *SessionModificationRequestMsg) AddRemoveFAR(i *ie.IE) bool {
	return addSlot(&m.RemoveFARs, &m.nextRemoveFAR, i)
}
func (m *SessionModificationRequestMsg) AddRemoveURR(i *ie.IE) bool {
	return addSlot(&m.RemoveURRs, &m.nextRemoveURR, i)
}
func (m *SessionModificationRequestMsg) AddRemoveQER(i *ie.IE) bool {
	return addSlot(&m.RemoveQERs, &m.nextRemoveQER, i)
}
func (m *SessionModificationRequestMsg) AddCreatePDR(i *ie.IE) bool {
	return addSlot(&m.CreatePDRs, &m.nextCreatePDR, i)
}
func (m *SessionModificationRequestMsg) AddCreateFAR(i *ie.IE) bool {
	return addSlot(&m.CreateFARs, &m.nextCreateFAR, i)
}

func (m *SessionModificationRequestMsg) ToIEs() []*ie.IE {
	out := nonNil(m.FSEID)
	out = append(out, m.CreatePDRs[:m.nextCreatePDR]...)
	out = append(out, m.CreateFARs[:m.nextCreateFAR]...)
	out = append(out, m.UpdatePDRs[:m.nextUpdatePDR]...)
	out = append(out, m.UpdateFARs[:m.nextUpdateFAR]...)
	out = append(out, m.UpdateURRs[:m.nextUpdateURR]...)
	out = append(out, m.UpdateQERs[:m.nextUpdateQER]...)
	out = append(out, m.RemovePDRs[:m.nextRemovePDR]...)
	out = append(out, m.RemoveFARs[:m.nextRemoveFAR]...)
	out = append(out, m.RemoveURRs[:m.nextRemoveURR]...)
	out = append(out, m.RemoveQERs[:m.nextRemoveQER]...)
	return out
}

type SessionModificationResponseMsg struct {
	Cause       *ie.IE
	OffendingIE *ie.IE
	FSEID       *ie.IE
	Request     *SessionModificationRequestMsg
}

func (m *SessionModificationResponseMsg) ToIEs() []*ie.IE {
	return nonNil(m.Cause, m.OffendingIE, m.FSEID)
}

// SessionDeletionRequestMsg carries no mandatory IEs beyond the header's
// SEID; it is included for symmetry with the response and to allow future
// IEs (e.g. trace deactivation) without a breaking change.
type SessionDeletionRequestMsg struct{}

func (m *SessionDeletionRequestMsg) ToIEs() []*ie.IE { return nil }

type SessionDeletionResponseMsg struct {
	Cause        *ie.IE
	UsageReports [maxRepeatable]*ie.IE
	nextReport   int
	Request      *SessionDeletionRequestMsg
}

func (m *SessionDeletionResponseMsg) AddUsageReport(i *ie.IE) bool {
	return addSlot(&m.UsageReports, &m.nextReport, i)
}

func (m *SessionDeletionResponseMsg) ToIEs() []*ie.IE {
	return append(nonNil(m.Cause), m.UsageReports[:m.nextReport]...)
}

// SessionReportRequestMsg is UP-function-initiated: a downlink-data
// notification, a usage report, or an error indication about a session.
type SessionReportRequestMsg struct {
	ReportType          *ie.IE
	DownlinkDataReport  *ie.IE
	UsageReports        [maxRepeatable]*ie.IE
	ErrorIndicationReport *ie.IE
	nextReport          int
}

func (m *SessionReportRequestMsg) AddUsageReport(i *ie.IE) bool {
	return addSlot(&m.UsageReports, &m.nextReport, i)
}

func (m *SessionReportRequestMsg) ToIEs() []*ie.IE {
	out := nonNil(m.ReportType, m.DownlinkDataReport, m.ErrorIndicationReport)
	return append(out, m.UsageReports[:m.nextReport]...)
}

type SessionReportResponseMsg struct {
	Cause                *ie.IE
	OffendingIE          *ie.IE
	UpdateFARsForBuffer  [maxRepeatable]*ie.IE
	nextUpdateFAR        int
	Request              *SessionReportRequestMsg
}

func (m *SessionReportResponseMsg) AddUpdateFAR(i *ie.IE) bool {
	return addSlot(&m.UpdateFARsForBuffer, &m.nextUpdateFAR, i)
}

func (m *SessionReportResponseMsg) ToIEs() []*ie.IE {
	out := nonNil(m.Cause, m.OffendingIE)
	return append(out, m.UpdateFARsForBuffer[:m.nextUpdateFAR]...)
}

// NodeReportRequestMsg/ResponseMsg carry the node-level reporting procedure
// (TS 29.244 §7.4.5.1): the UP function tells its CP peer about user plane
// path failures toward remote GTP-U endpoints.
type NodeReportRequestMsg struct {
	NodeID                     *ie.IE
	NodeReportType             *ie.IE
	UserPlanePathFailureReport *ie.IE
}

func (m *NodeReportRequestMsg) ToIEs() []*ie.IE {
	return nonNil(m.NodeID, m.NodeReportType, m.UserPlanePathFailureReport)
}

type NodeReportResponseMsg struct {
	NodeID  *ie.IE
	Cause   *ie.IE
	Request *NodeReportRequestMsg
}

func (m *NodeReportResponseMsg) ToIEs() []*ie.IE { return nonNil(m.NodeID, m.Cause) }

// SessionSetDeletionRequestMsg/ResponseMsg let a peer tear down every
// session sharing an FQ-CSID in one round trip (TS 29.244 §7.4.5.3).
type SessionSetDeletionRequestMsg struct {
	NodeID *ie.IE
	FQCSID *ie.IE
}

func (m *SessionSetDeletionRequestMsg) ToIEs() []*ie.IE { return nonNil(m.NodeID, m.FQCSID) }

type SessionSetDeletionResponseMsg struct {
	NodeID  *ie.IE
	Cause   *ie.IE
	Request *SessionSetDeletionRequestMsg
}

func (m *SessionSetDeletionResponseMsg) ToIEs() []*ie.IE { return nonNil(m.NodeID, m.Cause) }

// VersionNotSupportedResponseMsg carries no IEs; the header alone tells the
// peer to stop speaking this protocol version.
type VersionNotSupportedResponseMsg struct{}

func (m *VersionNotSupportedResponseMsg) ToIEs() []*ie.IE { return nil }

func addSlot(slots *[maxRepeatable]*ie.IE, next *int, i *ie.IE) bool {
	if *next >= maxRepeatable {
		return false
	}
	slots[*next] = i
	*next++
	return true
}

func nonNil(ies ...*ie.IE) []*ie.IE {
	out := make([]*ie.IE, 0, len(ies))
	for _, i := range ies {
		if i != nil {
			out = append(out, i)
		}
	}
	return out
}
