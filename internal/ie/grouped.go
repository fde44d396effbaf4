package ie

// Named constructors for the grouped containers. Each is a thin wrapper
// over NewGrouped so call sites read as the rule they build rather than a
// bare type constant; the children are whatever leaf or nested grouped IEs
// the enclosing message requires.

// NewCreatePDR builds a Create PDR grouped IE (PDR ID, Precedence, PDI, and
// the optional outer-header-removal/FAR/URR/QER references).
func NewCreatePDR(children ...*IE) *IE { return NewGrouped(CreatePDR, children...) }

// NewPDI builds a PDI grouped IE: the packet detection information of a PDR
// (source interface, local F-TEID, network instance, UE IP, filters).
func NewPDI(children ...*IE) *IE { return NewGrouped(PDI, children...) }

// NewCreateFAR builds a Create FAR grouped IE (FAR ID, Apply Action, and
// forwarding/duplicating parameters).
func NewCreateFAR(children ...*IE) *IE { return NewGrouped(CreateFAR, children...) }

// NewForwardingParameters builds a Forwarding Parameters grouped IE.
func NewForwardingParameters(children ...*IE) *IE {
	return NewGrouped(ForwardingParameters, children...)
}

// NewDuplicatingParameters builds a Duplicating Parameters grouped IE.
func NewDuplicatingParameters(children ...*IE) *IE {
	return NewGrouped(DuplicatingParameters, children...)
}

// NewCreateURR builds a Create URR grouped IE (URR ID, measurement method,
// reporting triggers, thresholds and quotas).
func NewCreateURR(children ...*IE) *IE { return NewGrouped(CreateURR, children...) }

// NewCreateQER builds a Create QER grouped IE (QER ID, gate status, MBR/GBR,
// QFI).
func NewCreateQER(children ...*IE) *IE { return NewGrouped(CreateQER, children...) }

// NewCreateBAR builds a Create BAR grouped IE.
func NewCreateBAR(children ...*IE) *IE { return NewGrouped(CreateBAR, children...) }

// NewCreateTrafficEndpoint builds a Create Traffic Endpoint grouped IE.
func NewCreateTrafficEndpoint(children ...*IE) *IE {
	return NewGrouped(CreateTrafficEndpoint, children...)
}

// NewCreatedPDR builds a Created PDR grouped IE, echoed in an establishment
// or modification response with any UP-chosen F-TEID.
func NewCreatedPDR(children ...*IE) *IE { return NewGrouped(CreatedPDR, children...) }

// NewCreatedTrafficEndpoint builds a Created Traffic Endpoint grouped IE.
func NewCreatedTrafficEndpoint(children ...*IE) *IE {
	return NewGrouped(CreatedTrafficEndpoint, children...)
}

// NewUpdatePDR builds an Update PDR grouped IE.
func NewUpdatePDR(children ...*IE) *IE { return NewGrouped(UpdatePDR, children...) }

// NewUpdateFAR builds an Update FAR grouped IE.
func NewUpdateFAR(children ...*IE) *IE { return NewGrouped(UpdateFAR, children...) }

// NewUpdateForwardingParameters builds an Update Forwarding Parameters
// grouped IE.
func NewUpdateForwardingParameters(children ...*IE) *IE {
	return NewGrouped(UpdateForwardingParameters, children...)
}

// NewUpdateDuplicatingParameters builds an Update Duplicating Parameters
// grouped IE.
func NewUpdateDuplicatingParameters(children ...*IE) *IE {
	return NewGrouped(UpdateDuplicatingParameters, children...)
}

// NewUpdateURR builds an Update URR grouped IE.
func NewUpdateURR(children ...*IE) *IE { return NewGrouped(UpdateURR, children...) }

// NewUpdateQER builds an Update QER grouped IE.
func NewUpdateQER(children ...*IE) *IE { return NewGrouped(UpdateQER, children...) }

// NewUpdateBARSessionModification builds the Update BAR variant carried in a
// Session Modification Request.
func NewUpdateBARSessionModification(children ...*IE) *IE {
	return NewGrouped(UpdateBARSessionModReq, children...)
}

// NewUpdateBARSessionReport builds the Update BAR variant carried in a
// Session Report Response.
func NewUpdateBARSessionReport(children ...*IE) *IE {
	return NewGrouped(UpdateBARSessionReportRsp, children...)
}

// NewUpdateTrafficEndpoint builds an Update Traffic Endpoint grouped IE.
func NewUpdateTrafficEndpoint(children ...*IE) *IE {
	return NewGrouped(UpdateTrafficEndpoint, children...)
}

// NewRemovePDR builds a Remove PDR grouped IE around the rule's ID.
func NewRemovePDR(pdrID *IE) *IE { return NewGrouped(RemovePDR, pdrID) }

// NewRemoveFAR builds a Remove FAR grouped IE.
func NewRemoveFAR(farID *IE) *IE { return NewGrouped(RemoveFAR, farID) }

// NewRemoveURR builds a Remove URR grouped IE.
func NewRemoveURR(urrID *IE) *IE { return NewGrouped(RemoveURR, urrID) }

// NewRemoveQER builds a Remove QER grouped IE.
func NewRemoveQER(qerID *IE) *IE { return NewGrouped(RemoveQER, qerID) }

// NewRemoveBAR builds a Remove BAR grouped IE.
func NewRemoveBAR(barID *IE) *IE { return NewGrouped(RemoveBAR, barID) }

// NewRemoveTrafficEndpoint builds a Remove Traffic Endpoint grouped IE.
func NewRemoveTrafficEndpoint(trafficEndpointID *IE) *IE {
	return NewGrouped(RemoveTrafficEndpoint, trafficEndpointID)
}

// NewQueryURR builds a Query URR grouped IE asking the UP function for an
// immediate usage report on the referenced URR.
func NewQueryURR(urrID *IE) *IE { return NewGrouped(QueryURR, urrID) }

// NewUsageReportSMR builds the Usage Report variant carried in a Session
// Modification Response.
func NewUsageReportSMR(children ...*IE) *IE { return NewGrouped(UsageReportSMR, children...) }

// NewUsageReportSDR builds the Usage Report variant carried in a Session
// Deletion Response.
func NewUsageReportSDR(children ...*IE) *IE { return NewGrouped(UsageReportSDR, children...) }

// NewUsageReportSRR builds the Usage Report variant carried in a Session
// Report Request.
func NewUsageReportSRR(children ...*IE) *IE { return NewGrouped(UsageReportSRR, children...) }

// NewAggregatedURRs builds an Aggregated URRs grouped IE (Aggregated URR ID
// + Multiplier).
func NewAggregatedURRs(children ...*IE) *IE { return NewGrouped(AggregatedURRs, children...) }

// NewDownlinkDataReport builds a Downlink Data Report grouped IE (PDR ID +
// optional downlink data service information).
func NewDownlinkDataReport(children ...*IE) *IE {
	return NewGrouped(DownlinkDataReport, children...)
}

// NewErrorIndicationReport builds an Error Indication Report grouped IE
// listing the remote F-TEIDs that drew GTP-U error indications.
func NewErrorIndicationReport(fteids ...*IE) *IE {
	return NewGrouped(ErrorIndicationReport, fteids...)
}

// NewApplicationDetectionInformation builds an Application Detection
// Information grouped IE.
func NewApplicationDetectionInformation(children ...*IE) *IE {
	return NewGrouped(ApplicationDetectionInfo, children...)
}

// NewUserPlanePathFailureReport builds a User Plane Path Failure Report
// grouped IE listing the unreachable remote GTP-U peers.
func NewUserPlanePathFailureReport(remoteGTPUPeers ...*IE) *IE {
	return NewGrouped(UserPlanePathFailureReport, remoteGTPUPeers...)
}

// NewApplicationIDsPFDs builds an Application ID's PFDs grouped IE: the
// application ID plus its PFD contexts.
func NewApplicationIDsPFDs(children ...*IE) *IE {
	return NewGrouped(ApplicationIDsPFDs, children...)
}

// NewPFDContext builds a PFD context grouped IE wrapping PFD contents.
func NewPFDContext(pfdContents ...*IE) *IE { return NewGrouped(PFDContext, pfdContents...) }

// NewLoadControlInformation builds a Load Control Information grouped IE
// (sequence number + metric).
func NewLoadControlInformation(children ...*IE) *IE {
	return NewGrouped(LoadControlInformation, children...)
}

// NewOverloadControlInformation builds an Overload Control Information
// grouped IE (sequence number, metric, validity timer, OCI flags).
func NewOverloadControlInformation(children ...*IE) *IE {
	return NewGrouped(OverloadControlInformation, children...)
}
