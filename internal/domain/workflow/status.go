package workflow

// Status represents a selection's position in the recruiting lifecycle
type Status string

const (
	StatusInvoiceSettled              Status = "INVOICE_SETTLED"
	StatusHRAssigned                  Status = "HR_ASSIGNED"
	StatusFirstCallDone               Status = "FIRST_CALL_DONE"
	StatusJobCollectionPendingClient  Status = "JOB_COLLECTION_PENDING_CLIENT"
	StatusJobCollectionApprovedClient Status = "JOB_COLLECTION_APPROVED_CLIENT"
	StatusAnnouncementDraftPendingCEO Status = "ANNOUNCEMENT_DRAFT_PENDING_CEO"
	StatusAnnouncementApproved        Status = "ANNOUNCEMENT_APPROVED"
	StatusAnnouncementPublished       Status = "ANNOUNCEMENT_PUBLISHED"
	StatusApplicationsReceived        Status = "APPLICATIONS_RECEIVED"
	StatusInterviewsInProgress        Status = "INTERVIEWS_IN_PROGRESS"
	StatusCandidateProposed           Status = "CANDIDATE_PROPOSED"
	StatusClosed                      Status = "CLOSED"
	StatusCancelled                   Status = "CANCELLED"
)

var validStatuses = map[Status]bool{
	StatusInvoiceSettled:              true,
	StatusHRAssigned:                  true,
	StatusFirstCallDone:               true,
	StatusJobCollectionPendingClient:  true,
	StatusJobCollectionApprovedClient: true,
	StatusAnnouncementDraftPendingCEO: true,
	StatusAnnouncementApproved:        true,
	StatusAnnouncementPublished:       true,
	StatusApplicationsReceived:        true,
	StatusInterviewsInProgress:        true,
	StatusCandidateProposed:           true,
	StatusClosed:                      true,
	StatusCancelled:                   true,
}

var terminalStatuses = map[Status]bool{
	StatusClosed:    true,
	StatusCancelled: true,
}

// earlyStatuses are the states the RoleGuard treats as pre-operational:
// reaching them does not require the ADVANCE_STATUS capability.
var earlyStatuses = map[Status]bool{
	StatusInvoiceSettled: true,
	StatusHRAssigned:     true,
}

// IsTerminal returns true if the status has no outgoing transitions
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsValid returns true if the status is a member of the enumerated state set
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// IsEarly returns true for the states reachable without the
// ADVANCE_STATUS capability
func (s Status) IsEarly() bool {
	return earlyStatuses[s]
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns every enumerated status in forward order, with the
// terminal cancel state last.
func AllStatuses() []Status {
	return []Status{
		StatusInvoiceSettled,
		StatusHRAssigned,
		StatusFirstCallDone,
		StatusJobCollectionPendingClient,
		StatusJobCollectionApprovedClient,
		StatusAnnouncementDraftPendingCEO,
		StatusAnnouncementApproved,
		StatusAnnouncementPublished,
		StatusApplicationsReceived,
		StatusInterviewsInProgress,
		StatusCandidateProposed,
		StatusClosed,
		StatusCancelled,
	}
}
