package workflow

// transitionTable is the single source of truth for state adjacency.
// The progression is linear with one branch: the three earliest states
// may also transition to CANCELLED. There are no back-edges; the one
// sanctioned regression (announcement-draft rejection) is a separate
// operation on the engine, not a table edge, so the audit log stays a
// forward-only timeline.
var transitionTable = map[Status][]Status{
	StatusInvoiceSettled:              {StatusHRAssigned, StatusCancelled},
	StatusHRAssigned:                  {StatusFirstCallDone, StatusCancelled},
	StatusFirstCallDone:               {StatusJobCollectionPendingClient, StatusCancelled},
	StatusJobCollectionPendingClient:  {StatusJobCollectionApprovedClient},
	StatusJobCollectionApprovedClient: {StatusAnnouncementDraftPendingCEO},
	StatusAnnouncementDraftPendingCEO: {StatusAnnouncementApproved},
	StatusAnnouncementApproved:        {StatusAnnouncementPublished},
	StatusAnnouncementPublished:       {StatusApplicationsReceived},
	StatusApplicationsReceived:        {StatusInterviewsInProgress},
	StatusInterviewsInProgress:        {StatusCandidateProposed},
	StatusCandidateProposed:           {StatusClosed},
}

// CanTransition reports whether requested is a direct successor of
// current in the transition table. Unknown states and self-transitions
// yield false, never a panic.
func CanTransition(current, requested Status) bool {
	for _, next := range transitionTable[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// SuccessorsOf returns the states directly reachable from current.
// Terminal and unknown states have no successors.
func SuccessorsOf(current Status) []Status {
	successors := transitionTable[current]
	out := make([]Status, len(successors))
	copy(out, successors)
	return out
}

// CanCancelFrom reports whether the early-stage abort window is still
// open at the given status.
func CanCancelFrom(current Status) bool {
	return CanTransition(current, StatusCancelled)
}
