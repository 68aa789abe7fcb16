package workflow

import "testing"

func TestCanTransition_ForwardChain(t *testing.T) {
	chain := []Status{
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
	}

	for i := 0; i < len(chain)-1; i++ {
		if !CanTransition(chain[i], chain[i+1]) {
			t.Errorf("CanTransition(%s, %s) = false, want true", chain[i], chain[i+1])
		}
	}
}

func TestCanTransition_Cancellation(t *testing.T) {
	tests := []struct {
		from     Status
		expected bool
	}{
		{StatusInvoiceSettled, true},
		{StatusHRAssigned, true},
		{StatusFirstCallDone, true},
		{StatusJobCollectionPendingClient, false},
		{StatusJobCollectionApprovedClient, false},
		{StatusAnnouncementDraftPendingCEO, false},
		{StatusAnnouncementApproved, false},
		{StatusAnnouncementPublished, false},
		{StatusApplicationsReceived, false},
		{StatusInterviewsInProgress, false},
		{StatusCandidateProposed, false},
		{StatusClosed, false},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			if got := CanTransition(tt.from, StatusCancelled); got != tt.expected {
				t.Errorf("CanTransition(%s, CANCELLED) = %v, want %v", tt.from, got, tt.expected)
			}
			if got := CanCancelFrom(tt.from); got != tt.expected {
				t.Errorf("CanCancelFrom(%s) = %v, want %v", tt.from, got, tt.expected)
			}
		})
	}
}

func TestCanTransition_SelfTransitionsNeverAdjacent(t *testing.T) {
	for _, s := range AllStatuses() {
		if CanTransition(s, s) {
			t.Errorf("CanTransition(%s, %s) = true, self-loops must not be adjacent", s, s)
		}
	}
}

func TestCanTransition_NoBackEdges(t *testing.T) {
	chain := []Status{
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
	}

	for i := 1; i < len(chain); i++ {
		for j := 0; j < i; j++ {
			if CanTransition(chain[i], chain[j]) {
				t.Errorf("CanTransition(%s, %s) = true, table must have no back-edges", chain[i], chain[j])
			}
		}
	}
}

func TestCanTransition_TerminalStatesHaveNoSuccessors(t *testing.T) {
	for _, terminal := range []Status{StatusClosed, StatusCancelled} {
		if got := SuccessorsOf(terminal); len(got) != 0 {
			t.Errorf("SuccessorsOf(%s) = %v, want none", terminal, got)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	if CanTransition(Status("UNKNOWN"), StatusHRAssigned) {
		t.Error("unknown current status should not be adjacent to anything")
	}
	if CanTransition(StatusInvoiceSettled, Status("UNKNOWN")) {
		t.Error("unknown requested status should never be adjacent")
	}
}

func TestSuccessorsOf_ReturnsCopy(t *testing.T) {
	successors := SuccessorsOf(StatusInvoiceSettled)
	if len(successors) != 2 {
		t.Fatalf("SuccessorsOf(INVOICE_SETTLED) returned %d states, want 2", len(successors))
	}
	successors[0] = Status("MUTATED")
	if !CanTransition(StatusInvoiceSettled, StatusHRAssigned) {
		t.Error("mutating the returned slice must not affect the table")
	}
}
