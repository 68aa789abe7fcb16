package workflow

import "testing"

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusInvoiceSettled, false},
		{StatusHRAssigned, false},
		{StatusFirstCallDone, false},
		{StatusJobCollectionPendingClient, false},
		{StatusJobCollectionApprovedClient, false},
		{StatusAnnouncementDraftPendingCEO, false},
		{StatusAnnouncementApproved, false},
		{StatusAnnouncementPublished, false},
		{StatusApplicationsReceived, false},
		{StatusInterviewsInProgress, false},
		{StatusCandidateProposed, false},
		{StatusClosed, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"first state", StatusInvoiceSettled, true},
		{"terminal state", StatusClosed, true},
		{"cancel state", StatusCancelled, true},
		{"unknown state", Status("UNKNOWN"), false},
		{"empty state", Status(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsEarly(t *testing.T) {
	if !StatusInvoiceSettled.IsEarly() {
		t.Error("INVOICE_SETTLED should be early")
	}
	if !StatusHRAssigned.IsEarly() {
		t.Error("HR_ASSIGNED should be early")
	}
	if StatusFirstCallDone.IsEarly() {
		t.Error("FIRST_CALL_DONE should not be early")
	}
}

func TestAllStatuses(t *testing.T) {
	statuses := AllStatuses()
	if len(statuses) != 13 {
		t.Fatalf("AllStatuses() returned %d statuses, want 13", len(statuses))
	}
	for _, s := range statuses {
		if !s.IsValid() {
			t.Errorf("AllStatuses() contains invalid status %s", s)
		}
	}
	if statuses[0] != StatusInvoiceSettled {
		t.Errorf("first status = %s, want %s", statuses[0], StatusInvoiceSettled)
	}
}
