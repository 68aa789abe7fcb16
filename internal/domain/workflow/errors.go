package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the selection does not exist
	ErrNotFound = errors.New("selection not found")

	// ErrTerminalState is returned for transition attempts on a
	// CLOSED or CANCELLED selection
	ErrTerminalState = errors.New("selection is in a terminal state")

	// ErrIllegalTransition is returned when the requested status is
	// not an adjacency-table successor of the current status
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrGuardDenied is returned when a guard rejected an otherwise
	// adjacent transition
	ErrGuardDenied = errors.New("transition denied by guard")

	// ErrConflict is returned when a concurrent modification is
	// detected at commit time; callers may retry
	ErrConflict = errors.New("selection was modified concurrently")
)

// DenialReason names which guard condition failed
type DenialReason string

const (
	ReasonInsufficientPermissions  DenialReason = "INSUFFICIENT_PERMISSIONS"
	ReasonHRAlreadyAssigned        DenialReason = "HR_ALREADY_ASSIGNED"
	ReasonArtifactNotApproved      DenialReason = "ARTIFACT_NOT_APPROVED"
	ReasonCancellationWindowClosed DenialReason = "CANCELLATION_WINDOW_CLOSED"
)

// GuardDeniedError carries the specific denial reason so callers can
// surface actionable guidance instead of a generic failure.
type GuardDeniedError struct {
	Reason    DenialReason
	Current   Status
	Requested Status
}

func (e *GuardDeniedError) Error() string {
	return fmt.Sprintf("transition %s -> %s denied: %s", e.Current, e.Requested, e.Reason)
}

// Unwrap makes errors.Is(err, ErrGuardDenied) hold for every denial
func (e *GuardDeniedError) Unwrap() error {
	return ErrGuardDenied
}

// DeniedReason extracts the denial reason from an error chain, if any
func DeniedReason(err error) (DenialReason, bool) {
	var denied *GuardDeniedError
	if errors.As(err, &denied) {
		return denied.Reason, true
	}
	return "", false
}
