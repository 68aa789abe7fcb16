package event

// Type identifies the type of domain event
type Type string

const (
	TypeSelectionCreated Type = "selection.created"
	TypeStatusChanged    Type = "selection.status_changed"
	TypeDraftRejected    Type = "selection.draft_rejected"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeSelectionCreated, TypeStatusChanged, TypeDraftRejected:
		return true
	default:
		return false
	}
}
