package entity

import "time"

// StatusHistoryEntry is one immutable audit record of a selection's
// lifecycle. Entries are append-only: created exactly once per accepted
// transition, in the same transaction as the status mutation, and never
// updated or deleted afterwards.
type StatusHistoryEntry struct {
	ID             int64  `json:"id"`
	SelectionID    int64  `json:"selection_id"`
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	// ActorID is empty for system-initiated records such as the
	// creation entry.
	ActorID   string     `json:"actor_id,omitempty"`
	Note      string     `json:"note,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
}
