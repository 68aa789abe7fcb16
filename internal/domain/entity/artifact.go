package entity

import "time"

// Invoice is a billing artifact linked to a selection. The engine only
// ever reads settlement state; issuing and settling invoices belongs to
// the invoicing integration.
type Invoice struct {
	ID          int64      `json:"id"`
	SelectionID int64      `json:"selection_id"`
	Sequence    int        `json:"sequence"`
	AmountCents int64      `json:"amount_cents"`
	Paid        bool       `json:"paid"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// JobCollection is the job-description-collection artifact a client
// fills in and approves before an announcement can be drafted.
type JobCollection struct {
	ID             int64      `json:"id"`
	SelectionID    int64      `json:"selection_id"`
	ClientApproved bool       `json:"client_approved"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// AnnouncementDraft is the vacancy-announcement artifact awaiting CEO
// approval before publication.
type AnnouncementDraft struct {
	ID          int64      `json:"id"`
	SelectionID int64      `json:"selection_id"`
	CEOApproved bool       `json:"ceo_approved"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Notification is a queued status-change notification. Delivery is
// best-effort and decoupled from the transition that produced it.
type Notification struct {
	ID             int64      `json:"id"`
	SelectionID    int64      `json:"selection_id"`
	PreviousStatus string     `json:"previous_status"`
	NewStatus      string     `json:"new_status"`
	ActorID        string     `json:"actor_id,omitempty"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
