package entity

import "time"

// Selection represents one recruiting engagement for a client company
// and a professional-figure vacancy.
type Selection struct {
	ID            int64      `json:"id"`
	Status        string     `json:"status"`
	Package       string     `json:"package"`
	ClientCompany string     `json:"client_company"`
	PositionTitle string     `json:"position_title"`
	AssignedHR    *string    `json:"assigned_hr,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	// Version increments on every committed transition and backs the
	// optimistic-concurrency check at commit time.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpectedInvoices returns how many invoices the selection's package
// is billed with.
func (s *Selection) ExpectedInvoices() int {
	if s.Package == PackageMDO {
		return 3
	}
	return 2
}
