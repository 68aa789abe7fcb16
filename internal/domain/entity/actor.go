package entity

// Actor identifies who requested a transition. Authentication happens
// upstream; the engine only cares about identity and role.
type Actor struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// Role constants
const (
	RoleHR      = "HR"
	RoleManager = "MANAGER"
	RoleCEO     = "CEO"
	RoleAdmin   = "ADMIN"
)

// Capability constants checked by the guard evaluator
const (
	CapabilityAssignHR            = "ASSIGN_HR"
	CapabilityAdvanceStatus       = "ADVANCE_STATUS"
	CapabilityCancelSelection     = "CANCEL_SELECTION"
	CapabilityApproveAnnouncement = "APPROVE_ANNOUNCEMENT"
)
