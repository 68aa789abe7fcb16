package service

import (
	"context"

	"github.com/talentops/recruiting-ops/internal/domain/entity"
	domainwf "github.com/talentops/recruiting-ops/internal/domain/workflow"
)

// roleCapabilities is the static role -> capability matrix. HR runs the
// day-to-day pipeline; cancellation and announcement approval stay with
// the CEO (and ADMIN, which holds everything).
var roleCapabilities = map[string]map[string]bool{
	entity.RoleHR: {
		entity.CapabilityAssignHR:      true,
		entity.CapabilityAdvanceStatus: true,
	},
	entity.RoleManager: {
		entity.CapabilityAdvanceStatus: true,
	},
	entity.RoleCEO: {
		entity.CapabilityAssignHR:            true,
		entity.CapabilityAdvanceStatus:       true,
		entity.CapabilityCancelSelection:     true,
		entity.CapabilityApproveAnnouncement: true,
	},
	entity.RoleAdmin: {
		entity.CapabilityAssignHR:            true,
		entity.CapabilityAdvanceStatus:       true,
		entity.CapabilityCancelSelection:     true,
		entity.CapabilityApproveAnnouncement: true,
	},
}

// CapabilityService answers capability checks from the static role
// matrix. It implements the checker interface the guard evaluator and
// engine depend on.
type CapabilityService struct{}

// NewCapabilityService creates a capability service
func NewCapabilityService() *CapabilityService {
	return &CapabilityService{}
}

// HasCapability reports whether the actor's role grants the capability
func (s *CapabilityService) HasCapability(ctx context.Context, actor entity.Actor, capability string) bool {
	return roleCapabilities[actor.Role][capability]
}

// Verify interface compliance
var _ domainwf.CapabilityChecker = (*CapabilityService)(nil)
