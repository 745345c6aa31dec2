package services

import "github.com/finbooks/posting-engine/internal/core/domain"

// roleGrants maps a role to the actions it may perform. Roles are additive;
// an actor with several roles gets the union of their grants.
var roleGrants = map[string][]domain.Action{
	"admin": {
		domain.ActionEdit, domain.ActionSubmit, domain.ActionApprove, domain.ActionReject,
		domain.ActionPost, domain.ActionReverse, domain.ActionReopenPeriod, domain.ActionBudgetOverride,
	},
	"accountant": {
		domain.ActionEdit, domain.ActionSubmit, domain.ActionPost, domain.ActionReverse,
	},
	"approver": {
		domain.ActionApprove, domain.ActionReject,
	},
	"controller": {
		domain.ActionApprove, domain.ActionReject, domain.ActionReopenPeriod, domain.ActionBudgetOverride,
	},
}

// PermissionService answers permission checks from the static role grant
// table. Grants travel with the JWT roles claim, so there is no database
// round trip.
type PermissionService struct{}

// NewPermissionService creates a new PermissionService.
func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// Allows reports whether any of the actor's roles grants the action.
func (s *PermissionService) Allows(actor domain.Actor, action domain.Action) bool {
	for _, role := range actor.Roles {
		for _, granted := range roleGrants[role] {
			if granted == action {
				return true
			}
		}
	}
	return false
}
