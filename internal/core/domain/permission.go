package domain

// Action is a guarded operation an actor may attempt on the engine.
type Action string

const (
	ActionEdit           Action = "transaction:edit"
	ActionSubmit         Action = "transaction:submit"
	ActionApprove        Action = "transaction:approve"
	ActionReject         Action = "transaction:reject"
	ActionPost           Action = "transaction:post"
	ActionReverse        Action = "transaction:reverse"
	ActionReopenPeriod   Action = "period:reopen"
	ActionBudgetOverride Action = "budget:override"
)

// Actor is the authenticated identity performing an operation, as carried by
// the JWT subject and roles claims.
type Actor struct {
	UserID string   `json:"userID"`
	Roles  []string `json:"roles"`
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
