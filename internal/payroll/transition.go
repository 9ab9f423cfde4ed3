package payroll

import (
	"fmt"

	"payroll/internal/model"
)

// Role is the acting user's type as carried in the access token.
type Role string

const (
	RoleManager    Role = model.UserTypeManager
	RoleStaff      Role = model.UserTypeStaff
	RoleAccountant Role = model.UserTypeAccountant
)

// ParseRole compares s exactly against the known roles.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleManager, RoleStaff, RoleAccountant:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// IsReviewer reports whether the role reviews other users' invoices.
func (r Role) IsReviewer() bool {
	return r == RoleManager || r == RoleAccountant
}

// BulkAction is a status change applied to every matching invoice of a
// period at once.
type BulkAction string

const (
	ActionApproveAll BulkAction = "approve-all"
	ActionResubmit   BulkAction = "resubmit"
	ActionSubmit     BulkAction = "submit"
)

var bulkActions = []BulkAction{ActionApproveAll, ActionResubmit, ActionSubmit}

// ParseBulkAction maps an action name onto a BulkAction.
func ParseBulkAction(s string) (BulkAction, error) {
	for _, a := range bulkActions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
}

// Transition is a planned bulk status change. An empty From matches every
// invoice of the period.
type Transition struct {
	Action BulkAction      `json:"action"`
	From   []InvoiceStatus `json:"from,omitempty"`
	To     InvoiceStatus   `json:"to"`
}

// Matches reports whether an invoice in status s is changed by t.
func (t Transition) Matches(s InvoiceStatus) bool {
	if len(t.From) == 0 {
		return true
	}
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return false
}

// Apply returns the status an invoice in status s ends up with.
func (t Transition) Apply(s InvoiceStatus) InvoiceStatus {
	if t.Matches(s) {
		return t.To
	}
	return s
}

// FromStrings returns From as plain strings for use in queries.
func (t Transition) FromStrings() []string {
	out := make([]string, 0, len(t.From))
	for _, f := range t.From {
		out = append(out, string(f))
	}
	return out
}

// Plan checks that role may run action while the period is in status
// current and returns the transition to apply.
func Plan(action BulkAction, role Role, current PeriodStatus) (Transition, error) {
	switch action {
	case ActionApproveAll:
		if role != RoleManager {
			return Transition{}, fmt.Errorf("%w: %s requires %s", ErrForbiddenAction, action, RoleManager)
		}
		if current != PeriodInProgress {
			return Transition{}, fmt.Errorf("%w: %s while %s", ErrActionNotAvailable, action, current)
		}
		return Transition{
			Action: action,
			From:   []InvoiceStatus{StatusPending, StatusRejected},
			To:     StatusApproved,
		}, nil
	case ActionResubmit:
		if role != RoleAccountant {
			return Transition{}, fmt.Errorf("%w: %s requires %s", ErrForbiddenAction, action, RoleAccountant)
		}
		return Transition{Action: action, To: StatusPending}, nil
	case ActionSubmit:
		if role != RoleAccountant {
			return Transition{}, fmt.Errorf("%w: %s requires %s", ErrForbiddenAction, action, RoleAccountant)
		}
		return Transition{Action: action, To: StatusApproved}, nil
	}
	return Transition{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
}

// AvailableActions lists the bulk actions role may run while the period is
// in status current.
func AvailableActions(role Role, current PeriodStatus) []BulkAction {
	out := []BulkAction{}
	for _, a := range bulkActions {
		if _, err := Plan(a, role, current); err == nil {
			out = append(out, a)
		}
	}
	return out
}
