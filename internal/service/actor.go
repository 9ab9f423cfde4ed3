package service

import (
	"payroll/internal/payroll"

	"github.com/google/uuid"
)

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	UserID uuid.UUID
	Role   payroll.Role
}

// CanAccess reports whether the actor may read or change data owned by
// ownerID. Reviewers access everything; Staff only their own rows.
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.Role.IsReviewer() || a.UserID == ownerID
}

// PeriodNotifier is told about every change that may move a period's
// aggregate status.
type PeriodNotifier interface {
	PeriodChanged(event PeriodEvent)
}

// PeriodEvent describes a period after a change.
type PeriodEvent struct {
	Period string               `json:"period"`
	Status payroll.PeriodStatus `json:"status"`
	Counts payroll.StatusCounts `json:"counts"`
	Cause  string               `json:"cause"`
}

type nopNotifier struct{}

func (nopNotifier) PeriodChanged(PeriodEvent) {}
