package payroll

import "errors"

var (
	// ErrInvalidStatus is returned when a status string is not one of the
	// lowercase invoice statuses.
	ErrInvalidStatus = errors.New("invalid invoice status")

	// ErrInvalidAction is returned for an unknown bulk action name.
	ErrInvalidAction = errors.New("invalid bulk action")

	// ErrInvalidRole is returned for a role outside Manager, Staff, Accountant.
	ErrInvalidRole = errors.New("invalid role")

	// ErrForbiddenAction is returned when the role may never run the action.
	ErrForbiddenAction = errors.New("role not allowed to perform this action")

	// ErrActionNotAvailable is returned when the role may run the action but
	// not while the period is in its current status.
	ErrActionNotAvailable = errors.New("action not available for current period status")

	// ErrOutOfRange is returned when a quantity or total is too large to be
	// stored in minor units.
	ErrOutOfRange = errors.New("amount out of range")
)
