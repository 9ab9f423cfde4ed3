package service

import (
	"errors"
	"fmt"

	"payroll/internal/repository"
)

var (
	// ErrValidation is returned for malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateInvoice is returned when the user already has an invoice
	// for the month.
	ErrDuplicateInvoice = errors.New("an invoice for this user and month already exists")

	// ErrMissingConfiguration is returned when no Loc rates are configured.
	ErrMissingConfiguration = errors.New("rate configuration is missing")

	// ErrPeriodNotOpen is returned when the target period does not accept
	// invoice changes.
	ErrPeriodNotOpen = errors.New("period is not open for entry")

	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrStorage wraps every failure of the underlying store.
	ErrStorage = errors.New("storage failure")

	ErrInvalidCredentials = errors.New("invalid email or password")
)

// storageErr classifies a repository error. Missing rows become ErrNotFound,
// everything else ErrStorage; the original error stays in the chain.
func storageErr(op string, err error) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func validationErr(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
