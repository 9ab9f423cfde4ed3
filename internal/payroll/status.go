package payroll

import (
	"fmt"

	"payroll/internal/model"
)

// InvoiceStatus is the review state of a single invoice.
type InvoiceStatus string

const (
	StatusPending  InvoiceStatus = model.InvoicePending
	StatusApproved InvoiceStatus = model.InvoiceApproved
	StatusRejected InvoiceStatus = model.InvoiceRejected
)

// ParseInvoiceStatus accepts only the lowercase statuses. "Approved" and
// other casings are rejected.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return InvoiceStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// PeriodStatus is the aggregate status of all invoices of a period. It is
// derived on every read and never stored.
type PeriodStatus string

const (
	PeriodSubmitted  PeriodStatus = "SUBMITTED"
	PeriodInProgress PeriodStatus = "In Progress"
	PeriodApproved   PeriodStatus = "APPROVED"
)

// StatusCounts is the number of invoices per status within a period.
// Invalid counts rows whose stored status is not a known lowercase status;
// they do not take part in aggregation.
type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Invalid  int64 `json:"invalid,omitempty"`
}

// Add counts one invoice with the given status.
func (c *StatusCounts) Add(status InvoiceStatus) {
	c.AddN(string(status), 1)
}

// AddN counts n invoices with the raw stored status.
func (c *StatusCounts) AddN(status string, n int64) {
	switch InvoiceStatus(status) {
	case StatusPending:
		c.Pending += n
	case StatusApproved:
		c.Approved += n
	case StatusRejected:
		c.Rejected += n
	default:
		c.Invalid += n
	}
}

// Total is the number of invoices with a valid status.
func (c StatusCounts) Total() int64 {
	return c.Pending + c.Approved + c.Rejected
}

// AggregateStatus reduces the invoice statuses of a period to one label.
func AggregateStatus(statuses []InvoiceStatus) PeriodStatus {
	var c StatusCounts
	for _, s := range statuses {
		c.Add(s)
	}
	return AggregateCounts(c)
}

// AggregateCounts applies the period status rules in priority order:
// any pending is In Progress; approved with nothing pending or rejected is
// APPROVED; any rejected is In Progress; an empty period is SUBMITTED.
func AggregateCounts(c StatusCounts) PeriodStatus {
	switch {
	case c.Pending > 0:
		return PeriodInProgress
	case c.Approved > 0 && c.Rejected == 0:
		return PeriodApproved
	case c.Rejected > 0:
		return PeriodInProgress
	default:
		return PeriodSubmitted
	}
}
