package model

import "time"

// Period close statuses. Only Open and Future Enterable periods accept new
// invoices.
const (
	PeriodOpen              = "Open"
	PeriodFutureEnterable   = "Future Enterable"
	PeriodClosed            = "Closed"
	PeriodPermanentlyClosed = "Permanently Closed"
)

// PeriodLabelLayout is the time layout of Period.Label, e.g. "2025-01".
const PeriodLabelLayout = "2006-01"

// ValidPeriodLabel reports whether label is a "YYYY-MM" month.
func ValidPeriodLabel(label string) bool {
	_, err := time.Parse(PeriodLabelLayout, label)
	return err == nil
}

// PeriodLabel returns the label of the month t falls in.
func PeriodLabel(t time.Time) string {
	return t.Format(PeriodLabelLayout)
}

// Period is a payroll month with a close status.
type Period struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Label  string `gorm:"column:period;type:varchar(7);uniqueIndex;not null" json:"period"`
	Status string `gorm:"type:varchar(30);not null;default:'Future Enterable'" json:"status"`
}

// IsEnterable reports whether new invoices may target the period.
func (p Period) IsEnterable() bool {
	return p.Status == PeriodOpen || p.Status == PeriodFutureEnterable
}

// ValidPeriodStatus reports whether status is one of the period close statuses.
func ValidPeriodStatus(status string) bool {
	switch status {
	case PeriodOpen, PeriodFutureEnterable, PeriodClosed, PeriodPermanentlyClosed:
		return true
	}
	return false
}
