package payroll

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// LineKind names one of the seven rate-multiplied claim lines.
type LineKind string

const (
	LineMeetings       LineKind = "meetings"
	LineDayHours       LineKind = "day_hours"
	LineEveningHours   LineKind = "evening_hours"
	LineAdminHours     LineKind = "admin_hours"
	LineOnlineMeetings LineKind = "online_meetings"
	LineF2FMeetings    LineKind = "f2f_meetings"
	LineDays           LineKind = "days"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// Quantities are the claimed amounts of an invoice. The first seven are
// multiplied by a rate; Honorarium and Others are flat currency amounts
// added to the total; Expenses is non-taxable and kept out of the total.
type Quantities struct {
	Meetings       decimal.Decimal `json:"meetings"`
	DayHours       decimal.Decimal `json:"day_hours"`
	EveningHours   decimal.Decimal `json:"evening_hours"`
	AdminHours     decimal.Decimal `json:"admin_hours"`
	OnlineMeetings decimal.Decimal `json:"online_meetings"`
	F2FMeetings    decimal.Decimal `json:"f2f_meetings"`
	Days           decimal.Decimal `json:"days"`
	Honorarium     decimal.Decimal `json:"honorarium"`
	Others         decimal.Decimal `json:"others"`
	Expenses       decimal.Decimal `json:"expenses"`
}

// Line is one rate-multiplied claim line of a Breakdown.
type Line struct {
	Kind     LineKind        `json:"kind"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// Breakdown is the result of Calculate. Total is exact; TotalMinor is the
// value persisted on the invoice.
type Breakdown struct {
	Quantities    Quantities      `json:"quantities"`
	Lines         []Line          `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	TotalMinor    int64           `json:"total_minor"`
	ExpensesMinor int64           `json:"expenses_minor"`
}

// Normalize clamps every quantity to zero or above and rounds it to two
// decimal places, the precision invoices are stored with.
func (q Quantities) Normalize() Quantities {
	return Quantities{
		Meetings:       normalize(q.Meetings),
		DayHours:       normalize(q.DayHours),
		EveningHours:   normalize(q.EveningHours),
		AdminHours:     normalize(q.AdminHours),
		OnlineMeetings: normalize(q.OnlineMeetings),
		F2FMeetings:    normalize(q.F2FMeetings),
		Days:           normalize(q.Days),
		Honorarium:     normalize(q.Honorarium),
		Others:         normalize(q.Others),
		Expenses:       normalize(q.Expenses),
	}
}

func normalize(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

// Calculate computes the taxable total of q under rates:
//
//	Σ quantity × rate + honorarium + others
//
// Quantities are normalized first, so a total recomputed from the stored
// hundredths always equals the stored total. ErrOutOfRange is returned when
// a quantity or the total does not fit the int64 minor-unit columns.
func Calculate(rates Rates, q Quantities) (Breakdown, error) {
	q = q.Normalize()
	if err := q.checkRange(); err != nil {
		return Breakdown{}, err
	}

	lines := []Line{
		newLine(LineMeetings, q.Meetings, rates.Meeting),
		newLine(LineDayHours, q.DayHours, rates.DayTime),
		newLine(LineEveningHours, q.EveningHours, rates.Evening),
		newLine(LineAdminHours, q.AdminHours, rates.Admin),
		newLine(LineOnlineMeetings, q.OnlineMeetings, rates.OnlineMeeting),
		newLine(LineF2FMeetings, q.F2FMeetings, rates.F2FMeeting),
		newLine(LineDays, q.Days, rates.Day),
	}

	total := q.Honorarium.Add(q.Others)
	for _, l := range lines {
		total = total.Add(l.Amount)
	}

	if !fitsMinor(total) {
		return Breakdown{}, fmt.Errorf("%w: total %s", ErrOutOfRange, total)
	}

	return Breakdown{
		Quantities:    q,
		Lines:         lines,
		Total:         total,
		TotalMinor:    ToMinor(total),
		ExpensesMinor: ToMinor(q.Expenses),
	}, nil
}

func (q Quantities) checkRange() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"meetings", q.Meetings},
		{"day_hours", q.DayHours},
		{"evening_hours", q.EveningHours},
		{"admin_hours", q.AdminHours},
		{"online_meetings", q.OnlineMeetings},
		{"f2f_meetings", q.F2FMeetings},
		{"days", q.Days},
		{"honorarium", q.Honorarium},
		{"others", q.Others},
		{"expenses", q.Expenses},
	}
	for _, f := range fields {
		if !fitsMinor(f.value) {
			return fmt.Errorf("%w: %s %s", ErrOutOfRange, f.name, f.value)
		}
	}
	return nil
}

// fitsMinor reports whether d converts to hundredths without leaving the
// int64 range.
func fitsMinor(d decimal.Decimal) bool {
	minor := d.Mul(hundred).Round(0)
	return minor.LessThanOrEqual(maxMinor) && minor.GreaterThanOrEqual(maxMinor.Neg())
}

func newLine(kind LineKind, quantity, rate decimal.Decimal) Line {
	return Line{
		Kind:     kind,
		Quantity: quantity,
		Rate:     rate,
		Amount:   quantity.Mul(rate),
	}
}

// ToMinor converts a major-unit value to hundredths, rounding half away
// from zero (1.005 -> 101). d must satisfy fitsMinor; Calculate guarantees
// that for everything it returns.
func ToMinor(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromMinor converts hundredths back to a major-unit value.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
