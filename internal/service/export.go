package service

import (
	"context"
	"fmt"

	"payroll/internal/model"
	"payroll/internal/payroll"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Payroll"

var exportHeader = []interface{}{
	"Name", "Email", "Site", "Month", "Status",
	"Meetings", "Day hours", "Evening hours", "Admin hours",
	"Online meetings", "F2F meetings", "Days",
	"Honorarium", "Others", "Expenses", "Amount",
}

// ExportPeriod renders every invoice of the period as an XLSX sheet with a
// totals row. Amounts are in major currency units.
func (s *periodService) ExportPeriod(ctx context.Context, label string) ([]byte, error) {
	if !model.ValidPeriodLabel(label) {
		return nil, validationErr(fmt.Errorf("invalid period %q", label))
	}

	invoices, err := s.invoiceRepo.ListByMonth(ctx, label)
	if err != nil {
		return nil, storageErr("failed to fetch invoices", err)
	}

	buf, err := renderPayrollSheet(invoices)
	if err != nil {
		return nil, fmt.Errorf("failed to render export for %s: %w", label, err)
	}
	log.Debugf("Exported %d invoices for %s", len(invoices), label)
	return buf, nil
}

func renderPayrollSheet(invoices []model.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	var amount, expenses int64
	row := 2
	for _, inv := range invoices {
		var name, email, site string
		if inv.User != nil {
			name, email, site = inv.User.Name, inv.User.Email, inv.User.Site
		}
		values := []interface{}{
			name, email, site, inv.Month, inv.Status,
			minorFloat(inv.Meetings), minorFloat(inv.DayHrs), minorFloat(inv.EveHrs), minorFloat(inv.Admin),
			minorFloat(inv.MeetingOnline), minorFloat(inv.MeetingF2F), minorFloat(inv.Days),
			minorFloat(inv.Honorarium), minorFloat(inv.Others), minorFloat(inv.Expenses), minorFloat(inv.Amount),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
		amount += inv.Amount
		expenses += inv.Expenses
		row++
	}

	totals := []interface{}{"Total"}
	for i := 1; i < len(exportHeader)-2; i++ {
		totals = append(totals, nil)
	}
	totals = append(totals, minorFloat(expenses), minorFloat(amount))

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, cell, &totals); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, row, row, bold); err != nil {
		return nil, err
	}

	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func minorFloat(minor int64) float64 {
	return payroll.FromMinor(minor).InexactFloat64()
}
