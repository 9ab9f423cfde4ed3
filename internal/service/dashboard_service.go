package service

import (
	"context"

	"payroll/internal/payroll"
	"payroll/internal/repository"
)

// LatestInvoicesLimit is how many recent invoices the dashboard lists.
const LatestInvoicesLimit = 5

// DashboardSummary is the overview shown after login. Staff see only their
// own invoices and no user count.
type DashboardSummary struct {
	TotalInvoices       int64                `json:"total_invoices"`
	TotalUsers          int64                `json:"total_users,omitempty"`
	Counts              payroll.StatusCounts `json:"counts"`
	ApprovedAmount      string               `json:"approved_amount"`
	PendingAmount       string               `json:"pending_amount"`
	ApprovedAmountMinor int64                `json:"approved_amount_minor"`
	PendingAmountMinor  int64                `json:"pending_amount_minor"`
	Latest              []InvoiceResponse    `json:"latest"`
}

type DashboardService interface {
	DashboardSummary(ctx context.Context, actor Actor) (DashboardSummary, error)
}

type dashboardService struct {
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
}

func NewDashboardService(invoiceRepo repository.InvoiceRepository, userRepo repository.UserRepository) DashboardService {
	return &dashboardService{invoiceRepo: invoiceRepo, userRepo: userRepo}
}

func (s *dashboardService) DashboardSummary(ctx context.Context, actor Actor) (DashboardSummary, error) {
	filter := repository.InvoiceListFilter{Page: 1, Limit: LatestInvoicesLimit}
	if !actor.Role.IsReviewer() {
		ownerID := actor.UserID
		filter.UserID = &ownerID
	}

	rows, err := s.invoiceRepo.StatusTotals(ctx, filter.UserID)
	if err != nil {
		return DashboardSummary{}, storageErr("failed to aggregate invoices", err)
	}

	var summary DashboardSummary
	for _, r := range rows {
		summary.Counts.AddN(r.Status, r.Count)
		summary.TotalInvoices += r.Count
		switch payroll.InvoiceStatus(r.Status) {
		case payroll.StatusApproved:
			summary.ApprovedAmountMinor += r.Amount
		case payroll.StatusPending:
			summary.PendingAmountMinor += r.Amount
		}
	}
	summary.ApprovedAmount = payroll.FromMinor(summary.ApprovedAmountMinor).StringFixed(2)
	summary.PendingAmount = payroll.FromMinor(summary.PendingAmountMinor).StringFixed(2)

	if actor.Role.IsReviewer() {
		summary.TotalUsers, err = s.userRepo.Count(ctx)
		if err != nil {
			return DashboardSummary{}, storageErr("failed to count users", err)
		}
	}

	invoices, _, err := s.invoiceRepo.List(ctx, filter)
	if err != nil {
		return DashboardSummary{}, storageErr("failed to fetch latest invoices", err)
	}
	summary.Latest = make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		summary.Latest = append(summary.Latest, toInvoiceResponse(inv))
	}
	return summary, nil
}
