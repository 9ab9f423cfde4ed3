package service

import (
	"context"
	"fmt"
	"time"

	"payroll/internal/model"
	"payroll/internal/payroll"
	"payroll/internal/repository"
)

// --- DTOs ---

type PeriodCloseResponse struct {
	Periods []model.Period `json:"periods"`
}

type UpdatePeriodRequest struct {
	ID     uint   `json:"id" binding:"required"`
	Status string `json:"status" binding:"required"`
}

type PeriodSummary struct {
	Period           string               `json:"period"`
	CloseStatus      string               `json:"close_status,omitempty"`
	Status           payroll.PeriodStatus `json:"status"`
	Counts           payroll.StatusCounts `json:"counts"`
	TotalAmount      string               `json:"total_amount"`
	TotalAmountMinor int64                `json:"total_amount_minor"`
	TotalExpenses    string               `json:"total_expenses"`
	AvailableActions []payroll.BulkAction `json:"available_actions"`
}

type BulkActionResult struct {
	Transition payroll.Transition `json:"transition"`
	Affected   int64              `json:"affected"`
	Summary    PeriodSummary      `json:"summary"`
}

// --- Interface ---

type PeriodService interface {
	ListPeriods(ctx context.Context) (PeriodCloseResponse, error)
	UpdatePeriodStatus(ctx context.Context, actor Actor, req UpdatePeriodRequest) (model.Period, error)
	OpenPeriods(ctx context.Context) ([]model.Period, error)
	PeriodSummary(ctx context.Context, actor Actor, label string) (PeriodSummary, error)
	ApplyBulkAction(ctx context.Context, actor Actor, label, action string) (BulkActionResult, error)
	ExportPeriod(ctx context.Context, label string) ([]byte, error)
	EnsureCalendar(ctx context.Context, now time.Time) ([]string, error)
}

type periodService struct {
	periodRepo  repository.PeriodRepository
	invoiceRepo repository.InvoiceRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	notifier    PeriodNotifier
}

func NewPeriodService(
	periodRepo repository.PeriodRepository,
	invoiceRepo repository.InvoiceRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier PeriodNotifier,
) PeriodService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &periodService{
		periodRepo:  periodRepo,
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// --- Implementation ---

func (s *periodService) ListPeriods(ctx context.Context) (PeriodCloseResponse, error) {
	periods, err := s.periodRepo.List(ctx)
	if err != nil {
		return PeriodCloseResponse{}, storageErr("failed to fetch periods", err)
	}
	if periods == nil {
		periods = []model.Period{}
	}
	return PeriodCloseResponse{Periods: periods}, nil
}

// UpdatePeriodStatus changes the close status of one period. A permanently
// closed period cannot be reopened.
func (s *periodService) UpdatePeriodStatus(ctx context.Context, actor Actor, req UpdatePeriodRequest) (model.Period, error) {
	if !actor.Role.IsReviewer() {
		return model.Period{}, fmt.Errorf("%w: only %s or %s may close periods",
			ErrForbidden, payroll.RoleManager, payroll.RoleAccountant)
	}
	if !model.ValidPeriodStatus(req.Status) {
		return model.Period{}, validationErr(fmt.Errorf("invalid period status %q", req.Status))
	}

	var period *model.Period
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		period, findErr = s.periodRepo.FindByID(txCtx, req.ID)
		if findErr != nil {
			return storageErr("period not found", findErr)
		}
		if period.Status == req.Status {
			return nil
		}
		if period.Status == model.PeriodPermanentlyClosed {
			return fmt.Errorf("%w: %s is %s", ErrPeriodNotOpen, period.Label, period.Status)
		}

		from := period.Status
		if err := s.periodRepo.UpdateStatus(txCtx, period.ID, req.Status); err != nil {
			return storageErr("failed to update period", err)
		}
		period.Status = req.Status

		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionUpdatePeriodStatus,
			fmt.Sprint(period.ID), period.Label, map[string]string{"from": from, "to": req.Status})
	})
	if err != nil {
		return model.Period{}, err
	}

	log.Infof("Period %s is now %s", period.Label, period.Status)
	s.notify(ctx, period.Label, model.ActionUpdatePeriodStatus)
	return *period, nil
}

// OpenPeriods lists the periods new invoices may target.
func (s *periodService) OpenPeriods(ctx context.Context) ([]model.Period, error) {
	periods, err := s.periodRepo.ListByStatus(ctx, model.PeriodOpen, model.PeriodFutureEnterable)
	if err != nil {
		return nil, storageErr("failed to fetch open periods", err)
	}
	if periods == nil {
		periods = []model.Period{}
	}
	return periods, nil
}

func (s *periodService) PeriodSummary(ctx context.Context, actor Actor, label string) (PeriodSummary, error) {
	if !model.ValidPeriodLabel(label) {
		return PeriodSummary{}, validationErr(fmt.Errorf("invalid period %q", label))
	}
	return s.summary(ctx, actor.Role, label)
}

// ApplyBulkAction checks action against the period's current aggregate
// status and the actor's role, then changes every matching invoice with a
// single statement.
func (s *periodService) ApplyBulkAction(ctx context.Context, actor Actor, label, action string) (BulkActionResult, error) {
	if !model.ValidPeriodLabel(label) {
		return BulkActionResult{}, validationErr(fmt.Errorf("invalid period %q", label))
	}
	bulk, err := payroll.ParseBulkAction(action)
	if err != nil {
		return BulkActionResult{}, validationErr(err)
	}

	var result BulkActionResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		totals, err := loadCounts(txCtx, s.invoiceRepo, label)
		if err != nil {
			return err
		}

		current := payroll.AggregateCounts(totals.Counts)
		tr, err := payroll.Plan(bulk, actor.Role, current)
		if err != nil {
			return err
		}

		affected, err := s.invoiceRepo.BulkUpdateStatus(txCtx, label, tr.FromStrings(), string(tr.To))
		if err != nil {
			return storageErr("failed to apply bulk action", err)
		}

		result.Transition = tr
		result.Affected = affected

		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionBulkInvoiceStatus, label, string(bulk),
			map[string]interface{}{"from": current, "to": tr.To, "affected": affected})
	})
	if err != nil {
		return BulkActionResult{}, err
	}

	log.Infof("%s on %s by %v changed %d invoices", bulk, label, actor.UserID, result.Affected)

	summary, err := s.summary(ctx, actor.Role, label)
	if err != nil {
		return BulkActionResult{}, err
	}
	result.Summary = summary

	s.notifier.PeriodChanged(PeriodEvent{
		Period: label,
		Status: summary.Status,
		Counts: summary.Counts,
		Cause:  string(bulk),
	})
	return result, nil
}

// EnsureCalendar creates the period rows for the month of now (Open) and the
// month after (Future Enterable) when they are missing. Existing rows keep
// their status. It returns the labels it created.
func (s *periodService) EnsureCalendar(ctx context.Context, now time.Time) ([]string, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	wanted := []model.Period{
		{Label: model.PeriodLabel(first), Status: model.PeriodOpen},
		{Label: model.PeriodLabel(first.AddDate(0, 1, 0)), Status: model.PeriodFutureEnterable},
	}

	created := []string{}
	for i := range wanted {
		ok, err := s.periodRepo.CreateIfMissing(ctx, &wanted[i])
		if err != nil {
			return created, storageErr("failed to create period "+wanted[i].Label, err)
		}
		if ok {
			log.Infof("Created period %s (%s)", wanted[i].Label, wanted[i].Status)
			created = append(created, wanted[i].Label)
		}
	}
	return created, nil
}

// --- Helpers ---

func (s *periodService) summary(ctx context.Context, role payroll.Role, label string) (PeriodSummary, error) {
	totals, err := loadCounts(ctx, s.invoiceRepo, label)
	if err != nil {
		return PeriodSummary{}, err
	}

	status := payroll.AggregateCounts(totals.Counts)
	summary := PeriodSummary{
		Period:           label,
		Status:           status,
		Counts:           totals.Counts,
		TotalAmount:      payroll.FromMinor(totals.Amount).StringFixed(2),
		TotalAmountMinor: totals.Amount,
		TotalExpenses:    payroll.FromMinor(totals.Expenses).StringFixed(2),
		AvailableActions: payroll.AvailableActions(role, status),
	}

	period, err := s.periodRepo.FindByLabel(ctx, label)
	switch {
	case err == nil:
		summary.CloseStatus = period.Status
	case !repository.IsNotFound(err):
		return PeriodSummary{}, storageErr("failed to load period", err)
	}
	return summary, nil
}

func (s *periodService) notify(ctx context.Context, label, cause string) {
	publishPeriod(ctx, s.notifier, s.invoiceRepo, label, cause)
}

// publishPeriod sends the period's aggregate status to notifier. Failures
// are logged; the change itself has already been committed.
func publishPeriod(ctx context.Context, notifier PeriodNotifier, repo repository.InvoiceRepository, label, cause string) {
	totals, err := loadCounts(ctx, repo, label)
	if err != nil {
		log.Warnf("Failed to aggregate period %s: %v", label, err)
		return
	}
	notifier.PeriodChanged(PeriodEvent{
		Period: label,
		Status: payroll.AggregateCounts(totals.Counts),
		Counts: totals.Counts,
		Cause:  cause,
	})
}

type periodTotals struct {
	Counts   payroll.StatusCounts
	Amount   int64
	Expenses int64
}

// loadCounts aggregates a period's invoices by status in the database.
func loadCounts(ctx context.Context, repo repository.InvoiceRepository, label string) (periodTotals, error) {
	rows, err := repo.StatusTotalsByMonth(ctx, label)
	if err != nil {
		return periodTotals{}, storageErr("failed to aggregate invoices", err)
	}

	var totals periodTotals
	for _, r := range rows {
		totals.Counts.AddN(r.Status, r.Count)
		totals.Amount += r.Amount
		totals.Expenses += r.Expenses
	}
	return totals, nil
}
