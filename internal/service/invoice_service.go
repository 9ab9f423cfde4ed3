package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"payroll/internal/model"
	"payroll/internal/payroll"
	"payroll/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

// InvoiceDescriptions are the free-text notes attached to each claim line.
type InvoiceDescriptions struct {
	MeetingsDescription      string `json:"meetings_description"`
	DaytimeDescription       string `json:"daytime_description"`
	EveningDescription       string `json:"evening_description"`
	AdminDescription         string `json:"admin_description"`
	MeetingOnlineDescription string `json:"meeting_online_description"`
	MeetingF2FDescription    string `json:"meeting_f2f_description"`
	DaysDescription          string `json:"days_description"`
	HonorariumDescription    string `json:"honorarium_description"`
	OthersDescription        string `json:"others_description"`
	ExpensesDescription      string `json:"expenses_description"`
}

// InvoiceRequest is the body of create, update and quote. Any total sent by
// the client is ignored; the amount is always computed here.
type InvoiceRequest struct {
	UserID     string `json:"user_id"` // defaults to the caller
	Month      string `json:"month" binding:"required,period"`
	Status     string `json:"status"` // honoured for Manager and Accountant only
	ReceiptKey string `json:"receipt_url"`
	payroll.Quantities
	InvoiceDescriptions
}

type InvoiceFilter struct {
	Query  string // partial match on user name/email, month or status
	Month  string
	Status string
	Page   int
	Limit  int
}

type InvoiceResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Site        string `json:"site"`
	Month       string `json:"month"`
	Status      string `json:"status"`
	ReceiptKey  string `json:"receipt_url"`
	Amount      string `json:"amount"`
	AmountMinor int64  `json:"amount_minor"`
	payroll.Quantities
	InvoiceDescriptions
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type QuoteResponse struct {
	Site      string            `json:"site"`
	Rates     payroll.Rates     `json:"rates"`
	Breakdown payroll.Breakdown `json:"breakdown"`
}

// --- Interface ---

type InvoiceService interface {
	QuoteInvoice(ctx context.Context, actor Actor, req InvoiceRequest) (QuoteResponse, error)
	CreateInvoice(ctx context.Context, actor Actor, req InvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, actor Actor, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, actor Actor, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, actor Actor, id string, req InvoiceRequest) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, actor Actor, id string) error
	SetInvoiceStatus(ctx context.Context, actor Actor, id string, status string) (InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	userRepo    repository.UserRepository
	locRepo     repository.LocRepository
	periodRepo  repository.PeriodRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	notifier    PeriodNotifier
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	userRepo repository.UserRepository,
	locRepo repository.LocRepository,
	periodRepo repository.PeriodRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier PeriodNotifier,
) InvoiceService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		userRepo:    userRepo,
		locRepo:     locRepo,
		periodRepo:  periodRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		notifier:    notifier,
	}
}

// --- Implementation ---

func (s *invoiceService) QuoteInvoice(ctx context.Context, actor Actor, req InvoiceRequest) (QuoteResponse, error) {
	ownerID, err := s.resolveOwner(actor, req.UserID)
	if err != nil {
		return QuoteResponse{}, err
	}
	return s.quote(ctx, ownerID, req.Quantities)
}

func (s *invoiceService) CreateInvoice(ctx context.Context, actor Actor, req InvoiceRequest) (InvoiceResponse, error) {
	if !model.ValidPeriodLabel(req.Month) {
		return InvoiceResponse{}, validationErr(fmt.Errorf("invalid month %q", req.Month))
	}

	ownerID, err := s.resolveOwner(actor, req.UserID)
	if err != nil {
		return InvoiceResponse{}, err
	}

	status := model.InvoicePending
	if actor.Role.IsReviewer() && req.Status != "" {
		st, err := payroll.ParseInvoiceStatus(req.Status)
		if err != nil {
			return InvoiceResponse{}, validationErr(err)
		}
		status = string(st)
	}

	invoice := model.Invoice{
		UserID:     ownerID,
		Month:      req.Month,
		Status:     status,
		ReceiptKey: strings.TrimSpace(req.ReceiptKey),
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.requireEnterable(txCtx, req.Month); err != nil {
			return err
		}

		exists, err := s.invoiceRepo.ExistsForUserMonth(txCtx, ownerID, req.Month, nil)
		if err != nil {
			return storageErr("failed to check existing invoices", err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrDuplicateInvoice, req.Month)
		}

		quote, err := s.quote(txCtx, ownerID, req.Quantities)
		if err != nil {
			return err
		}
		applyBreakdown(&invoice, quote.Breakdown)
		applyDescriptions(&invoice, req.InvoiceDescriptions)

		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			if repository.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateInvoice, req.Month)
			}
			return storageErr("failed to create invoice", err)
		}

		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionCreateInvoice,
			invoice.ID.String(), invoice.Month, auditInvoice(invoice))
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	log.Infof("Invoice %v created for user %v in %s (%d)", invoice.ID, ownerID, invoice.Month, invoice.Amount)
	s.notify(ctx, invoice.Month, model.ActionCreateInvoice)

	return s.reload(ctx, invoice.ID)
}

func (s *invoiceService) GetInvoice(ctx context.Context, actor Actor, id string) (InvoiceResponse, error) {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, storageErr("invoice not found", err)
	}
	if !actor.CanAccess(invoice.UserID) {
		return InvoiceResponse{}, fmt.Errorf("%w: invoice belongs to another user", ErrForbidden)
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, actor Actor, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.InvoiceListFilter{
		Query:  strings.TrimSpace(filter.Query),
		Month:  filter.Month,
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if !actor.Role.IsReviewer() {
		ownerID := actor.UserID
		repoFilter.UserID = &ownerID
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, storageErr("failed to fetch invoices", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// UpdateInvoice replaces the quantities, descriptions and month of an
// invoice and recomputes its amount. Staff edits send the invoice back to
// pending.
func (s *invoiceService) UpdateInvoice(ctx context.Context, actor Actor, id string, req InvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return InvoiceResponse{}, err
	}
	if !model.ValidPeriodLabel(req.Month) {
		return InvoiceResponse{}, validationErr(fmt.Errorf("invalid month %q", req.Month))
	}

	var newStatus string
	if actor.Role.IsReviewer() && req.Status != "" {
		st, err := payroll.ParseInvoiceStatus(req.Status)
		if err != nil {
			return InvoiceResponse{}, validationErr(err)
		}
		newStatus = string(st)
	}

	var oldMonth string
	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			return storageErr("invoice not found", findErr)
		}
		if !actor.CanAccess(invoice.UserID) {
			return fmt.Errorf("%w: invoice belongs to another user", ErrForbidden)
		}

		oldMonth = invoice.Month
		if err := s.requireEnterable(txCtx, oldMonth); err != nil {
			return err
		}
		if req.Month != oldMonth {
			if err := s.requireEnterable(txCtx, req.Month); err != nil {
				return err
			}
			exists, err := s.invoiceRepo.ExistsForUserMonth(txCtx, invoice.UserID, req.Month, &invoice.ID)
			if err != nil {
				return storageErr("failed to check existing invoices", err)
			}
			if exists {
				return fmt.Errorf("%w: %s", ErrDuplicateInvoice, req.Month)
			}
		}

		quote, err := s.quote(txCtx, invoice.UserID, req.Quantities)
		if err != nil {
			return err
		}

		invoice.Month = req.Month
		invoice.ReceiptKey = strings.TrimSpace(req.ReceiptKey)
		applyBreakdown(invoice, quote.Breakdown)
		applyDescriptions(invoice, req.InvoiceDescriptions)
		switch {
		case newStatus != "":
			invoice.Status = newStatus
		case !actor.Role.IsReviewer():
			invoice.Status = model.InvoicePending
		}

		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			if repository.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateInvoice, req.Month)
			}
			return storageErr("failed to update invoice", err)
		}

		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionUpdateInvoice,
			invoice.ID.String(), invoice.Month, auditInvoice(*invoice))
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.notify(ctx, invoice.Month, model.ActionUpdateInvoice)
	if oldMonth != invoice.Month {
		s.notify(ctx, oldMonth, model.ActionUpdateInvoice)
	}

	return s.reload(ctx, invoice.ID)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, actor Actor, id string) error {
	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return err
	}

	var month string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return storageErr("invoice not found", err)
		}
		if !actor.CanAccess(invoice.UserID) {
			return fmt.Errorf("%w: invoice belongs to another user", ErrForbidden)
		}
		if err := s.requireEnterable(txCtx, invoice.Month); err != nil {
			return err
		}

		month = invoice.Month
		if err := s.invoiceRepo.Delete(txCtx, invoiceID); err != nil {
			return storageErr("failed to delete invoice", err)
		}
		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionDeleteInvoice,
			invoice.ID.String(), invoice.Month, auditInvoice(*invoice))
	})
	if err != nil {
		return err
	}

	s.notify(ctx, month, model.ActionDeleteInvoice)
	return nil
}

// SetInvoiceStatus moves a single invoice to status. Only reviewers may
// call it.
func (s *invoiceService) SetInvoiceStatus(ctx context.Context, actor Actor, id string, status string) (InvoiceResponse, error) {
	if !actor.Role.IsReviewer() {
		return InvoiceResponse{}, fmt.Errorf("%w: only %s or %s may review invoices",
			ErrForbidden, payroll.RoleManager, payroll.RoleAccountant)
	}

	invoiceID, err := parseInvoiceID(id)
	if err != nil {
		return InvoiceResponse{}, err
	}

	st, err := payroll.ParseInvoiceStatus(status)
	if err != nil {
		return InvoiceResponse{}, validationErr(err)
	}

	var month string
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return storageErr("invoice not found", err)
		}
		month = invoice.Month

		if err := s.invoiceRepo.UpdateStatus(txCtx, invoiceID, string(st)); err != nil {
			return storageErr("failed to update invoice status", err)
		}

		return recordAudit(txCtx, s.auditRepo, actor.UserID, model.ActionSetInvoiceStatus,
			invoice.ID.String(), invoice.Month, map[string]string{"from": invoice.Status, "to": string(st)})
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.notify(ctx, month, model.ActionSetInvoiceStatus)
	return s.reload(ctx, invoiceID)
}

// --- Helpers ---

// resolveOwner returns the user an invoice is filed for. Staff may only
// file for themselves.
func (s *invoiceService) resolveOwner(actor Actor, requested string) (uuid.UUID, error) {
	if requested == "" {
		return actor.UserID, nil
	}
	ownerID, err := uuid.Parse(requested)
	if err != nil {
		return uuid.Nil, validationErr(fmt.Errorf("invalid user_id: %w", err))
	}
	if !actor.CanAccess(ownerID) {
		return uuid.Nil, fmt.Errorf("%w: staff may only submit their own invoices", ErrForbidden)
	}
	return ownerID, nil
}

// quote resolves the owner's rates and computes the breakdown of q.
func (s *invoiceService) quote(ctx context.Context, ownerID uuid.UUID, q payroll.Quantities) (QuoteResponse, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return QuoteResponse{}, storageErr("invoice owner not found", err)
	}

	count, err := s.locRepo.Count(ctx)
	if err != nil {
		return QuoteResponse{}, storageErr("failed to count locs", err)
	}
	if count == 0 {
		return QuoteResponse{}, ErrMissingConfiguration
	}

	var loc *model.Loc
	if owner.Site != "" {
		loc, err = s.locRepo.FindByName(ctx, owner.Site)
		if err != nil && !repository.IsNotFound(err) {
			return QuoteResponse{}, storageErr("failed to load loc", err)
		}
	}
	if loc == nil {
		log.Warnf("No loc named %q for user %v, using zero rates", owner.Site, owner.ID)
	}

	var candidates []model.Loc
	if loc != nil {
		candidates = append(candidates, *loc)
	}
	rates := payroll.ResolveRates(candidates, owner.Site)

	breakdown, err := payroll.Calculate(rates, q)
	if err != nil {
		return QuoteResponse{}, validationErr(err)
	}
	return QuoteResponse{
		Site:      owner.Site,
		Rates:     rates,
		Breakdown: breakdown,
	}, nil
}

func (s *invoiceService) requireEnterable(ctx context.Context, month string) error {
	period, err := s.periodRepo.FindByLabel(ctx, month)
	if err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("%w: %s does not exist", ErrPeriodNotOpen, month)
		}
		return storageErr("failed to load period", err)
	}
	if !period.IsEnterable() {
		return fmt.Errorf("%w: %s is %s", ErrPeriodNotOpen, month, period.Status)
	}
	return nil
}

func (s *invoiceService) notify(ctx context.Context, month, cause string) {
	publishPeriod(ctx, s.notifier, s.invoiceRepo, month, cause)
}

func (s *invoiceService) reload(ctx context.Context, id uuid.UUID) (InvoiceResponse, error) {
	reloaded, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, storageErr("failed to reload invoice", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

func parseInvoiceID(id string) (uuid.UUID, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, validationErr(fmt.Errorf("invalid invoice id: %w", err))
	}
	return invoiceID, nil
}

// applyBreakdown stores the normalized quantities in hundredths and the
// computed totals in minor units.
func applyBreakdown(inv *model.Invoice, b payroll.Breakdown) {
	q := b.Quantities
	inv.Meetings = payroll.ToMinor(q.Meetings)
	inv.DayHrs = payroll.ToMinor(q.DayHours)
	inv.EveHrs = payroll.ToMinor(q.EveningHours)
	inv.Admin = payroll.ToMinor(q.AdminHours)
	inv.MeetingOnline = payroll.ToMinor(q.OnlineMeetings)
	inv.MeetingF2F = payroll.ToMinor(q.F2FMeetings)
	inv.Days = payroll.ToMinor(q.Days)
	inv.Honorarium = payroll.ToMinor(q.Honorarium)
	inv.Others = payroll.ToMinor(q.Others)
	inv.Expenses = b.ExpensesMinor
	inv.Amount = b.TotalMinor
}

func applyDescriptions(inv *model.Invoice, d InvoiceDescriptions) {
	inv.MeetingsDescription = d.MeetingsDescription
	inv.DaytimeDescription = d.DaytimeDescription
	inv.EveningDescription = d.EveningDescription
	inv.AdminDescription = d.AdminDescription
	inv.MeetingOnlineDescription = d.MeetingOnlineDescription
	inv.MeetingF2FDescription = d.MeetingF2FDescription
	inv.DaysDescription = d.DaysDescription
	inv.HonorariumDescription = d.HonorariumDescription
	inv.OthersDescription = d.OthersDescription
	inv.ExpensesDescription = d.ExpensesDescription
}

func quantitiesOf(inv model.Invoice) payroll.Quantities {
	return payroll.Quantities{
		Meetings:       payroll.FromMinor(inv.Meetings),
		DayHours:       payroll.FromMinor(inv.DayHrs),
		EveningHours:   payroll.FromMinor(inv.EveHrs),
		AdminHours:     payroll.FromMinor(inv.Admin),
		OnlineMeetings: payroll.FromMinor(inv.MeetingOnline),
		F2FMeetings:    payroll.FromMinor(inv.MeetingF2F),
		Days:           payroll.FromMinor(inv.Days),
		Honorarium:     payroll.FromMinor(inv.Honorarium),
		Others:         payroll.FromMinor(inv.Others),
		Expenses:       payroll.FromMinor(inv.Expenses),
	}
}

func auditInvoice(inv model.Invoice) map[string]interface{} {
	return map[string]interface{}{
		"user_id": inv.UserID.String(),
		"month":   inv.Month,
		"status":  inv.Status,
		"amount":  inv.Amount,
	}
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID.String(),
		UserID:      inv.UserID.String(),
		Month:       inv.Month,
		Status:      inv.Status,
		ReceiptKey:  inv.ReceiptKey,
		Amount:      payroll.FromMinor(inv.Amount).StringFixed(2),
		AmountMinor: inv.Amount,
		Quantities:  quantitiesOf(inv),
		InvoiceDescriptions: InvoiceDescriptions{
			MeetingsDescription:      inv.MeetingsDescription,
			DaytimeDescription:       inv.DaytimeDescription,
			EveningDescription:       inv.EveningDescription,
			AdminDescription:         inv.AdminDescription,
			MeetingOnlineDescription: inv.MeetingOnlineDescription,
			MeetingF2FDescription:    inv.MeetingF2FDescription,
			DaysDescription:          inv.DaysDescription,
			HonorariumDescription:    inv.HonorariumDescription,
			OthersDescription:        inv.OthersDescription,
			ExpensesDescription:      inv.ExpensesDescription,
		},
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt: inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.User != nil {
		resp.UserName = inv.User.Name
		resp.Site = inv.User.Site
	}
	return resp
}
