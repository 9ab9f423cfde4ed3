package service

import (
	"context"

	"payroll/internal/model"
	"payroll/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// fakeTx runs the unit of work inline.
type fakeTx struct{}

func (fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type mockInvoiceRepo struct{ mock.Mock }

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *model.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*model.Invoice)
	return inv, args.Error(1)
}

func (m *mockInvoiceRepo) ExistsForUserMonth(ctx context.Context, userID uuid.UUID, month string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, month, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	invoices, _ := args.Get(0).([]model.Invoice)
	return invoices, args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceRepo) ListByMonth(ctx context.Context, month string) ([]model.Invoice, error) {
	args := m.Called(ctx, month)
	invoices, _ := args.Get(0).([]model.Invoice)
	return invoices, args.Error(1)
}

func (m *mockInvoiceRepo) StatusTotalsByMonth(ctx context.Context, month string) ([]repository.StatusTotal, error) {
	args := m.Called(ctx, month)
	totals, _ := args.Get(0).([]repository.StatusTotal)
	return totals, args.Error(1)
}

func (m *mockInvoiceRepo) StatusTotals(ctx context.Context, userID *uuid.UUID) ([]repository.StatusTotal, error) {
	args := m.Called(ctx, userID)
	totals, _ := args.Get(0).([]repository.StatusTotal)
	return totals, args.Error(1)
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockInvoiceRepo) BulkUpdateStatus(ctx context.Context, month string, from []string, to string) (int64, error) {
	args := m.Called(ctx, month, from, to)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, query string, page, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, query, page, limit)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockLocRepo struct{ mock.Mock }

func (m *mockLocRepo) Create(ctx context.Context, loc *model.Loc) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *mockLocRepo) Update(ctx context.Context, loc *model.Loc) error {
	return m.Called(ctx, loc).Error(0)
}

func (m *mockLocRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLocRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Loc, error) {
	args := m.Called(ctx, id)
	loc, _ := args.Get(0).(*model.Loc)
	return loc, args.Error(1)
}

func (m *mockLocRepo) FindByName(ctx context.Context, name string) (*model.Loc, error) {
	args := m.Called(ctx, name)
	loc, _ := args.Get(0).(*model.Loc)
	return loc, args.Error(1)
}

func (m *mockLocRepo) List(ctx context.Context, query string) ([]model.Loc, error) {
	args := m.Called(ctx, query)
	locs, _ := args.Get(0).([]model.Loc)
	return locs, args.Error(1)
}

func (m *mockLocRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockPeriodRepo struct{ mock.Mock }

func (m *mockPeriodRepo) List(ctx context.Context) ([]model.Period, error) {
	args := m.Called(ctx)
	periods, _ := args.Get(0).([]model.Period)
	return periods, args.Error(1)
}

func (m *mockPeriodRepo) ListByStatus(ctx context.Context, statuses ...string) ([]model.Period, error) {
	args := m.Called(ctx, statuses)
	periods, _ := args.Get(0).([]model.Period)
	return periods, args.Error(1)
}

func (m *mockPeriodRepo) FindByID(ctx context.Context, id uint) (*model.Period, error) {
	args := m.Called(ctx, id)
	period, _ := args.Get(0).(*model.Period)
	return period, args.Error(1)
}

func (m *mockPeriodRepo) FindByLabel(ctx context.Context, label string) (*model.Period, error) {
	args := m.Called(ctx, label)
	period, _ := args.Get(0).(*model.Period)
	return period, args.Error(1)
}

func (m *mockPeriodRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockPeriodRepo) CreateIfMissing(ctx context.Context, period *model.Period) (bool, error) {
	args := m.Called(ctx, period)
	return args.Bool(0), args.Error(1)
}

type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, filter repository.AuditListFilter) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

// recordingNotifier keeps every event it receives.
type recordingNotifier struct {
	events []PeriodEvent
}

func (n *recordingNotifier) PeriodChanged(event PeriodEvent) {
	n.events = append(n.events, event)
}

func gormNotFound() error {
	return gorm.ErrRecordNotFound
}
