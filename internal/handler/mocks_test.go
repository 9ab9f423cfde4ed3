package handler

import (
	"context"
	"time"

	"payroll/internal/model"
	"payroll/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockInvoiceService struct{ mock.Mock }

func (m *mockInvoiceService) QuoteInvoice(ctx context.Context, actor service.Actor, req service.InvoiceRequest) (service.QuoteResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(service.QuoteResponse), args.Error(1)
}

func (m *mockInvoiceService) CreateInvoice(ctx context.Context, actor service.Actor, req service.InvoiceRequest) (service.InvoiceResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(service.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) GetInvoice(ctx context.Context, actor service.Actor, id string) (service.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(service.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) ListInvoices(ctx context.Context, actor service.Actor, filter service.InvoiceFilter) ([]service.InvoiceResponse, int64, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]service.InvoiceResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceService) UpdateInvoice(ctx context.Context, actor service.Actor, id string, req service.InvoiceRequest) (service.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return args.Get(0).(service.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) DeleteInvoice(ctx context.Context, actor service.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *mockInvoiceService) SetInvoiceStatus(ctx context.Context, actor service.Actor, id string, status string) (service.InvoiceResponse, error) {
	args := m.Called(ctx, actor, id, status)
	return args.Get(0).(service.InvoiceResponse), args.Error(1)
}

type mockPeriodService struct{ mock.Mock }

func (m *mockPeriodService) ListPeriods(ctx context.Context) (service.PeriodCloseResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.PeriodCloseResponse), args.Error(1)
}

func (m *mockPeriodService) UpdatePeriodStatus(ctx context.Context, actor service.Actor, req service.UpdatePeriodRequest) (model.Period, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(model.Period), args.Error(1)
}

func (m *mockPeriodService) OpenPeriods(ctx context.Context) ([]model.Period, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Period), args.Error(1)
}

func (m *mockPeriodService) PeriodSummary(ctx context.Context, actor service.Actor, label string) (service.PeriodSummary, error) {
	args := m.Called(ctx, actor, label)
	return args.Get(0).(service.PeriodSummary), args.Error(1)
}

func (m *mockPeriodService) ApplyBulkAction(ctx context.Context, actor service.Actor, label, action string) (service.BulkActionResult, error) {
	args := m.Called(ctx, actor, label, action)
	return args.Get(0).(service.BulkActionResult), args.Error(1)
}

func (m *mockPeriodService) ExportPeriod(ctx context.Context, label string) ([]byte, error) {
	args := m.Called(ctx, label)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockPeriodService) EnsureCalendar(ctx context.Context, now time.Time) ([]string, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]string), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Login(ctx context.Context, req service.LoginUserRequest) (*service.TokenResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*service.TokenResponse)
	return res, args.Error(1)
}

func (m *mockUserService) CreateUser(ctx context.Context, req service.CreateUserRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*service.UserResponse)
	return res, args.Error(1)
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*service.UserResponse, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*service.UserResponse)
	return res, args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, query string, page, limit int) ([]service.UserResponse, int64, error) {
	args := m.Called(ctx, query, page, limit)
	return args.Get(0).([]service.UserResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockUserService) UpdateUser(ctx context.Context, id string, req service.UpdateUserRequest) (*service.UserResponse, error) {
	args := m.Called(ctx, id, req)
	res, _ := args.Get(0).(*service.UserResponse)
	return res, args.Error(1)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockLocService struct{ mock.Mock }

func (m *mockLocService) ListLocs(ctx context.Context, query string) ([]service.LocResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]service.LocResponse), args.Error(1)
}

func (m *mockLocService) GetLoc(ctx context.Context, id string) (service.LocResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.LocResponse), args.Error(1)
}

func (m *mockLocService) CreateLoc(ctx context.Context, actor service.Actor, req service.LocRequest) (service.LocResponse, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(service.LocResponse), args.Error(1)
}

func (m *mockLocService) UpdateLoc(ctx context.Context, actor service.Actor, id string, req service.LocRequest) (service.LocResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return args.Get(0).(service.LocResponse), args.Error(1)
}

func (m *mockLocService) DeleteLoc(ctx context.Context, actor service.Actor, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockDashboardService struct{ mock.Mock }

func (m *mockDashboardService) DashboardSummary(ctx context.Context, actor service.Actor) (service.DashboardSummary, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(service.DashboardSummary), args.Error(1)
}
