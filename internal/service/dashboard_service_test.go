package service

import (
	"context"
	"errors"
	"testing"

	"payroll/internal/model"
	"payroll/internal/payroll"
	"payroll/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummary_Reviewer(t *testing.T) {
	invoices := new(mockInvoiceRepo)
	users := new(mockUserRepo)
	svc := NewDashboardService(invoices, users)

	invoices.On("StatusTotals", mock.Anything, (*uuid.UUID)(nil)).Return([]repository.StatusTotal{
		{Status: "pending", Count: 2, Amount: 15000},
		{Status: "approved", Count: 3, Amount: 42050},
		{Status: "rejected", Count: 1, Amount: 900},
		{Status: "Approved", Count: 1, Amount: 100},
	}, nil)
	users.On("Count", mock.Anything).Return(int64(12), nil)

	latest := []model.Invoice{
		{ID: uuid.New(), UserID: uuid.New(), Month: "2025-02", Status: "pending", Amount: 5000},
		{ID: uuid.New(), UserID: uuid.New(), Month: "2025-01", Status: "approved", Amount: 12345},
	}
	invoices.On("List", mock.Anything, repository.InvoiceListFilter{Page: 1, Limit: LatestInvoicesLimit}).
		Return(latest, int64(7), nil)

	summary, err := svc.DashboardSummary(context.Background(), Actor{UserID: uuid.New(), Role: payroll.RoleManager})
	require.NoError(t, err)

	assert.Equal(t, int64(7), summary.TotalInvoices)
	assert.Equal(t, int64(12), summary.TotalUsers)
	assert.Equal(t, payroll.StatusCounts{Pending: 2, Approved: 3, Rejected: 1, Invalid: 1}, summary.Counts)
	assert.Equal(t, "420.50", summary.ApprovedAmount)
	assert.Equal(t, "150.00", summary.PendingAmount)
	require.Len(t, summary.Latest, 2)
	assert.Equal(t, "2025-02", summary.Latest[0].Month)
	assert.Equal(t, "123.45", summary.Latest[1].Amount)
	invoices.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestDashboardSummary_StaffScopedToSelf(t *testing.T) {
	invoices := new(mockInvoiceRepo)
	users := new(mockUserRepo)
	svc := NewDashboardService(invoices, users)
	staff := Actor{UserID: uuid.New(), Role: payroll.RoleStaff}

	ownedBy := func(id *uuid.UUID) bool { return id != nil && *id == staff.UserID }
	invoices.On("StatusTotals", mock.Anything, mock.MatchedBy(ownedBy)).
		Return([]repository.StatusTotal{{Status: "pending", Count: 1, Amount: 300}}, nil)
	invoices.On("List", mock.Anything, mock.MatchedBy(func(f repository.InvoiceListFilter) bool {
		return ownedBy(f.UserID) && f.Limit == LatestInvoicesLimit
	})).Return([]model.Invoice{}, int64(0), nil)

	summary, err := svc.DashboardSummary(context.Background(), staff)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TotalInvoices)
	assert.Zero(t, summary.TotalUsers)
	assert.Equal(t, "0.00", summary.ApprovedAmount)
	assert.NotNil(t, summary.Latest)
	assert.Empty(t, summary.Latest)
	users.AssertNotCalled(t, "Count", mock.Anything)
}

func TestDashboardSummary_StorageError(t *testing.T) {
	invoices := new(mockInvoiceRepo)
	users := new(mockUserRepo)
	svc := NewDashboardService(invoices, users)

	invoices.On("StatusTotals", mock.Anything, (*uuid.UUID)(nil)).Return(nil, errors.New("conn reset"))

	_, err := svc.DashboardSummary(context.Background(), Actor{UserID: uuid.New(), Role: payroll.RoleAccountant})
	assert.ErrorIs(t, err, ErrStorage)
	invoices.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
