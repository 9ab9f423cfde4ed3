package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"payroll/internal/payroll"
	"payroll/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	staffID := uuid.New()
	staff := service.Actor{UserID: staffID, Role: payroll.RoleStaff}

	t.Run("summary", func(t *testing.T) {
		svc := new(mockDashboardService)
		svc.On("DashboardSummary", mock.Anything, staff).Return(service.DashboardSummary{
			TotalInvoices: 3,
			Counts:        payroll.StatusCounts{Pending: 1, Approved: 2},
			Latest:        []service.InvoiceResponse{{Month: "2025-01", Amount: "100.00"}},
		}, nil)

		w := do(t, newRouter(NewDashboardHandler(svc)), http.MethodGet, "/api/dashboard", tokenFor(t, staffID, "Staff"), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]interface{})
		assert.Equal(t, float64(3), data["total_invoices"])
		assert.NotContains(t, data, "total_users")
		assert.Equal(t, float64(2), data["counts"].(map[string]interface{})["approved"])
		latest := data["latest"].([]interface{})
		require.Len(t, latest, 1)
		assert.Equal(t, "2025-01", latest[0].(map[string]interface{})["month"])
		svc.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := new(mockDashboardService)
		svc.On("DashboardSummary", mock.Anything, staff).
			Return(service.DashboardSummary{}, fmt.Errorf("failed to aggregate invoices: %w: %w", service.ErrStorage, errors.New("conn reset")))

		w := do(t, newRouter(NewDashboardHandler(svc)), http.MethodGet, "/api/dashboard", tokenFor(t, staffID, "Staff"), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("requires token", func(t *testing.T) {
		svc := new(mockDashboardService)

		w := do(t, newRouter(NewDashboardHandler(svc)), http.MethodGet, "/api/dashboard", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "DashboardSummary", mock.Anything, mock.Anything)
	})
}
