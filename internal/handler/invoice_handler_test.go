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
)

func forMonth(month string) interface{} {
	return mock.MatchedBy(func(req service.InvoiceRequest) bool { return req.Month == month })
}

func TestCreateInvoice(t *testing.T) {
	staffID := uuid.New()
	staff := service.Actor{UserID: staffID, Role: payroll.RoleStaff}
	token := tokenFor(t, staffID, "Staff")

	t.Run("created", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("CreateInvoice", mock.Anything, staff, forMonth("2025-01")).
			Return(service.InvoiceResponse{ID: "inv-1", Month: "2025-01", Status: "pending", Amount: "100.00", AmountMinor: 10000}, nil)

		w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodPost, "/api/invoices", token, map[string]interface{}{
			"month":      "2025-01",
			"day_hours":  "3",
			"meetings":   2,
			"honorarium": "10",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		res := decode(t, w)
		data := res.Data.(map[string]interface{})
		assert.Equal(t, "100.00", data["amount"])
		assert.Equal(t, float64(10000), data["amount_minor"])
		svc.AssertExpectations(t)
	})

	t.Run("malformed month never reaches the service", func(t *testing.T) {
		svc := new(mockInvoiceService)
		for _, month := range []string{"2025-13", "January", ""} {
			w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodPost, "/api/invoices", token, map[string]interface{}{"month": month})
			assert.Equal(t, http.StatusBadRequest, w.Code, month)
		}
		svc.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(mockInvoiceService)
		w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodPost, "/api/invoices", "", map[string]interface{}{"month": "2025-01"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	errCases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"duplicate", fmt.Errorf("%w: 2025-02", service.ErrDuplicateInvoice), http.StatusConflict, service.ErrDuplicateInvoice.Error() + ": 2025-02"},
		{"period closed", service.ErrPeriodNotOpen, http.StatusConflict, service.ErrPeriodNotOpen.Error()},
		{"no locs configured", service.ErrMissingConfiguration, http.StatusServiceUnavailable, service.ErrMissingConfiguration.Error()},
		{"storage", fmt.Errorf("failed to create invoice: %w: %w", service.ErrStorage, errors.New("connection refused")), http.StatusInternalServerError, "Database Error: the request could not be completed"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockInvoiceService)
			svc.On("CreateInvoice", mock.Anything, staff, forMonth("2025-02")).Return(service.InvoiceResponse{}, tc.err)

			w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodPost, "/api/invoices", token, map[string]interface{}{"month": "2025-02"})

			assert.Equal(t, tc.code, w.Code)
			res := decode(t, w)
			assert.Equal(t, "error", res.Status)
			assert.Equal(t, tc.message, res.Error)
		})
	}
}

func TestListInvoices_PassesFilter(t *testing.T) {
	managerID := uuid.New()
	manager := service.Actor{UserID: managerID, Role: payroll.RoleManager}

	svc := new(mockInvoiceService)
	svc.On("ListInvoices", mock.Anything, manager, service.InvoiceFilter{
		Query:  "smith",
		Month:  "2025-01",
		Status: "pending",
		Page:   2,
		Limit:  5,
	}).Return([]service.InvoiceResponse{{ID: "a"}, {ID: "b"}}, int64(7), nil)

	w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodGet,
		"/api/invoices?q=smith&month=2025-01&status=pending&page=2&limit=5", tokenFor(t, managerID, "Manager"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(7), data["total"])
	assert.Equal(t, float64(2), data["page"])
	assert.Len(t, data["items"], 2)
	svc.AssertExpectations(t)
}

func TestSetInvoiceStatus(t *testing.T) {
	accountantID := uuid.New()
	accountant := service.Actor{UserID: accountantID, Role: payroll.RoleAccountant}

	t.Run("reviewer", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("SetInvoiceStatus", mock.Anything, accountant, "inv-1", "approved").
			Return(service.InvoiceResponse{ID: "inv-1", Status: "approved"}, nil)

		w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodPut, "/api/invoices/inv-1/status",
			tokenFor(t, accountantID, "Accountant"), map[string]string{"status": "approved"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("capitalised status rejected", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("SetInvoiceStatus", mock.Anything, accountant, "inv-1", "Approved").
			Return(service.InvoiceResponse{}, fmt.Errorf("%w: %q", payroll.ErrInvalidStatus, "Approved"))

		w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodPut, "/api/invoices/inv-1/status",
			tokenFor(t, accountantID, "Accountant"), map[string]string{"status": "Approved"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("staff forbidden", func(t *testing.T) {
		svc := new(mockInvoiceService)
		w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodPut, "/api/invoices/inv-1/status",
			tokenFor(t, uuid.New(), "Staff"), map[string]string{"status": "approved"})

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "SetInvoiceStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteInvoice_NotFound(t *testing.T) {
	staffID := uuid.New()
	svc := new(mockInvoiceService)
	svc.On("DeleteInvoice", mock.Anything, service.Actor{UserID: staffID, Role: payroll.RoleStaff}, "missing").
		Return(fmt.Errorf("failed to fetch invoice: %w", service.ErrNotFound))

	w := do(t, newRouter(NewInvoiceHandler(svc)), http.MethodDelete, "/api/invoices/missing", tokenFor(t, staffID, "Staff"), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
