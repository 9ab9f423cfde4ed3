package handler

import (
	"fmt"
	"net/http"
	"testing"

	"payroll/internal/model"
	"payroll/internal/payroll"
	"payroll/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestApplyBulkAction(t *testing.T) {
	managerID := uuid.New()
	manager := service.Actor{UserID: managerID, Role: payroll.RoleManager}
	path := "/api/periods/2025-01/actions/approve-all"

	t.Run("applied", func(t *testing.T) {
		svc := new(mockPeriodService)
		svc.On("ApplyBulkAction", mock.Anything, manager, "2025-01", "approve-all").Return(service.BulkActionResult{
			Transition: payroll.Transition{Action: payroll.ActionApproveAll, To: payroll.StatusApproved},
			Affected:   1,
			Summary:    service.PeriodSummary{Period: "2025-01", Status: payroll.PeriodApproved},
		}, nil)

		w := do(t, newRouter(NewPeriodHandler(svc)), http.MethodPost, path, tokenFor(t, managerID, "Manager"), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w).Data.(map[string]interface{})
		assert.Equal(t, float64(1), data["affected"])
		assert.Equal(t, "APPROVED", data["summary"].(map[string]interface{})["status"])
	})

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"wrong role", fmt.Errorf("%w: approve-all requires Manager", payroll.ErrForbiddenAction), http.StatusForbidden},
		{"not available", fmt.Errorf("%w: approve-all while APPROVED", payroll.ErrActionNotAvailable), http.StatusConflict},
		{"unknown action", fmt.Errorf("%w: %q", payroll.ErrInvalidAction, "approve-all"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockPeriodService)
			svc.On("ApplyBulkAction", mock.Anything, manager, "2025-01", "approve-all").Return(service.BulkActionResult{}, tt.err)

			w := do(t, newRouter(NewPeriodHandler(svc)), http.MethodPost, path, tokenFor(t, managerID, "Manager"), nil)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUpdatePeriodStatus(t *testing.T) {
	accountantID := uuid.New()
	accountant := service.Actor{UserID: accountantID, Role: payroll.RoleAccountant}
	req := service.UpdatePeriodRequest{ID: 3, Status: model.PeriodClosed}

	t.Run("updated", func(t *testing.T) {
		svc := new(mockPeriodService)
		svc.On("UpdatePeriodStatus", mock.Anything, accountant, req).
			Return(model.Period{ID: 3, Label: "2025-01", Status: model.PeriodClosed}, nil)

		w := do(t, newRouter(NewPeriodHandler(svc)), http.MethodPut, "/api/period-close", tokenFor(t, accountantID, "Accountant"), req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("permanently closed", func(t *testing.T) {
		svc := new(mockPeriodService)
		svc.On("UpdatePeriodStatus", mock.Anything, accountant, req).Return(model.Period{}, service.ErrPeriodNotOpen)

		w := do(t, newRouter(NewPeriodHandler(svc)), http.MethodPut, "/api/period-close", tokenFor(t, accountantID, "Accountant"), req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("staff forbidden", func(t *testing.T) {
		svc := new(mockPeriodService)
		w := do(t, newRouter(NewPeriodHandler(svc)), http.MethodPut, "/api/period-close", tokenFor(t, uuid.New(), "Staff"), req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestExportPeriod(t *testing.T) {
	managerID := uuid.New()

	svc := new(mockPeriodService)
	svc.On("ExportPeriod", mock.Anything, "2025-01").Return([]byte("xlsx-bytes"), nil)
	svc.On("ExportPeriod", mock.Anything, "bad").Return(nil, fmt.Errorf("%w: invalid period", service.ErrValidation))
	router := newRouter(NewPeriodHandler(svc))

	w := do(t, router, http.MethodGet, "/api/periods/2025-01/export", tokenFor(t, managerID, "Manager"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payroll-2025-01.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", w.Body.String())

	w = do(t, router, http.MethodGet, "/api/periods/bad/export", tokenFor(t, managerID, "Manager"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/periods/2025-01/export", tokenFor(t, uuid.New(), "Staff"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
