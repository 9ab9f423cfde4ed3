package handler

import (
	"fmt"
	"net/http"
	"testing"

	"payroll/internal/payroll"
	"payroll/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLocRoutes(t *testing.T) {
	managerID := uuid.New()
	manager := service.Actor{UserID: managerID, Role: payroll.RoleManager}

	svc := new(mockLocService)
	svc.On("ListLocs", mock.Anything, "north").Return([]service.LocResponse{{ID: "1", Name: "North"}}, nil)
	svc.On("CreateLoc", mock.Anything, manager, mock.MatchedBy(func(req service.LocRequest) bool { return req.Name == "Site A" })).
		Return(service.LocResponse{}, fmt.Errorf("%w: meeting_rate must not be negative; day_rate must not be negative", service.ErrValidation))
	router := newRouter(NewLocHandler(svc))

	w := do(t, router, http.MethodGet, "/api/locs?q=north", tokenFor(t, uuid.New(), "Staff"), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body := map[string]interface{}{"name": "Site A", "meeting_rate": "-1", "day_rate": "-2"}

	w = do(t, router, http.MethodPost, "/api/locs", tokenFor(t, uuid.New(), "Staff"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, router, http.MethodPost, "/api/locs", tokenFor(t, managerID, "Manager"), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error, "day_rate must not be negative")

	w = do(t, router, http.MethodPost, "/api/locs", tokenFor(t, managerID, "Manager"), map[string]interface{}{"name": "Site B", "status": "closed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}
