package handler

import (
	"errors"
	"net/http"

	"payroll/internal/middleware"
	"payroll/internal/payroll"
	"payroll/internal/service"
	"payroll/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorFrom builds the acting user from the claims RequireRole stored. It
// writes a 401 and returns false when they are unusable.
func actorFrom(c *gin.Context) (service.Actor, bool) {
	actor, err := parseActor(c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserRole))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
		return service.Actor{}, false
	}
	return actor, true
}

func parseActor(userID, role string) (service.Actor, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return service.Actor{}, errors.New("invalid user id in token")
	}
	r, err := payroll.ParseRole(role)
	if err != nil {
		return service.Actor{}, err
	}
	return service.Actor{UserID: id, Role: r}, nil
}

// reviewerRoles may manage reference data and review invoices.
var reviewerRoles = []string{string(payroll.RoleManager), string(payroll.RoleAccountant)}
