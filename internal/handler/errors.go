package handler

import (
	"errors"
	"net/http"

	"payroll/internal/payroll"
	"payroll/internal/service"
	"payroll/pkg/response"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error onto its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, payroll.ErrInvalidStatus),
		errors.Is(err, payroll.ErrInvalidAction),
		errors.Is(err, payroll.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, payroll.ErrForbiddenAction):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateInvoice),
		errors.Is(err, service.ErrPeriodNotOpen),
		errors.Is(err, payroll.ErrActionNotAvailable):
		return http.StatusConflict
	case errors.Is(err, service.ErrMissingConfiguration):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope for err. Server-side failures get
// a generic message; the real error is logged and sent to Sentry.
func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()

	if code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		captureError(c, err)

		msg = "Internal Server Error"
		if errors.Is(err, service.ErrStorage) {
			msg = "Database Error: the request could not be completed"
		}
	}

	_ = c.Error(err)
	c.JSON(code, response.Error(code, msg))
}

func captureError(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelError)
			scope.SetTag("route", c.FullPath())
			hub.CaptureException(err)
		})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
