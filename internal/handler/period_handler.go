package handler

import (
	"fmt"
	"net/http"

	"payroll/internal/middleware"
	"payroll/internal/service"
	"payroll/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PeriodHandler struct {
	periodService service.PeriodService
}

func NewPeriodHandler(periodService service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodService: periodService}
}

func (h *PeriodHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/period-close", middleware.RequireRole(), h.ListPeriods)
	router.PUT("/api/period-close", middleware.RequireRole(reviewerRoles...), h.UpdatePeriodStatus)

	periods := router.Group("/api/periods")
	{
		periods.GET("/open", middleware.RequireRole(), h.OpenPeriods)
		periods.GET("/:period/summary", middleware.RequireRole(), h.PeriodSummary)
		periods.POST("/:period/actions/:action", middleware.RequireRole(), h.ApplyBulkAction)
		periods.GET("/:period/export", middleware.RequireRole(reviewerRoles...), h.ExportPeriod)
	}
}

// ListPeriods returns the period close table
// @Summary      List period close statuses
// @Tags         periods
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.PeriodCloseResponse}
// @Router       /api/period-close [get]
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, periods))
}

// UpdatePeriodStatus changes the close status of one period
// @Summary      Update period close status
// @Description  Permanently Closed periods cannot be changed again
// @Tags         periods
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdatePeriodRequest  true  "Period Payload"
// @Success      200      {object}  response.Response{data=model.Period}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/period-close [put]
func (h *PeriodHandler) UpdatePeriodStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req service.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	period, err := h.periodService.UpdatePeriodStatus(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, period))
}

// OpenPeriods lists the periods invoices may be filed against
// @Summary      List open periods
// @Tags         periods
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Period}
// @Router       /api/periods/open [get]
func (h *PeriodHandler) OpenPeriods(c *gin.Context) {
	periods, err := h.periodService.OpenPeriods(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, periods))
}

// PeriodSummary returns the aggregate status, counts and totals of a period
// @Summary      Period summary
// @Tags         periods
// @Security     BearerAuth
// @Produce      json
// @Param        period  path      string  true  "Period label, e.g. 2025-01"
// @Success      200     {object}  response.Response{data=service.PeriodSummary}
// @Failure      400     {object}  response.Response
// @Router       /api/periods/{period}/summary [get]
func (h *PeriodHandler) PeriodSummary(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	summary, err := h.periodService.PeriodSummary(c.Request.Context(), actor, c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// ApplyBulkAction runs approve-all, resubmit or submit over a period
// @Summary      Apply bulk action
// @Description  approve-all (Manager, In Progress only), resubmit and submit (Accountant)
// @Tags         periods
// @Security     BearerAuth
// @Produce      json
// @Param        period  path      string  true  "Period label, e.g. 2025-01"
// @Param        action  path      string  true  "approve-all, resubmit or submit"
// @Success      200     {object}  response.Response{data=service.BulkActionResult}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Router       /api/periods/{period}/actions/{action} [post]
func (h *PeriodHandler) ApplyBulkAction(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.periodService.ApplyBulkAction(c.Request.Context(), actor, c.Param("period"), c.Param("action"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ExportPeriod downloads a period's invoices as a spreadsheet
// @Summary      Export period
// @Tags         periods
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        period  path      string  true  "Period label, e.g. 2025-01"
// @Success      200     {file}    file
// @Failure      400     {object}  response.Response
// @Router       /api/periods/{period}/export [get]
func (h *PeriodHandler) ExportPeriod(c *gin.Context) {
	label := c.Param("period")

	data, err := h.periodService.ExportPeriod(c.Request.Context(), label)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s.xlsx"`, label))
	c.Data(http.StatusOK, xlsxContentType, data)
}
