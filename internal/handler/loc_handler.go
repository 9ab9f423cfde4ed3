package handler

import (
	"net/http"

	"payroll/internal/middleware"
	"payroll/internal/service"
	"payroll/pkg/response"

	"github.com/gin-gonic/gin"
)

type LocHandler struct {
	locService service.LocService
}

func NewLocHandler(locService service.LocService) *LocHandler {
	return &LocHandler{locService: locService}
}

func (h *LocHandler) RegisterRoutes(router *gin.RouterGroup) {
	locs := router.Group("/api/locs")
	{
		locs.GET("", middleware.RequireRole(), h.ListLocs)
		locs.GET("/:id", middleware.RequireRole(), h.GetLoc)
		locs.POST("", middleware.RequireRole(reviewerRoles...), h.CreateLoc)
		locs.PUT("/:id", middleware.RequireRole(reviewerRoles...), h.UpdateLoc)
		locs.DELETE("/:id", middleware.RequireRole(reviewerRoles...), h.DeleteLoc)
	}
}

// ListLocs returns every location with its rate table
// @Summary      List locs
// @Tags         locs
// @Security     BearerAuth
// @Produce      json
// @Param        q    query     string  false  "Partial match on name or address"
// @Success      200  {object}  response.Response{data=[]service.LocResponse}
// @Router       /api/locs [get]
func (h *LocHandler) ListLocs(c *gin.Context) {
	locs, err := h.locService.ListLocs(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, locs))
}

// GetLoc returns one location
// @Summary      Get loc
// @Tags         locs
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Loc ID"
// @Success      200  {object}  response.Response{data=service.LocResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/locs/{id} [get]
func (h *LocHandler) GetLoc(c *gin.Context) {
	loc, err := h.locService.GetLoc(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, loc))
}

// CreateLoc creates a location
// @Summary      Create loc
// @Description  Creates a location; every validation problem is reported at once
// @Tags         locs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LocRequest  true  "Loc Payload"
// @Success      201      {object}  response.Response{data=service.LocResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/locs [post]
func (h *LocHandler) CreateLoc(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req service.LocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	loc, err := h.locService.CreateLoc(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, loc))
}

// UpdateLoc replaces a location's fields
// @Summary      Update loc
// @Tags         locs
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Loc ID"
// @Param        payload  body      service.LocRequest  true  "Loc Payload"
// @Success      200      {object}  response.Response{data=service.LocResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/locs/{id} [put]
func (h *LocHandler) UpdateLoc(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req service.LocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	loc, err := h.locService.UpdateLoc(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, loc))
}

// DeleteLoc removes a location
// @Summary      Delete loc
// @Tags         locs
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Loc ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/locs/{id} [delete]
func (h *LocHandler) DeleteLoc(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	if err := h.locService.DeleteLoc(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Loc deleted successfully"))
}
