package handler

import (
	"net/http"

	"projector/internal/middleware"
	"projector/internal/model"
	"projector/internal/service"
	"projector/pkg/pagination"
	"projector/pkg/response"

	"github.com/gin-gonic/gin"
)

type EstimationHandler struct {
	service service.EstimationService
}

func NewEstimationHandler(s service.EstimationService) *EstimationHandler {
	return &EstimationHandler{service: s}
}

// RegisterRoutes expects an authenticated router group
func (h *EstimationHandler) RegisterRoutes(router *gin.RouterGroup) {
	estimations := router.Group("/api/estimations")
	{
		estimations.GET("", middleware.RequirePermission(model.ResourceEstimations, model.ActionRead), h.List)
		estimations.GET("/:id", middleware.RequirePermission(model.ResourceEstimations, model.ActionRead), h.Get)
		estimations.POST("", middleware.RequirePermission(model.ResourceEstimations, model.ActionCreate), h.Create)
		estimations.PUT("/:id", middleware.RequirePermission(model.ResourceEstimations, model.ActionUpdate), h.Update)
		estimations.DELETE("/:id", middleware.RequirePermission(model.ResourceEstimations, model.ActionDelete), h.Delete)
	}
}

// List returns one page of estimations
// @Summary      List estimations
// @Tags         estimations
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  query     string  false  "Client ID"
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Items per page"
// @Success      200        {object}  response.Response{data=response.PaginatedData}
// @Router       /api/estimations [get]
func (h *EstimationHandler) List(c *gin.Context) {
	p := pagination.FromQuery(c)

	items, total, err := h.service.List(c.Request.Context(), c.Query("client_id"), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, p, total))
}

// Get returns one estimation
// @Summary      Get estimation
// @Tags         estimations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Estimation ID"
// @Success      200  {object}  response.Response{data=model.Estimation}
// @Failure      404  {object}  response.Response
// @Router       /api/estimations/{id} [get]
func (h *EstimationHandler) Get(c *gin.Context) {
	estimation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, estimation))
}

// Create prices a requirement
// @Summary      Create estimation
// @Description  Item costs and totals are computed server side
// @Tags         estimations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.EstimationRequest  true  "Estimation"
// @Success      201      {object}  response.Response{data=model.Estimation}
// @Failure      400      {object}  response.Response
// @Router       /api/estimations [post]
func (h *EstimationHandler) Create(c *gin.Context) {
	var req service.EstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	estimation, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, estimation))
}

// Update replaces an estimation and recomputes its totals
// @Summary      Update estimation
// @Tags         estimations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Estimation ID"
// @Param        payload  body      service.EstimationRequest  true  "Estimation"
// @Success      200      {object}  response.Response{data=model.Estimation}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/estimations/{id} [put]
func (h *EstimationHandler) Update(c *gin.Context) {
	var req service.EstimationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	estimation, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, estimation))
}

// Delete removes an estimation
// @Summary      Delete estimation
// @Tags         estimations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Estimation ID"
// @Success      200  {object}  response.Response
// @Router       /api/estimations/{id} [delete]
func (h *EstimationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Estimation deleted successfully"}))
}
