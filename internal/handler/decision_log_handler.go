package handler

import (
	"net/http"

	"projector/internal/middleware"
	"projector/internal/model"
	"projector/internal/service"
	"projector/pkg/response"

	"github.com/gin-gonic/gin"
)

type DecisionLogHandler struct {
	service service.DecisionLogService
}

func NewDecisionLogHandler(s service.DecisionLogService) *DecisionLogHandler {
	return &DecisionLogHandler{service: s}
}

// RegisterRoutes expects an authenticated router group
func (h *DecisionLogHandler) RegisterRoutes(router *gin.RouterGroup) {
	logs := router.Group("/api/decision-logs")
	{
		logs.GET("", middleware.RequirePermission(model.ResourceDecisionLogs, model.ActionRead), h.List)
		logs.GET("/:id", middleware.RequirePermission(model.ResourceDecisionLogs, model.ActionRead), h.Get)
		logs.POST("", middleware.RequirePermission(model.ResourceDecisionLogs, model.ActionCreate), h.Create)
		logs.PUT("/:id", middleware.RequirePermission(model.ResourceDecisionLogs, model.ActionUpdate), h.Update)
		logs.DELETE("/:id", middleware.RequirePermission(model.ResourceDecisionLogs, model.ActionDelete), h.Delete)
	}
}

// List returns decision logs, newest first
// @Summary      List decision logs
// @Tags         decision-logs
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project ID"
// @Success      200         {object}  response.Response{data=[]model.DecisionLog}
// @Router       /api/decision-logs [get]
func (h *DecisionLogHandler) List(c *gin.Context) {
	logs, err := h.service.List(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}

// Get returns one decision log
// @Summary      Get decision log
// @Tags         decision-logs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Decision log ID"
// @Success      200  {object}  response.Response{data=model.DecisionLog}
// @Failure      404  {object}  response.Response
// @Router       /api/decision-logs/{id} [get]
func (h *DecisionLogHandler) Get(c *gin.Context) {
	log, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, log))
}

// Create records a decision
// @Summary      Create decision log
// @Tags         decision-logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateDecisionLogRequest  true  "Decision"
// @Success      201      {object}  response.Response{data=model.DecisionLog}
// @Failure      400      {object}  response.Response
// @Router       /api/decision-logs [post]
func (h *DecisionLogHandler) Create(c *gin.Context) {
	var req service.CreateDecisionLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	log, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, log))
}

// Update changes the supplied fields of a decision log
// @Summary      Update decision log
// @Tags         decision-logs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Decision log ID"
// @Param        payload  body      service.UpdateDecisionLogRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.DecisionLog}
// @Failure      404      {object}  response.Response
// @Router       /api/decision-logs/{id} [put]
func (h *DecisionLogHandler) Update(c *gin.Context) {
	var req service.UpdateDecisionLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	log, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, log))
}

// Delete removes a decision log
// @Summary      Delete decision log
// @Tags         decision-logs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Decision log ID"
// @Success      200  {object}  response.Response
// @Router       /api/decision-logs/{id} [delete]
func (h *DecisionLogHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Decision log deleted successfully"}))
}
