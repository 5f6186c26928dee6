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

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// RegisterRoutes expects an authenticated router group
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(middleware.RequirePermission(model.ResourceRoles, model.ActionRead))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the role management history
// @Summary      Get audit logs
// @Description  Lists role create, update, delete and seed events, newest first
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Param        action     query     string  false  "Only this action, e.g. UPDATE_ROLE"
// @Param        entity_id  query     string  false  "Only changes of this role"
// @Param        user_id    query     string  false  "Only changes made by this user"
// @Success      200        {object}  response.Response{data=response.PaginatedData}
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.FromQuery(c)
	q := service.AuditQuery{
		Action:   c.Query("action"),
		EntityID: c.Query("entity_id"),
		UserID:   c.Query("user_id"),
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), q, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, logs, p, total))
}
