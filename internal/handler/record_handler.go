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

// RecordHandler serves CRUD for one project record kind, each verb gated by its action on resource
type RecordHandler[T any, C any, U any] struct {
	resource string
	path     string
	service  service.RecordService[T, C, U]
}

func NewRecordHandler[T any, C any, U any](resource, path string, s service.RecordService[T, C, U]) *RecordHandler[T, C, U] {
	return &RecordHandler[T, C, U]{resource: resource, path: path, service: s}
}

// RegisterRoutes expects an authenticated router group
func (h *RecordHandler[T, C, U]) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group(h.path)
	{
		records.GET("", middleware.RequirePermission(h.resource, model.ActionRead), h.List)
		records.GET("/:id", middleware.RequirePermission(h.resource, model.ActionRead), h.Get)
		records.POST("", middleware.RequirePermission(h.resource, model.ActionCreate), h.Create)
		records.PUT("/:id", middleware.RequirePermission(h.resource, model.ActionUpdate), h.Update)
		records.DELETE("/:id", middleware.RequirePermission(h.resource, model.ActionDelete), h.Delete)
	}
}

// List returns one page of records; every other query parameter is offered as a filter
func (h *RecordHandler[T, C, U]) List(c *gin.Context) {
	q := service.ListQuery{Page: pagination.FromQuery(c), Filters: map[string]string{}}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			q.Filters[key] = values[0]
		}
	}

	items, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, q.Page, total))
}

func (h *RecordHandler[T, C, U]) Get(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

func (h *RecordHandler[T, C, U]) Create(c *gin.Context) {
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.service.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rec))
}

func (h *RecordHandler[T, C, U]) Update(c *gin.Context) {
	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

func (h *RecordHandler[T, C, U]) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Deleted successfully"}))
}

// RegisterRecordRoutes mounts every project record kind under /api
func RegisterRecordRoutes(router *gin.RouterGroup, s service.RecordServices) {
	NewRecordHandler(model.ResourceClients, "/api/clients", s.Clients).RegisterRoutes(router)
	NewRecordHandler(model.ResourceProjects, "/api/projects", s.Projects).RegisterRoutes(router)
	NewRecordHandler(model.ResourceRequirements, "/api/requirements", s.Requirements).RegisterRoutes(router)
	NewRecordHandler(model.ResourceQuotations, "/api/quotations", s.Quotations).RegisterRoutes(router)
	NewRecordHandler(model.ResourceTasks, "/api/tasks", s.Tasks).RegisterRoutes(router)
	NewRecordHandler(model.ResourceBugs, "/api/bugs", s.Bugs).RegisterRoutes(router)
	NewRecordHandler(model.ResourceDocuments, "/api/documents", s.Documents).RegisterRoutes(router)
	NewRecordHandler(model.ResourceCredentials, "/api/credentials", s.Credentials).RegisterRoutes(router)
}
