package handler

import (
	"net/http"

	"projector/internal/middleware"
	"projector/internal/model"
	"projector/internal/service"
	"projector/pkg/response"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service service.MessageService
}

func NewMessageHandler(s service.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

// RegisterRoutes expects an authenticated router group
func (h *MessageHandler) RegisterRoutes(router *gin.RouterGroup) {
	messages := router.Group("/api/messages")
	{
		messages.GET("", middleware.RequirePermission(model.ResourceChat, model.ActionRead), h.List)
		messages.POST("", middleware.RequirePermission(model.ResourceChat, model.ActionCreate), h.Send)
	}
}

// List returns a project thread or a direct conversation, oldest first
// @Summary      List messages
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  query     string  false  "Project thread"
// @Param        user_id     query     string  false  "Conversation partner"
// @Success      200         {object}  response.Response{data=[]model.Message}
// @Failure      400         {object}  response.Response
// @Router       /api/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	msgs, err := h.service.List(c.Request.Context(), actorID(c), service.MessageQuery{
		ProjectID: c.Query("project_id"),
		UserID:    c.Query("user_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, msgs))
}

// Send posts a message to a project thread or to a user
// @Summary      Send message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SendMessageRequest  true  "Message"
// @Success      201      {object}  response.Response{data=model.Message}
// @Failure      400      {object}  response.Response
// @Router       /api/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.service.Send(c.Request.Context(), actorID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, msg))
}
