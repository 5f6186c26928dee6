package handler

import (
	"net/http"
	"time"

	"projector/internal/middleware"
	"projector/internal/model"
	"projector/internal/service"
	"projector/pkg/pagination"
	"projector/pkg/response"

	"github.com/gin-gonic/gin"
)

// CookieSettings controls the access_token cookie written on login
type CookieSettings struct {
	TTL     time.Duration
	Release bool
}

type UserHandler struct {
	userService service.UserService
	cookies     CookieSettings
}

// NewUserHandler sets up the routing dependencies for auth and team endpoints
func NewUserHandler(userService service.UserService, cookies CookieSettings) *UserHandler {
	return &UserHandler{userService: userService, cookies: cookies}
}

// RegisterPublicRoutes binds the endpoints reachable without a token
func (h *UserHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/logout", h.Logout)
}

// RegisterRoutes expects an authenticated router group
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/auth/me", h.GetMe)

	users := router.Group("/api/users")
	{
		users.GET("", middleware.RequirePermission(model.ResourceTeam, model.ActionRead), h.ListUsers)
		users.GET("/:id", middleware.RequirePermission(model.ResourceTeam, model.ActionRead), h.GetUserByID)
		users.POST("", middleware.RequirePermission(model.ResourceTeam, model.ActionCreate), h.CreateUser)
		users.PUT("/:id", middleware.RequirePermission(model.ResourceTeam, model.ActionUpdate), h.UpdateUser)
		users.DELETE("/:id", middleware.RequirePermission(model.ResourceTeam, model.ActionDelete), h.DeleteUser)
	}
}

// Login authenticates by email and password
// @Summary      Login user
// @Description  Returns a JWT and sets it as an HttpOnly cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginUserRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.LoginResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	res, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookie(c, res.Token, h.cookies.TTL, h.cookies.Release)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Logout clears the access_token cookie
// @Summary      Logout user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c, h.cookies.Release)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out successfully"}))
}

// GetMe returns the authenticated user with its role and permission matrix
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), actorID(c).String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// CreateUser adds a team member
// @Summary      Create a team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateUserRequest  true  "User"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), middleware.CurrentPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// ListUsers returns one page of team members
// @Summary      List team members
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Items per page"
// @Success      200    {object}  response.Response{data=response.PaginatedData}
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.FromQuery(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, users, p, total))
}

// GetUserByID returns a single team member
// @Summary      Get team member
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.userService.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// UpdateUser changes the supplied fields of a team member
// @Summary      Update team member
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "User ID"
// @Param        payload  body      service.UpdateUserRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser removes a team member
// @Summary      Delete team member
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "User deleted successfully"}))
}
