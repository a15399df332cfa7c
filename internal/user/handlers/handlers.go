package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/response"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/dto"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/service"
)

type Handlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "user-handlers")),
	}
}

// RegisterRoutes mounts /auth and /users. requireAuth guards everything but
// register and login.
func RegisterRoutes(router gin.IRouter, svc *service.Service, requireAuth gin.HandlerFunc, log *logger.Logger) {
	h := NewHandlers(svc, log)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", h.httpRegister)
	authGroup.POST("/login", h.httpLogin)
	authGroup.GET("/me", requireAuth, h.httpMe)
	authGroup.PUT("/me", requireAuth, h.httpUpdateMe)

	router.GET("/users", requireAuth, h.httpFindUser)
}

func (h *Handlers) httpRegister(c *gin.Context) {
	var body dto.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid payload")
		return
	}
	user, token, err := h.service.Register(c.Request.Context(), service.RegisterRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.AuthResponse{User: dto.FromUser(user), Token: token})
}

func (h *Handlers) httpLogin(c *gin.Context) {
	var body dto.LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid payload")
		return
	}
	user, token, err := h.service.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AuthResponse{User: dto.FromUser(user), Token: token})
}

func (h *Handlers) httpMe(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user))
}

func (h *Handlers) httpUpdateMe(c *gin.Context) {
	var body dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid payload")
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), auth.UserID(c), service.UpdateProfileRequest{
		Name:   body.Name,
		Avatar: body.Avatar,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user))
}

func (h *Handlers) httpFindUser(c *gin.Context) {
	user, err := h.service.FindByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromUser(user))
}
