package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/response"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/service"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/store"
)

type Handlers struct {
	service *service.Service
	logger  *logger.Logger
}

// RegisterRoutes mounts /notifications on an authenticated router group.
func RegisterRoutes(router gin.IRouter, svc *service.Service, log *logger.Logger) {
	h := &Handlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "notification-handlers")),
	}
	g := router.Group("/notifications")
	g.GET("", h.httpList)
	g.GET("/unread/count", h.httpUnreadCount)
	g.PUT("/read-all", h.httpMarkAllRead)
	g.PATCH("/read-all", h.httpMarkAllRead)
	g.PUT("/:id/read", h.httpMarkRead)
	g.PATCH("/:id/read", h.httpMarkRead)
	g.DELETE("/:id", h.httpDelete)
}

func (h *Handlers) httpList(c *gin.Context) {
	opts := store.ListOptions{
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}
	if unread, err := strconv.ParseBool(c.Query("unread")); err == nil {
		opts.UnreadOnly = unread
	}
	list, err := h.service.List(c.Request.Context(), auth.UserID(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *Handlers) httpUnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

func (h *Handlers) httpMarkRead(c *gin.Context) {
	n, err := h.service.MarkRead(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, n)
}

func (h *Handlers) httpMarkAllRead(c *gin.Context) {
	updated, err := h.service.MarkAllRead(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"updated": updated})
}

func (h *Handlers) httpDelete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
