package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/httpmw"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	gateways "github.com/IsSact22/Gestion-tareas-sub001/internal/gateway/websocket"
	notificationhandlers "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/handlers"
	taskhandlers "github.com/IsSact22/Gestion-tareas-sub001/internal/task/handlers"
	userhandlers "github.com/IsSact22/Gestion-tareas-sub001/internal/user/handlers"
)

const serverName = "kanban-api"

// newRouter mounts the REST surface under apiPrefix; an empty prefix mounts it
// at the root next to /health and /ws.
func newRouter(svcs *Services, gateway *gateways.Gateway, apiPrefix string, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		httpmw.RequestID(),
		httpmw.OtelTracing(serverName),
		httpmw.RequestLogger(log, serverName),
		httpmw.Recovery(log),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serverName,
			"clients": gateway.Hub.GetClientCount(),
		})
	})
	gateway.SetupRoutes(router)

	requireAuth := auth.RequireAuth(svcs.Tokens)

	api := router.Group(apiPrefix)
	userhandlers.RegisterRoutes(api, svcs.User, requireAuth, log)

	protected := api.Group("", requireAuth)
	notificationhandlers.RegisterRoutes(protected, svcs.Notifications, log)
	taskhandlers.RegisterWorkspaceRoutes(protected, svcs.Task, log)
	taskhandlers.RegisterBoardRoutes(protected, svcs.Task, log)
	taskhandlers.RegisterColumnRoutes(protected, svcs.Task, log)
	taskhandlers.RegisterTaskRoutes(protected, svcs.Task, log)

	return router
}
