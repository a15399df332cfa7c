package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/response"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/dto"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/service"
)

type WorkspaceHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewWorkspaceHandlers(svc *service.Service, log *logger.Logger) *WorkspaceHandlers {
	return &WorkspaceHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "task-workspace-handlers")),
	}
}

// RegisterWorkspaceRoutes mounts /workspaces on an authenticated group.
func RegisterWorkspaceRoutes(router gin.IRouter, svc *service.Service, log *logger.Logger) *WorkspaceHandlers {
	h := NewWorkspaceHandlers(svc, log)
	g := router.Group("/workspaces")
	g.GET("", h.httpListWorkspaces)
	g.POST("", h.httpCreateWorkspace)
	g.GET("/:id", h.httpGetWorkspace)
	g.PUT("/:id", h.httpUpdateWorkspace)
	g.DELETE("/:id", h.httpDeleteWorkspace)
	g.GET("/:id/members", h.httpListMembers)
	g.POST("/:id/members", h.httpAddMember)
	g.PUT("/:id/members/:userId", h.httpUpdateMember)
	g.DELETE("/:id/members/:userId", h.httpRemoveMember)
	return h
}

func (h *WorkspaceHandlers) httpListWorkspaces(c *gin.Context) {
	list, err := h.service.ListWorkspaces(c.Request.Context(), auth.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *WorkspaceHandlers) httpCreateWorkspace(c *gin.Context) {
	var body dto.CreateWorkspaceRequest
	if !bindJSON(c, &body) {
		return
	}
	ws, err := h.service.CreateWorkspace(c.Request.Context(), auth.UserID(c), service.CreateWorkspaceRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ws)
}

func (h *WorkspaceHandlers) httpGetWorkspace(c *gin.Context) {
	ws, err := h.service.GetWorkspace(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ws)
}

func (h *WorkspaceHandlers) httpUpdateWorkspace(c *gin.Context) {
	var body dto.UpdateWorkspaceRequest
	if !bindJSON(c, &body) {
		return
	}
	ws, err := h.service.UpdateWorkspace(c.Request.Context(), auth.UserID(c), c.Param("id"), service.UpdateWorkspaceRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ws)
}

func (h *WorkspaceHandlers) httpDeleteWorkspace(c *gin.Context) {
	if err := h.service.DeleteWorkspace(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

func (h *WorkspaceHandlers) httpListMembers(c *gin.Context) {
	members, err := h.service.ListWorkspaceMembers(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, members)
}

func (h *WorkspaceHandlers) httpAddMember(c *gin.Context) {
	var body dto.AddMemberRequest
	if !bindJSON(c, &body) {
		return
	}
	ws, err := h.service.AddWorkspaceMember(c.Request.Context(), auth.UserID(c), c.Param("id"), body.UserID, body.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ws)
}

func (h *WorkspaceHandlers) httpUpdateMember(c *gin.Context) {
	var body dto.UpdateMemberRequest
	if !bindJSON(c, &body) {
		return
	}
	ws, err := h.service.UpdateWorkspaceMember(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Param("userId"), body.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ws)
}

func (h *WorkspaceHandlers) httpRemoveMember(c *gin.Context) {
	ws, err := h.service.RemoveWorkspaceMember(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, ws)
}
