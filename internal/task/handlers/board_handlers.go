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

type BoardHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewBoardHandlers(svc *service.Service, log *logger.Logger) *BoardHandlers {
	return &BoardHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "task-board-handlers")),
	}
}

func RegisterBoardRoutes(router gin.IRouter, svc *service.Service, log *logger.Logger) *BoardHandlers {
	h := NewBoardHandlers(svc, log)
	g := router.Group("/boards")
	g.GET("", h.httpListBoards)
	g.POST("", h.httpCreateBoard)
	g.GET("/:id", h.httpGetBoard)
	g.PUT("/:id", h.httpUpdateBoard)
	g.DELETE("/:id", h.httpDeleteBoard)
	g.POST("/:id/members", h.httpAddMember)
	g.DELETE("/:id/members/:userId", h.httpRemoveMember)
	g.GET("/:id/activities", h.httpListActivities)
	return h
}

func (h *BoardHandlers) httpListBoards(c *gin.Context) {
	boards, err := h.service.ListBoards(c.Request.Context(), auth.UserID(c), c.Query("workspace_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, boards)
}

func (h *BoardHandlers) httpCreateBoard(c *gin.Context) {
	var body dto.CreateBoardRequest
	if !bindJSON(c, &body) {
		return
	}
	board, err := h.service.CreateBoard(c.Request.Context(), auth.UserID(c), service.CreateBoardRequest{
		WorkspaceID: body.WorkspaceID,
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, board)
}

func (h *BoardHandlers) httpGetBoard(c *gin.Context) {
	board, err := h.service.GetBoard(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, board)
}

func (h *BoardHandlers) httpUpdateBoard(c *gin.Context) {
	var body dto.UpdateBoardRequest
	if !bindJSON(c, &body) {
		return
	}
	board, err := h.service.UpdateBoard(c.Request.Context(), auth.UserID(c), c.Param("id"), service.UpdateBoardRequest{
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, board)
}

func (h *BoardHandlers) httpDeleteBoard(c *gin.Context) {
	if err := h.service.DeleteBoard(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

func (h *BoardHandlers) httpAddMember(c *gin.Context) {
	var body dto.AddMemberRequest
	if !bindJSON(c, &body) {
		return
	}
	board, err := h.service.AddBoardMember(c.Request.Context(), auth.UserID(c), c.Param("id"), body.UserID, body.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, board)
}

func (h *BoardHandlers) httpRemoveMember(c *gin.Context) {
	board, err := h.service.RemoveBoardMember(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, board)
}

func (h *BoardHandlers) httpListActivities(c *gin.Context) {
	list, err := h.service.ListActivities(c.Request.Context(), auth.UserID(c), c.Param("id"),
		queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
