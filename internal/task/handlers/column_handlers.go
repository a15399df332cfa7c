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

type ColumnHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewColumnHandlers(svc *service.Service, log *logger.Logger) *ColumnHandlers {
	return &ColumnHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "task-column-handlers")),
	}
}

func RegisterColumnRoutes(router gin.IRouter, svc *service.Service, log *logger.Logger) *ColumnHandlers {
	h := NewColumnHandlers(svc, log)
	g := router.Group("/columns")
	g.GET("", h.httpListColumns)
	g.POST("", h.httpCreateColumn)
	g.PUT("/reorder", h.httpReorderColumns)
	g.GET("/:id", h.httpGetColumn)
	g.PUT("/:id", h.httpUpdateColumn)
	g.DELETE("/:id", h.httpDeleteColumn)
	return h
}

func (h *ColumnHandlers) httpListColumns(c *gin.Context) {
	columns, err := h.service.ListColumns(c.Request.Context(), auth.UserID(c), c.Query("board_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, columns)
}

func (h *ColumnHandlers) httpCreateColumn(c *gin.Context) {
	var body dto.CreateColumnRequest
	if !bindJSON(c, &body) {
		return
	}
	column, err := h.service.CreateColumn(c.Request.Context(), auth.UserID(c), service.CreateColumnRequest{
		BoardID: body.BoardID,
		Name:    body.Name,
		Color:   body.Color,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, column)
}

func (h *ColumnHandlers) httpReorderColumns(c *gin.Context) {
	var body dto.ReorderColumnsRequest
	if !bindJSON(c, &body) {
		return
	}
	columns, err := h.service.ReorderColumns(c.Request.Context(), auth.UserID(c), body.BoardID, body.Columns)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, columns)
}

func (h *ColumnHandlers) httpGetColumn(c *gin.Context) {
	column, err := h.service.GetColumn(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, column)
}

func (h *ColumnHandlers) httpUpdateColumn(c *gin.Context) {
	var body dto.UpdateColumnRequest
	if !bindJSON(c, &body) {
		return
	}
	column, err := h.service.UpdateColumn(c.Request.Context(), auth.UserID(c), c.Param("id"), service.UpdateColumnRequest{
		Name:  body.Name,
		Color: body.Color,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, column)
}

func (h *ColumnHandlers) httpDeleteColumn(c *gin.Context) {
	if err := h.service.DeleteColumn(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}
