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

// CommentHandlers serves the comment and attachment sub-resources of a task.
type CommentHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewCommentHandlers(svc *service.Service, log *logger.Logger) *CommentHandlers {
	return &CommentHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "task-comment-handlers")),
	}
}

func (h *CommentHandlers) httpListComments(c *gin.Context) {
	comments, err := h.service.ListComments(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, comments)
}

func (h *CommentHandlers) httpAddComment(c *gin.Context) {
	var body dto.CommentRequest
	if !bindJSON(c, &body) {
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), auth.UserID(c), c.Param("id"), body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

func (h *CommentHandlers) httpUpdateComment(c *gin.Context) {
	var body dto.CommentRequest
	if !bindJSON(c, &body) {
		return
	}
	comment, err := h.service.UpdateComment(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Param("commentId"), body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, comment)
}

func (h *CommentHandlers) httpDeleteComment(c *gin.Context) {
	if err := h.service.DeleteComment(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Param("commentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("commentId")})
}

func (h *CommentHandlers) httpAddAttachment(c *gin.Context) {
	var body dto.AddAttachmentRequest
	if !bindJSON(c, &body) {
		return
	}
	task, err := h.service.AddAttachment(c.Request.Context(), auth.UserID(c), c.Param("id"), service.AddAttachmentRequest{
		Name:     body.Name,
		URL:      body.URL,
		Size:     body.Size,
		MimeType: body.MimeType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

func (h *CommentHandlers) httpDeleteAttachment(c *gin.Context) {
	task, err := h.service.DeleteAttachment(c.Request.Context(), auth.UserID(c), c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, task)
}
