package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/response"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/dto"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/service"
)

type TaskHandlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewTaskHandlers(svc *service.Service, log *logger.Logger) *TaskHandlers {
	return &TaskHandlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "task-task-handlers")),
	}
}

// RegisterTaskRoutes mounts /tasks, including comments and attachments.
func RegisterTaskRoutes(router gin.IRouter, svc *service.Service, log *logger.Logger) *TaskHandlers {
	h := NewTaskHandlers(svc, log)
	g := router.Group("/tasks")
	g.GET("", h.httpListTasks)
	g.POST("", h.httpCreateTask)
	g.PUT("/reorder", h.httpReorderTasks)
	g.GET("/:id", h.httpGetTask)
	g.PUT("/:id", h.httpUpdateTask)
	g.DELETE("/:id", h.httpDeleteTask)
	g.POST("/:id/move", h.httpMoveTask)

	comments := NewCommentHandlers(svc, log)
	g.GET("/:id/comments", comments.httpListComments)
	g.POST("/:id/comments", comments.httpAddComment)
	g.PUT("/:id/comments/:commentId", comments.httpUpdateComment)
	g.DELETE("/:id/comments/:commentId", comments.httpDeleteComment)
	g.POST("/:id/attachments", comments.httpAddAttachment)
	g.DELETE("/:id/attachments/:attachmentId", comments.httpDeleteAttachment)
	return h
}

func (h *TaskHandlers) httpListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context(), auth.UserID(c), repository.TaskFilter{
		BoardID:    c.Query("board_id"),
		ColumnID:   c.Query("column_id"),
		AssigneeID: c.Query("assignee_id"),
		Priority:   c.Query("priority"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tasks)
}

func (h *TaskHandlers) httpCreateTask(c *gin.Context) {
	var body dto.CreateTaskRequest
	if !bindJSON(c, &body) {
		return
	}
	task, err := h.service.CreateTask(c.Request.Context(), auth.UserID(c), service.CreateTaskRequest{
		ColumnID:    body.ColumnID,
		Title:       body.Title,
		Description: body.Description,
		AssigneeID:  body.AssigneeID,
		Priority:    models.Priority(body.Priority),
		DueDate:     body.DueDate,
		Tags:        body.Tags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

func (h *TaskHandlers) httpGetTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, task)
}

func (h *TaskHandlers) httpUpdateTask(c *gin.Context) {
	var body dto.UpdateTaskRequest
	if !bindJSON(c, &body) {
		return
	}
	due, clearDue, err := body.ParseDueDate()
	if err != nil {
		response.BadRequest(c, "due_date must be an RFC 3339 timestamp")
		return
	}
	req := service.UpdateTaskRequest{
		Title:        body.Title,
		Description:  body.Description,
		AssigneeID:   body.AssigneeID,
		DueDate:      due,
		ClearDueDate: clearDue,
		Tags:         body.Tags,
	}
	if body.Priority != nil {
		p := models.Priority(*body.Priority)
		req.Priority = &p
	}
	task, err := h.service.UpdateTask(c.Request.Context(), auth.UserID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, task)
}

func (h *TaskHandlers) httpDeleteTask(c *gin.Context) {
	if err := h.service.DeleteTask(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id")})
}

func (h *TaskHandlers) httpMoveTask(c *gin.Context) {
	var body dto.MoveTaskRequest
	if !bindJSON(c, &body) {
		return
	}
	task, err := h.service.MoveTask(c.Request.Context(), auth.UserID(c), c.Param("id"), service.MoveTaskRequest{
		ColumnID: body.ColumnID,
		Position: body.Position,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, task)
}

func (h *TaskHandlers) httpReorderTasks(c *gin.Context) {
	var body dto.ReorderTasksRequest
	if !bindJSON(c, &body) {
		return
	}
	tasks, err := h.service.ReorderTasks(c.Request.Context(), auth.UserID(c), body.Tasks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, tasks)
}
