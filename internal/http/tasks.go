package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/tasks"
)

// TasksController reports background task status.
type TasksController struct {
	queue  TaskQueue
	logger *zap.Logger
}

// NewTasksController creates a new TasksController.
func NewTasksController(queue TaskQueue, logger *zap.Logger) *TasksController {
	return &TasksController{queue: queue, logger: logger}
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondError(c, tc.logger, err)
		return
	}

	statusStr := tasks.StatusString(status)
	if statusStr == "not_found" {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found", Code: CodeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": statusStr,
	})
}
