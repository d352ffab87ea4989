package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/scheduler"
	"github.com/mrlokans/catalog/internal/tasks"
)

// TasksController exposes the background queue: task status and a manual
// trigger for the audit cleanup.
type TasksController struct {
	client    *tasks.Client
	scheduler *scheduler.AuditCleanupScheduler
}

// NewTasksController creates a new TasksController. sched may be nil.
func NewTasksController(client *tasks.Client, sched *scheduler.AuditCleanupScheduler) *TasksController {
	return &TasksController{client: client, scheduler: sched}
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.TaskStatus(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": status,
	})
}

// RunAuditCleanup handles POST /api/tasks/cleanup_audit_events/run
func (tc *TasksController) RunAuditCleanup(c *gin.Context) {
	if tc.scheduler == nil {
		respondBadRequest(c, "audit cleanup is not scheduled")
		return
	}

	taskID, err := tc.scheduler.RunNow()
	if err != nil {
		respondInternalError(c, err, "enqueue audit cleanup")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"id":      taskID,
		"type":    tasks.CleanupAuditEventsTask{}.Config().Name,
		"message": "task enqueued",
	})
}

// GetSchedule handles GET /api/tasks/schedule
func (tc *TasksController) GetSchedule(c *gin.Context) {
	resp := gin.H{"running": false}
	if tc.scheduler != nil && tc.scheduler.IsRunning() {
		resp["running"] = true
		if next := tc.scheduler.NextRunTime(); next != nil {
			resp["next_run"] = next.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, resp)
}
