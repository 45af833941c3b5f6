package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/middleware"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/services"
)

const generateTimeout = 60 * time.Second

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// statusQuery reads an optional ?status= filter
func statusQuery(c *gin.Context) *models.TaskStatus {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	status := models.TaskStatus(raw)
	return &status
}

// ListTasks returns every task for admins and the caller's assigned tasks otherwise
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(user, statusQuery(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskWithRelationsDTOs(tasks))
}

// ListMyTasks returns the tasks assigned to the caller
func (h *TaskHandler) ListMyTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListMyTasks(user.ID, statusQuery(c))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskWithRelationsDTOs(tasks))
}

// GetTask returns a specific task by ID
// Task is already loaded with relations by RequireTaskAccess middleware
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskWithRelationsDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description *string             `json:"description"`
		Priority    models.TaskPriority `json:"priority"`
		Status      models.TaskStatus   `json:"status"`
		AssignedTo  *uint64             `json:"assignedTo"`
		DueDate     *time.Time          `json:"dueDate"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		CreatorID:   user.ID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskWithRelationsDTO(*task))
}

// UpdateTask updates a task. Assignees may only send a status.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string                 `json:"title"`
		Description *string                 `json:"description"`
		Priority    *models.TaskPriority    `json:"priority"`
		Status      *models.TaskStatus      `json:"status"`
		AssignedTo  dto.Nullable[uint64]    `json:"assignedTo"`
		DueDate     dto.Nullable[time.Time] `json:"dueDate"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.taskService.UpdateTask(user, task.ID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		AssigneeSet: req.AssignedTo.Set,
		AssignedTo:  req.AssignedTo.Value,
		DueDateSet:  req.DueDate.Set,
		DueDate:     req.DueDate.Value,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskWithRelationsDTO(*updated))
}

// GenerateTasks drafts task suggestions from free text. Nothing is saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generateTimeout)
	defer cancel()

	generated, err := h.taskService.GenerateTasks(ctx, req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	drafts := make([]dto.TaskDraftDTO, len(generated))
	for i, t := range generated {
		drafts[i] = dto.TaskDraftDTO{
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			DueDate:     t.DueDate,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskPermissionDenied), errors.Is(err, services.ErrStatusOnlyUpdate):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrInvalidTaskAssignee),
		errors.Is(err, services.ErrTaskTextRequired),
		errors.Is(err, services.ErrTaskTextTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.RespondWithError(c, http.StatusUnprocessableEntity, apierrors.NewAPIError(apierrors.ErrCodeOperationFailed, err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Warn("Task generation timed out")
		apierrors.RespondWithError(c, http.StatusGatewayTimeout, apierrors.NewAPIError(apierrors.ErrCodeOperationFailed, "Task generation timed out"))
	default:
		apierrors.Unexpected(c, err)
	}
}
