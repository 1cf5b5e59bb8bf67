package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-app/taskflow-api/internal/dto"
	apierrors "github.com/taskflow-app/taskflow-api/internal/errors"
	"github.com/taskflow-app/taskflow-api/internal/middleware"
	"github.com/taskflow-app/taskflow-api/internal/models"
	"github.com/taskflow-app/taskflow-api/internal/services"
	"github.com/taskflow-app/taskflow-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task in a project the caller belongs to.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateRequest struct {
		Title        string            `json:"title" binding:"required,max=255"`
		Description  string            `json:"description"`
		ProjectID    uint64            `json:"project_id" binding:"required"`
		AssignedToID *uint64           `json:"assigned_to_id"`
		Status       models.TaskStatus `json:"status" binding:"omitempty,oneof=todo in-progress completed"`
		Priority     models.Priority   `json:"priority" binding:"omitempty,oneof=low medium high"`
		DueDate      *time.Time        `json:"due_date"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		ProjectID:    req.ProjectID,
		AssignedToID: req.AssignedToID,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		CreatorID:    userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks lists tasks across the caller's projects with optional filters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		UserID:    userID,
		SortByDue: c.Query("sort") == "due_date",
		Page:      params.Page,
		PageSize:  params.Limit,
	}

	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &id
	}
	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		input.Status = &status
	}
	if v := c.Query("created_by"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid created_by")
			return
		}
		input.CreatorID = &id
	}
	if v := c.Query("assigned_to"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return
		}
		input.AssignedToID = &id
	}
	if v := c.Query("due_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_from")
			return
		}
		input.DueDateFrom = &t
	}
	if v := c.Query("due_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_to")
			return
		}
		input.DueDateTo = &t
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks: dto.ToTaskDTOs(tasks),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns a single task for any project member.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask updates a task; creator or any project member.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateRequest struct {
		Title         string            `json:"title" binding:"omitempty,max=255"`
		Description   string            `json:"description"`
		AssignedToID  *uint64           `json:"assigned_to_id"`
		ClearAssignee bool              `json:"clear_assignee"`
		Status        models.TaskStatus `json:"status" binding:"omitempty,oneof=todo in-progress completed"`
		Priority      models.Priority   `json:"priority" binding:"omitempty,oneof=low medium high"`
		DueDate       *time.Time        `json:"due_date"`
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	task, err := h.taskService.UpdateTask(taskID, userID, services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssignedToID:  req.AssignedToID,
		ClearAssignee: req.ClearAssignee,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task; creator or project owner only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := h.taskService.DeleteTask(taskID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
