package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-app/taskflow-api/internal/dto"
	apierrors "github.com/taskflow-app/taskflow-api/internal/errors"
	"github.com/taskflow-app/taskflow-api/internal/middleware"
	"github.com/taskflow-app/taskflow-api/internal/models"
	"github.com/taskflow-app/taskflow-api/internal/services"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateRequest struct {
		Title       string               `json:"title" binding:"required,max=255"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
		Priority    models.Priority      `json:"priority" binding:"omitempty,oneof=low medium high"`
		StartDate   *time.Time           `json:"start_date"`
		DueDate     *time.Time           `json:"due_date"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		OwnerID:     userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// ListProjects returns projects the caller owns or belongs to.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	projects, err := h.projectService.ListProjectsForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dtos := make([]dto.ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = dto.ToProjectDTO(p)
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dtos,
	})
}

// GetProject returns a single project for any member.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	project, err := h.projectService.GetProject(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates project fields; owner-only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateRequest struct {
		Title       string               `json:"title" binding:"required,max=255"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
		Priority    models.Priority      `json:"priority" binding:"omitempty,oneof=low medium high"`
		StartDate   *time.Time           `json:"start_date"`
		DueDate     *time.Time           `json:"due_date"`
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	project, err := h.projectService.UpdateProject(projectID, userID, services.UpdateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and everything under it; owner-only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := h.projectService.DeleteProject(projectID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// ListMembers returns the project's owner and team members.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	project, members, err := h.projectService.ListMembers(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, len(members))
	for i, m := range members {
		memberDTOs[i] = dto.ToProjectMemberDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"owner":   dto.ToUserDTO(project.Owner),
		"members": memberDTOs,
	})
}
