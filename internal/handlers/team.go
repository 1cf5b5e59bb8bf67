package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-app/taskflow-api/internal/dto"
	apierrors "github.com/taskflow-app/taskflow-api/internal/errors"
	"github.com/taskflow-app/taskflow-api/internal/middleware"
	"github.com/taskflow-app/taskflow-api/internal/services"
)

// TeamHandler coordinates invitation and membership HTTP handlers.
type TeamHandler struct {
	invitationService *services.InvitationService
	projectService    *services.ProjectService
	authService       *services.AuthService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(
	invitationService *services.InvitationService,
	projectService *services.ProjectService,
	authService *services.AuthService,
) *TeamHandler {
	return &TeamHandler{
		invitationService: invitationService,
		projectService:    projectService,
		authService:       authService,
	}
}

// SearchUsers finds verified users to invite.
func (h *TeamHandler) SearchUsers(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	users, err := h.authService.SearchUsers(c.Query("q"), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dtos := make([]dto.UserDTO, len(users))
	for i, u := range users {
		dtos[i] = dto.ToUserDTO(u)
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dtos,
	})
}

// Invite creates a pending invitation; owner-only.
func (h *TeamHandler) Invite(c *gin.Context) {
	type InviteRequest struct {
		ProjectID uint64 `json:"project_id" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Message   string `json:"message" binding:"max=500"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(c)

	invitation, err := h.invitationService.Invite(services.InviteInput{
		ActorID:   userID,
		ProjectID: req.ProjectID,
		Email:     req.Email,
		Message:   req.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation, time.Now()))
}

// ListInvitations lists a project's invitations; owner-only.
func (h *TeamHandler) ListInvitations(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	invitations, err := h.invitationService.ListForProject(userID, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": dto.ToInvitationDTOs(invitations, time.Now()),
	})
}

// AcceptInvitation consumes a token and joins the caller to the project.
func (h *TeamHandler) AcceptInvitation(c *gin.Context) {
	token := c.Param("token")
	userID, _ := middleware.GetUserID(c)

	invitation, err := h.invitationService.Accept(token, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation accepted successfully",
		"invitation": dto.ToInvitationDTO(*invitation, time.Now()),
	})
}

// DeclineInvitation consumes a token without joining.
func (h *TeamHandler) DeclineInvitation(c *gin.Context) {
	token := c.Param("token")
	userID, _ := middleware.GetUserID(c)

	invitation, err := h.invitationService.Decline(token, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation declined",
		"invitation": dto.ToInvitationDTO(*invitation, time.Now()),
	})
}

// RemoveMember removes a team member; owner-only, and the owner cannot be
// removed.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	userID, _ := middleware.GetUserID(c)

	if err := h.projectService.RemoveMember(projectID, userID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Team member removed successfully",
	})
}
