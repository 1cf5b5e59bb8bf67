package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskflow-app/taskflow-api/internal/dto"
	"github.com/taskflow-app/taskflow-api/internal/models"
	"github.com/taskflow-app/taskflow-api/internal/repository"
	"github.com/taskflow-app/taskflow-api/internal/services"
	"gorm.io/gorm"
)

type teamTestEnv struct {
	db                *gorm.DB
	handler           *TeamHandler
	projectRepo       repository.ProjectRepository
	projectService    *services.ProjectService
	invitationService *services.InvitationService
}

func setupTeamTestEnv(t *testing.T) teamTestEnv {
	t.Helper()

	db := openTestDB(t)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	authService := services.NewAuthService(userRepo, noopMailer{})
	projectService := services.NewProjectService(projectRepo)
	invitationService := services.NewInvitationService(invitationRepo, projectRepo, userRepo, noopMailer{})
	handler := NewTeamHandler(invitationService, projectService, authService)

	return teamTestEnv{
		db:                db,
		handler:           handler,
		projectRepo:       projectRepo,
		projectService:    projectService,
		invitationService: invitationService,
	}
}

func (env teamTestEnv) createProject(t *testing.T, ownerID uint64) *models.Project {
	t.Helper()

	project, err := env.projectService.CreateProject(services.CreateProjectInput{
		Title:   "Team Project",
		OwnerID: ownerID,
	})
	require.NoError(t, err)
	return project
}

// invitationToken pulls the stored token; it never appears in API responses.
func (env teamTestEnv) invitationToken(t *testing.T, invitationID uint64) string {
	t.Helper()

	var invitation models.Invitation
	require.NoError(t, env.db.First(&invitation, invitationID).Error)
	return invitation.Token
}

func tokenParam(c *gin.Context, token string) {
	c.Params = append(c.Params, gin.Param{Key: "token", Value: token})
}

func TestTeamHandler_InviteOwnerOnly(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	member := seedVerifiedUser(t, env.db, "member")
	project := env.createProject(t, owner.ID)
	require.NoError(t, env.projectRepo.AddMember(project, member.ID, time.Now()))

	body, err := json.Marshal(map[string]interface{}{
		"project_id": project.ID,
		"email":      "invitee@example.com",
	})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPost, "/api/team/invite", body, member.ID)
	env.handler.Invite(c)
	require.Equal(t, http.StatusForbidden, w.Code, "only the owner may invite")

	c, w = handlerTestContext(http.MethodPost, "/api/team/invite", body, owner.ID)
	env.handler.Invite(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.InvitationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.InvitationPending, response.Status)
	require.Equal(t, "invitee@example.com", response.Email)

	// The raw response must not leak the token.
	require.NotContains(t, w.Body.String(), env.invitationToken(t, response.ID))
}

func TestTeamHandler_InviteExistingMemberConflicts(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	member := seedVerifiedUser(t, env.db, "member")
	project := env.createProject(t, owner.ID)
	require.NoError(t, env.projectRepo.AddMember(project, member.ID, time.Now()))

	body, err := json.Marshal(map[string]interface{}{
		"project_id": project.ID,
		"email":      member.Email,
	})
	require.NoError(t, err)

	c, w := handlerTestContext(http.MethodPost, "/api/team/invite", body, owner.ID)
	env.handler.Invite(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestTeamHandler_AcceptInvitation(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	invitee := seedVerifiedUser(t, env.db, "invitee")
	project := env.createProject(t, owner.ID)

	invitation, err := env.invitationService.Invite(services.InviteInput{
		ActorID:   owner.ID,
		ProjectID: project.ID,
		Email:     invitee.Email,
	})
	require.NoError(t, err)
	token := env.invitationToken(t, invitation.ID)

	c, w := handlerTestContext(http.MethodPost, "/api/team/accept-invitation/x", nil, invitee.ID)
	tokenParam(c, token)
	env.handler.AcceptInvitation(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, invitee.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)

	// The token is single-use; a second accept reports the same invalid
	// invitation as an unknown token would.
	c, w = handlerTestContext(http.MethodPost, "/api/team/accept-invitation/x", nil, invitee.ID)
	tokenParam(c, token)
	env.handler.AcceptInvitation(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	// And so does a decline of the consumed token.
	c, w = handlerTestContext(http.MethodPost, "/api/team/decline-invitation/x", nil, invitee.ID)
	tokenParam(c, token)
	env.handler.DeclineInvitation(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_AcceptExpiredInvitation(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	invitee := seedVerifiedUser(t, env.db, "invitee")
	project := env.createProject(t, owner.ID)

	invitation := &models.Invitation{
		ProjectID:   project.ID,
		Email:       invitee.Email,
		InvitedByID: owner.ID,
		Status:      models.InvitationPending,
		Token:       "expired-token-0123456789abcdef",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.Create(invitation).Error)

	c, w := handlerTestContext(http.MethodPost, "/api/team/accept-invitation/x", nil, invitee.ID)
	tokenParam(c, invitation.Token)
	env.handler.AcceptInvitation(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	// The stored status stays pending; expiry is derived, not swept.
	var stored models.Invitation
	require.NoError(t, env.db.First(&stored, invitation.ID).Error)
	require.Equal(t, models.InvitationPending, stored.Status)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestTeamHandler_AcceptEmailMismatch(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	invitee := seedVerifiedUser(t, env.db, "invitee")
	interloper := seedVerifiedUser(t, env.db, "interloper")
	project := env.createProject(t, owner.ID)

	invitation, err := env.invitationService.Invite(services.InviteInput{
		ActorID:   owner.ID,
		ProjectID: project.ID,
		Email:     invitee.Email,
	})
	require.NoError(t, err)
	token := env.invitationToken(t, invitation.ID)

	c, w := handlerTestContext(http.MethodPost, "/api/team/accept-invitation/x", nil, interloper.ID)
	tokenParam(c, token)
	env.handler.AcceptInvitation(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The token survives for its rightful holder.
	c, w = handlerTestContext(http.MethodPost, "/api/team/accept-invitation/x", nil, invitee.ID)
	tokenParam(c, token)
	env.handler.AcceptInvitation(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTeamHandler_DeclineInvitation(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	invitee := seedVerifiedUser(t, env.db, "invitee")
	project := env.createProject(t, owner.ID)

	invitation, err := env.invitationService.Invite(services.InviteInput{
		ActorID:   owner.ID,
		ProjectID: project.ID,
		Email:     invitee.Email,
	})
	require.NoError(t, err)
	token := env.invitationToken(t, invitation.ID)

	c, w := handlerTestContext(http.MethodPost, "/api/team/decline-invitation/x", nil, invitee.ID)
	tokenParam(c, token)
	env.handler.DeclineInvitation(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).Count(&count).Error)
	require.Zero(t, count, "decline never grants membership")

	// Declined tokens cannot be accepted afterwards.
	c, w = handlerTestContext(http.MethodPost, "/api/team/accept-invitation/x", nil, invitee.ID)
	tokenParam(c, token)
	env.handler.AcceptInvitation(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_ListInvitationsOwnerOnly(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	member := seedVerifiedUser(t, env.db, "member")
	project := env.createProject(t, owner.ID)
	require.NoError(t, env.projectRepo.AddMember(project, member.ID, time.Now()))

	_, err := env.invitationService.Invite(services.InviteInput{
		ActorID:   owner.ID,
		ProjectID: project.ID,
		Email:     "first@example.com",
	})
	require.NoError(t, err)

	// Seed a pending invitation already past its expiry; the listing reports
	// it as expired without rewriting the row.
	require.NoError(t, env.db.Create(&models.Invitation{
		ProjectID:   project.ID,
		Email:       "late@example.com",
		InvitedByID: owner.ID,
		Status:      models.InvitationPending,
		Token:       "stale-token-0123456789abcdef",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}).Error)

	c, w := handlerTestContext(http.MethodGet, "/api/team/invitations/1", nil, member.ID)
	idParam(c, "projectId", project.ID)
	env.handler.ListInvitations(c)
	require.Equal(t, http.StatusForbidden, w.Code, "members cannot see the invitation list")

	c, w = handlerTestContext(http.MethodGet, "/api/team/invitations/1", nil, owner.ID)
	idParam(c, "projectId", project.ID)
	env.handler.ListInvitations(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Invitations []dto.InvitationDTO `json:"invitations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Invitations, 2)

	byEmail := map[string]models.InvitationStatus{}
	for _, inv := range response.Invitations {
		byEmail[inv.Email] = inv.Status
	}
	require.Equal(t, models.InvitationPending, byEmail["first@example.com"])
	require.Equal(t, models.InvitationExpired, byEmail["late@example.com"])
}

func TestTeamHandler_RemoveMember(t *testing.T) {
	env := setupTeamTestEnv(t)
	owner := seedVerifiedUser(t, env.db, "owner")
	member := seedVerifiedUser(t, env.db, "member")
	other := seedVerifiedUser(t, env.db, "other")
	project := env.createProject(t, owner.ID)
	require.NoError(t, env.projectRepo.AddMember(project, member.ID, time.Now()))
	require.NoError(t, env.projectRepo.AddMember(project, other.ID, time.Now()))

	// Members cannot remove each other.
	c, w := handlerTestContext(http.MethodDelete, "/api/team/remove/1/2", nil, member.ID)
	idParam(c, "projectId", project.ID)
	idParam(c, "userId", other.ID)
	env.handler.RemoveMember(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The owner cannot be removed, not even by themselves.
	c, w = handlerTestContext(http.MethodDelete, "/api/team/remove/1/1", nil, owner.ID)
	idParam(c, "projectId", project.ID)
	idParam(c, "userId", owner.ID)
	env.handler.RemoveMember(c)
	require.Equal(t, http.StatusForbidden, w.Code)

	c, w = handlerTestContext(http.MethodDelete, "/api/team/remove/1/2", nil, owner.ID)
	idParam(c, "projectId", project.ID)
	idParam(c, "userId", member.ID)
	env.handler.RemoveMember(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, member.ID).
		Count(&count).Error)
	require.Zero(t, count)

	// Removal is idempotent.
	c, w = handlerTestContext(http.MethodDelete, "/api/team/remove/1/2", nil, owner.ID)
	idParam(c, "projectId", project.ID)
	idParam(c, "userId", member.ID)
	env.handler.RemoveMember(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTeamHandler_SearchUsers(t *testing.T) {
	env := setupTeamTestEnv(t)
	caller := seedVerifiedUser(t, env.db, "caller")
	seedVerifiedUser(t, env.db, "callisto")

	unverified := &models.User{
		Username:     "callback",
		Email:        "callback@example.com",
		PasswordHash: "hashed",
		Role:         models.RoleUser,
	}
	require.NoError(t, env.db.Create(unverified).Error)

	c, w := handlerTestContext(http.MethodGet, "/api/team/search-users?q=call", nil, caller.ID)
	env.handler.SearchUsers(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Users []dto.UserDTO `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Users, 1, "excludes the caller and unverified users")
	require.Equal(t, "callisto", response.Users[0].Username)

	// Queries below the minimum length are rejected.
	c, w = handlerTestContext(http.MethodGet, "/api/team/search-users?q=c", nil, caller.ID)
	env.handler.SearchUsers(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
