package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow-app/taskflow-api/internal/authz"
	"github.com/taskflow-app/taskflow-api/internal/constants"
	"github.com/taskflow-app/taskflow-api/internal/logging"
	"github.com/taskflow-app/taskflow-api/internal/mailer"
	"github.com/taskflow-app/taskflow-api/internal/models"
	"github.com/taskflow-app/taskflow-api/internal/repository"
	"github.com/taskflow-app/taskflow-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrAlreadyMember      = errors.New("user is already part of the project")
	ErrInvitationNotYours = errors.New("this invitation is not for your email address")
)

// InvitationService owns the invitation lifecycle. Membership is only ever
// granted through accepted invitations; there is no direct-add path.
type InvitationService struct {
	invitationRepo repository.InvitationRepository
	projectRepo    repository.ProjectRepository
	userRepo       repository.UserRepository
	mail           mailer.Mailer
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	mail mailer.Mailer,
) *InvitationService {
	return &InvitationService{
		invitationRepo: invitationRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		mail:           mail,
	}
}

// InviteInput represents parameters to invite an email to a project.
type InviteInput struct {
	ActorID   uint64
	ProjectID uint64
	Email     string
	Message   string
}

// Invite creates a pending invitation; owner-only. The target email does not
// have to belong to an existing account. The notification mail is
// fire-and-forget: a failed send is logged, never rolled back.
func (s *InvitationService) Invite(input InviteInput) (*models.Invitation, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	project, err := s.projectRepo.FindByID(input.ProjectID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !authz.CanManageProject(project, input.ActorID) {
		return nil, ErrForbidden
	}

	if existing, err := s.userRepo.FindByEmail(email); err == nil {
		if authz.IsMember(project, existing.ID) {
			return nil, ErrAlreadyMember
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check invited email: %w", err)
	}

	token, err := utils.GenerateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	invitation := &models.Invitation{
		ProjectID:   project.ID,
		Email:       email,
		InvitedByID: input.ActorID,
		Status:      models.InvitationPending,
		Token:       token,
		ExpiresAt:   time.Now().Add(constants.InvitationTTL),
		Message:     strings.TrimSpace(input.Message),
	}

	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	inviterName := ""
	if actor, err := s.userRepo.FindByID(input.ActorID); err == nil {
		inviterName = actor.Username
	}

	go func() {
		if err := s.mail.SendInvitation(email, token, project.Title, inviterName); err != nil {
			logging.Logger.WithError(err).WithFields(map[string]interface{}{
				"email":   email,
				"project": project.ID,
			}).Warn("Failed to send invitation email")
		}
	}()

	return invitation, nil
}

// ListForProject lists a project's invitations; owner-only.
func (s *InvitationService) ListForProject(actorID, projectID uint64) ([]models.Invitation, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !authz.CanManageProject(project, actorID) {
		return nil, ErrForbidden
	}

	invitations, err := s.invitationRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	return invitations, nil
}

// lookupConsumable resolves a token to an invitation the given user may
// consume. Unknown, already consumed, and lazily expired tokens all report
// ErrInvitationInvalid; only an email mismatch is distinguishable.
func (s *InvitationService) lookupConsumable(token string, userID uint64, now time.Time) (*models.Invitation, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	invitation, err := s.invitationRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationInvalid
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}

	if !invitation.Consumable(now) {
		return nil, ErrInvitationInvalid
	}

	if user.Email != invitation.Email {
		return nil, ErrInvitationNotYours
	}

	return invitation, nil
}

// Accept consumes the invitation and adds the caller to the project team.
// The status flip and the membership insert happen in one transaction behind
// a conditional update, so a token can be accepted at most once.
func (s *InvitationService) Accept(token string, userID uint64) (*models.Invitation, error) {
	now := time.Now()

	if _, err := s.lookupConsumable(token, userID, now); err != nil {
		return nil, err
	}

	invitation, err := s.invitationRepo.Accept(token, userID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Lost the race to a concurrent consume.
			return nil, ErrInvitationInvalid
		}
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	return invitation, nil
}

// Decline consumes the invitation without touching the membership set.
func (s *InvitationService) Decline(token string, userID uint64) (*models.Invitation, error) {
	now := time.Now()

	if _, err := s.lookupConsumable(token, userID, now); err != nil {
		return nil, err
	}

	invitation, err := s.invitationRepo.Decline(token, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationInvalid
		}
		return nil, fmt.Errorf("failed to decline invitation: %w", err)
	}

	return invitation, nil
}
