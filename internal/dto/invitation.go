package dto

import (
	"time"

	"github.com/taskflow-app/taskflow-api/internal/models"
)

// InvitationDTO represents an invitation in API responses. The token itself
// travels only in the invitation email.
type InvitationDTO struct {
	ID        uint64                  `json:"id"`
	ProjectID uint64                  `json:"project_id"`
	Email     string                  `json:"email"`
	Status    models.InvitationStatus `json:"status"`
	Message   string                  `json:"message,omitempty"`
	InvitedBy *UserDTO                `json:"invited_by,omitempty"`
	ExpiresAt time.Time               `json:"expires_at"`
	CreatedAt time.Time               `json:"created_at"`
}

// ToInvitationDTO converts an invitation to DTO. A pending invitation past
// its expiry is reported as expired without rewriting the stored status.
func ToInvitationDTO(invitation models.Invitation, now time.Time) InvitationDTO {
	status := invitation.Status
	if status == models.InvitationPending && invitation.Expired(now) {
		status = models.InvitationExpired
	}

	d := InvitationDTO{
		ID:        invitation.ID,
		ProjectID: invitation.ProjectID,
		Email:     invitation.Email,
		Status:    status,
		Message:   invitation.Message,
		ExpiresAt: invitation.ExpiresAt,
		CreatedAt: invitation.CreatedAt,
	}

	if invitation.InvitedBy.ID != 0 {
		invitedBy := ToUserDTO(invitation.InvitedBy)
		d.InvitedBy = &invitedBy
	}

	return d
}

// ToInvitationDTOs converts a slice of invitations to DTOs
func ToInvitationDTOs(invitations []models.Invitation, now time.Time) []InvitationDTO {
	dtos := make([]InvitationDTO, len(invitations))
	for i, invitation := range invitations {
		dtos[i] = ToInvitationDTO(invitation, now)
	}
	return dtos
}
