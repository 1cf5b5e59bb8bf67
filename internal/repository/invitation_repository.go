package repository

import (
	"time"

	"github.com/taskflow-app/taskflow-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create persists a new pending invitation
func (r *GormInvitationRepository) Create(invitation *models.Invitation) error {
	return r.db.Create(invitation).Error
}

// FindByToken finds an invitation by its token
func (r *GormInvitationRepository) FindByToken(token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.Preload("Project").Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListByProject lists a project's invitations, newest first
func (r *GormInvitationRepository) ListByProject(projectID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.Preload("InvitedBy").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// consume flips a pending, unexpired invitation to the given status with a
// single conditional update. Zero affected rows means the token is unknown,
// already consumed, or expired; the caller cannot tell which.
func consume(tx *gorm.DB, token string, status models.InvitationStatus, now time.Time) error {
	res := tx.Model(&models.Invitation{}).
		Where("token = ? AND status = ? AND expires_at > ?", token, models.InvitationPending, now).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Accept atomically consumes the invitation and adds the user to the team
func (r *GormInvitationRepository) Accept(token string, userID uint64, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := consume(tx, token, models.InvitationAccepted, now); err != nil {
			return err
		}

		if err := tx.Preload("Project").Where("token = ?", token).First(&invitation).Error; err != nil {
			return err
		}

		// The owner is never duplicated into the member set.
		if invitation.Project.OwnerID == userID {
			return nil
		}

		member := &models.ProjectMember{
			ProjectID: invitation.ProjectID,
			UserID:    userID,
			JoinedAt:  now,
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	return &invitation, nil
}

// Decline atomically consumes the invitation without membership changes
func (r *GormInvitationRepository) Decline(token string, now time.Time) (*models.Invitation, error) {
	var invitation models.Invitation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := consume(tx, token, models.InvitationDeclined, now); err != nil {
			return err
		}

		return tx.Where("token = ?", token).First(&invitation).Error
	})
	if err != nil {
		return nil, err
	}

	return &invitation, nil
}
