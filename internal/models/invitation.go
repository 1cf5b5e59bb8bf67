package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

type Invitation struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	ProjectID   uint64           `gorm:"not null;index" json:"project_id"`
	Email       string           `gorm:"type:varchar(255);not null;index" json:"email"`
	InvitedByID uint64           `gorm:"not null" json:"invited_by_id"`
	Status      InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Token       string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ExpiresAt   time.Time        `gorm:"not null" json:"expires_at"`
	Message     string           `gorm:"type:text" json:"message"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	Project   Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	InvitedBy User    `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
}

// Expired reports whether the invitation has passed its expiry. Expiry is
// evaluated lazily; the stored status is never flipped by a background job.
func (i *Invitation) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Consumable reports whether the invitation can still transition out of
// pending at the given instant.
func (i *Invitation) Consumable(now time.Time) bool {
	return i.Status == InvitationPending && !i.Expired(now)
}
