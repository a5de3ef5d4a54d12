package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationTTL is how long an invitation stays redeemable after issuance.
const InvitationTTL = 24 * time.Hour

// InvitationStatus represents the lifecycle state of an invitation.
// Only pending and used are ever stored; expired is derived at read time.
type InvitationStatus string

const (
	InvitationStatusPending InvitationStatus = "pending"
	InvitationStatusUsed    InvitationStatus = "used"
	InvitationStatusExpired InvitationStatus = "expired"
)

// Invitation is a single-use, time-limited offer to create or update a user account.
type Invitation struct {
	ID          uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Token       string           `json:"token" gorm:"size:36;uniqueIndex;not null"`
	Email       string           `json:"email" gorm:"size:255;not null;index"`
	Name        string           `json:"name" gorm:"size:255"`
	Role        Role             `json:"role" gorm:"size:50;not null"`
	CreatedByID uint             `json:"createdById" gorm:"not null;index"`
	Status      InvitationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt   time.Time        `json:"expiresAt" gorm:"not null"`
	UsedAt      *time.Time       `json:"usedAt"`
	CreatedAt   time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time        `json:"updatedAt"`

	// Relations
	CreatedBy User `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DeriveStatus computes the externally visible status from stored fields.
// A pending invitation whose deadline is before now reads as expired.
func DeriveStatus(status InvitationStatus, expiresAt, now time.Time) InvitationStatus {
	if status == InvitationStatusPending && expiresAt.Before(now) {
		return InvitationStatusExpired
	}
	return status
}

// StatusAt is DeriveStatus applied to i.
func (i *Invitation) StatusAt(now time.Time) InvitationStatus {
	return DeriveStatus(i.Status, i.ExpiresAt, now)
}

// DeadlinePassed reports whether the redemption deadline is before now,
// independent of the stored status.
func (i *Invitation) DeadlinePassed(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
