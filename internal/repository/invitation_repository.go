package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// InvitationRepository defines invitation persistence operations.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *model.Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error)
	FindByToken(ctx context.Context, token string) (*model.Invitation, error)
	// List returns every invitation, newest first.
	List(ctx context.Context) ([]model.Invitation, error)
	// MarkUsed flips a still-pending, unexpired invitation to used. It reports
	// false when the guard did not match, leaving the row untouched.
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error)
	// Delete hard-deletes one row and reports whether it existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository.
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

// Create creates a new invitation.
func (r *invitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// FindByID finds an invitation by ID.
func (r *invitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by its opaque token.
func (r *invitationRepository) FindByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// List lists all invitations in descending creation order.
func (r *invitationRepository) List(ctx context.Context) ([]model.Invitation, error) {
	var invitations []model.Invitation
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// MarkUsed performs a conditional update guarded on pending status and deadline.
func (r *invitationRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("id = ? AND status = ? AND expires_at >= ?", id, model.InvitationStatusPending, usedAt).
		Updates(map[string]any{
			"status":  model.InvitationStatusUsed,
			"used_at": usedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Delete removes an invitation row.
func (r *invitationRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Invitation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
