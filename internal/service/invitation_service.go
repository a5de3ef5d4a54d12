package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hrms/internal/cache"
	apperrors "hrms/internal/errors"
	"hrms/internal/model"
	"hrms/internal/repository"
)

const (
	// MinPasswordLength is the shortest password accepted at redemption.
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit, counted in bytes.
	MaxPasswordBytes = 72
)

// IssueInvitationInput carries the fields needed to issue an invitation.
type IssueInvitationInput struct {
	Email           string
	Name            string
	Role            model.Role
	CreatedByUserID uint
}

// InvitationDetails is what an unauthenticated invitee may see about a token.
type InvitationDetails struct {
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// InvitationView is an invitation as reported to administrators, with its
// status derived at read time.
type InvitationView struct {
	model.Invitation
	Status        model.InvitationStatus `json:"status"`
	IsExpired     bool                   `json:"isExpired"`
	InvitationURL string                 `json:"invitationUrl"`
}

// InvitationService manages the invitation lifecycle.
type InvitationService interface {
	Issue(ctx context.Context, in IssueInvitationInput) (*InvitationView, error)
	Validate(ctx context.Context, token string) (*InvitationDetails, error)
	Accept(ctx context.Context, token, password string) (*model.PublicUser, error)
	List(ctx context.Context) ([]InvitationView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invitationService struct {
	tx          repository.Transactor
	invitations repository.InvitationRepository
	users       repository.UserRepository
	cache       *cache.Client
	frontendURL string
	now         func() time.Time
}

// NewInvitationService creates a new invitation service. frontendURL is the
// base used to build redemption links.
func NewInvitationService(
	tx repository.Transactor,
	invitations repository.InvitationRepository,
	users repository.UserRepository,
	cache *cache.Client,
	frontendURL string,
) InvitationService {
	return &invitationService{
		tx:          tx,
		invitations: invitations,
		users:       users,
		cache:       cache,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
	}
}

// Issue creates a pending invitation valid for model.InvitationTTL.
func (s *invitationService) Issue(ctx context.Context, in IssueInvitationInput) (*InvitationView, error) {
	email := model.NormalizeEmail(in.Email)
	if email == "" || in.Role == "" || in.CreatedByUserID == 0 {
		return nil, apperrors.ErrMissingFields
	}
	if !in.Role.Valid() {
		return nil, apperrors.WithDetails(apperrors.ErrInvalidRole, string(in.Role))
	}

	if _, err := s.users.FindByID(ctx, in.CreatedByUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithDetails(apperrors.ErrCreatorNotFound, fmt.Sprintf("user %d", in.CreatedByUserID))
		}
		return nil, fmt.Errorf("find creator: %w", err)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	invitation := &model.Invitation{
		ID:          uuid.New(),
		Token:       uuid.NewString(),
		Email:       email,
		Name:        strings.TrimSpace(in.Name),
		Role:        in.Role,
		CreatedByID: in.CreatedByUserID,
		Status:      model.InvitationStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(model.InvitationTTL),
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("invitation_id", invitation.ID.String()).
		Str("role", string(invitation.Role)).
		Uint("created_by", invitation.CreatedByID).
		Msg("invitation issued")

	view := s.view(*invitation, now)
	return &view, nil
}

// Validate reports the public details of a redeemable invitation.
func (s *invitationService) Validate(ctx context.Context, token string) (*InvitationDetails, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.ErrMissingFields
	}

	invitation, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := checkRedeemable(invitation, s.now()); err != nil {
		return nil, err
	}

	return &InvitationDetails{
		Name:  invitation.Name,
		Email: invitation.Email,
		Role:  invitation.Role,
	}, nil
}

// Accept redeems a token: it upserts the invitee's account and marks the
// invitation used in one transaction.
func (s *invitationService) Accept(ctx context.Context, token, password string) (*model.PublicUser, error) {
	token = strings.TrimSpace(token)
	if token == "" || password == "" {
		return nil, apperrors.ErrMissingFields
	}
	if len(password) < MinPasswordLength {
		return nil, apperrors.WithDetails(apperrors.ErrPasswordTooShort,
			fmt.Sprintf("minimum length is %d", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return nil, apperrors.WithDetails(apperrors.ErrPasswordTooLong,
			fmt.Sprintf("maximum length is %d bytes", MaxPasswordBytes))
	}

	invitation, err := s.findByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := checkRedeemable(invitation, s.now()); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *model.User
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		name := invitation.Name
		if name == "" {
			name = model.DefaultName(invitation.Email)
		}
		upserted, err := repos.Users.Upsert(ctx, &model.User{
			Name:         name,
			Email:        invitation.Email,
			PasswordHash: string(hash),
			Role:         invitation.Role,
		}, invitation.Name != "")
		if err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}
		user = upserted

		usedAt := s.now().UTC().Truncate(time.Millisecond)
		ok, err := repos.Invitations.MarkUsed(ctx, invitation.ID, usedAt)
		if err != nil {
			return fmt.Errorf("mark invitation used: %w", err)
		}
		if ok {
			return nil
		}

		// The guard did not match: the row changed since the pre-check.
		current, err := repos.Invitations.FindByID(ctx, invitation.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrInvitationNotFound
			}
			return fmt.Errorf("reload invitation: %w", err)
		}
		if err := checkRedeemable(current, usedAt); err != nil {
			return err
		}
		return errors.New("invitation update matched no rows")
	})
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, userCacheKey(user.ID))

	zerolog.Ctx(ctx).Info().
		Str("invitation_id", invitation.ID.String()).
		Uint("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("invitation accepted")

	public := user.Public()
	return &public, nil
}

// List returns every invitation, newest first, without writing anything.
func (s *invitationService) List(ctx context.Context) ([]InvitationView, error) {
	invitations, err := s.invitations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	now := s.now()
	views := make([]InvitationView, 0, len(invitations))
	for _, invitation := range invitations {
		views = append(views, s.view(invitation, now))
	}
	return views, nil
}

// Delete hard-deletes an invitation regardless of its status.
func (s *invitationService) Delete(ctx context.Context, id uuid.UUID) error {
	existed, err := s.invitations.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if !existed {
		return apperrors.ErrInvitationNotFound
	}

	zerolog.Ctx(ctx).Info().Str("invitation_id", id.String()).Msg("invitation deleted")
	return nil
}

func (s *invitationService) findByToken(ctx context.Context, token string) (*model.Invitation, error) {
	invitation, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	return invitation, nil
}

func (s *invitationService) view(invitation model.Invitation, now time.Time) InvitationView {
	status := invitation.StatusAt(now)
	return InvitationView{
		Invitation:    invitation,
		Status:        status,
		IsExpired:     status == model.InvitationStatusExpired,
		InvitationURL: s.frontendURL + "/accept-invitation/" + invitation.Token,
	}
}

// checkRedeemable applies the deadline before the stored status, so an
// elapsed invitation reads as expired whatever was stored.
func checkRedeemable(invitation *model.Invitation, now time.Time) error {
	if invitation.DeadlinePassed(now) {
		return apperrors.ErrInvitationExpired
	}
	if invitation.Status != model.InvitationStatusPending {
		return apperrors.ErrInvitationNotPending
	}
	return nil
}
