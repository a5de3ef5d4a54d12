package service

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
	"hrms/internal/repository"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memStore is an in-memory stand-in for the SQL store. Transactions
// snapshot both tables and restore them when fn fails.
type memStore struct {
	mu          sync.Mutex
	users       map[uint]model.User
	nextUserID  uint
	invitations map[uuid.UUID]model.Invitation

	// beforeMarkUsed, when set, runs inside MarkUsed ahead of the guard.
	beforeMarkUsed func(id uuid.UUID)
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[uint]model.User{},
		invitations: map[uuid.UUID]model.Invitation{},
	}
}

func (s *memStore) Users() repository.UserRepository { return &memUsers{s: s} }

func (s *memStore) Invitations() repository.InvitationRepository { return &memInvitations{s: s} }

func (s *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.mu.Lock()
	users := maps.Clone(s.users)
	invitations := maps.Clone(s.invitations)
	nextUserID := s.nextUserID
	s.mu.Unlock()

	if err := fn(ctx, repository.Repositories{Users: s.Users(), Invitations: s.Invitations()}); err != nil {
		s.mu.Lock()
		s.users, s.invitations, s.nextUserID = users, invitations, nextUserID
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) invitation(id uuid.UUID) (model.Invitation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	return inv, ok
}

func (s *memStore) userByEmail(email string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

type memUsers struct{ s *memStore }

func (r *memUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.s.userByEmail(email)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUsers) List(_ context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := slices.Sorted(maps.Keys(r.s.users))
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.s.users[id])
	}
	return out, nil
}

func (r *memUsers) Upsert(ctx context.Context, user *model.User, overwriteName bool) (*model.User, error) {
	existing, ok := r.s.userByEmail(user.Email)
	if !ok {
		created := *user
		if err := r.Create(ctx, &created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	existing.PasswordHash = user.PasswordHash
	existing.Role = user.Role
	if overwriteName {
		existing.Name = user.Name
	}
	if err := r.Update(ctx, &existing); err != nil {
		return nil, err
	}
	return &existing, nil
}

type memInvitations struct{ s *memStore }

func (r *memInvitations) Create(_ context.Context, invitation *model.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}
	r.s.invitations[invitation.ID] = *invitation
	return nil
}

func (r *memInvitations) FindByID(_ context.Context, id uuid.UUID) (*model.Invitation, error) {
	inv, ok := r.s.invitation(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &inv, nil
}

func (r *memInvitations) FindByToken(_ context.Context, token string) (*model.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invitations {
		if inv.Token == token {
			return &inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memInvitations) List(_ context.Context) ([]model.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := slices.Collect(maps.Values(r.s.invitations))
	slices.SortFunc(out, func(a, b model.Invitation) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (r *memInvitations) MarkUsed(_ context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	if r.s.beforeMarkUsed != nil {
		r.s.beforeMarkUsed(id)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[id]
	if !ok || inv.Status != model.InvitationStatusPending || inv.ExpiresAt.Before(usedAt) {
		return false, nil
	}
	inv.Status = model.InvitationStatusUsed
	inv.UsedAt = &usedAt
	r.s.invitations[id] = inv
	return true, nil
}

func (r *memInvitations) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invitations[id]; !ok {
		return false, nil
	}
	delete(r.s.invitations, id)
	return true, nil
}
