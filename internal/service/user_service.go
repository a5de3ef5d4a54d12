package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hrms/internal/cache"
	apperrors "hrms/internal/errors"
	"hrms/internal/model"
	"hrms/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// userCacheKey is shared with the invitation redeemer, which invalidates it.
func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// UserService exposes read access to user accounts.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.PublicUser, error)
	ListUsers(ctx context.Context) ([]model.PublicUser, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.PublicUser, error) {
	var cached model.PublicUser
	if s.cache.GetJSON(ctx, userCacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	public := user.Public()
	_ = s.cache.SetJSON(ctx, userCacheKey(id), public, userCacheTTL)
	return &public, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]model.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}
