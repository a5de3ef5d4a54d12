package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hrms/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// ErrRefreshTokenNotFound is returned when no refresh record exists for a token id.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshRecord is what the store keeps per issued refresh token.
type RefreshRecord struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, record RefreshRecord, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (RefreshRecord, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token record in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, record RefreshRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (RefreshRecord, error) {
	var record RefreshRecord
	if !s.cache.GetJSON(ctx, refreshTokenKeyPrefix+tokenID, &record) {
		return RefreshRecord{}, ErrRefreshTokenNotFound
	}
	return record, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
	return nil
}
