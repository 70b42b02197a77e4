package service

import (
	"context"
	"fmt"
	"time"

	"clinic-scheduler/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const scanBatchSize = 100

// TokenStore tracks issued tokens so they can be revoked before expiry.
type TokenStore interface {
	Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error
	// RevokeAll drops every token issued to the user
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func tokenKey(tokenType jwt.TokenType, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, userID.String(), tokenID)
}

func (s *redisTokenStore) Save(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(tokenType, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(tokenType, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, tokenType jwt.TokenType, userID uuid.UUID, tokenID string) error {
	return s.client.Del(ctx, tokenKey(tokenType, userID, tokenID)).Err()
}

func (s *redisTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, tokenType := range []jwt.TokenType{jwt.AccessToken, jwt.RefreshToken} {
		pattern := tokenKey(tokenType, userID, "*")
		iter := s.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()

		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("scan %s tokens: %w", tokenType, err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("delete %s tokens: %w", tokenType, err)
		}
	}
	return nil
}

// statelessTokenStore accepts every signed token until it expires.
// Used when redis is disabled; logout and revocation become no-ops.
type statelessTokenStore struct{}

func NewStatelessTokenStore() TokenStore {
	return statelessTokenStore{}
}

func (statelessTokenStore) Save(context.Context, jwt.TokenType, uuid.UUID, string, time.Duration) error {
	return nil
}

func (statelessTokenStore) Exists(context.Context, jwt.TokenType, uuid.UUID, string) (bool, error) {
	return true, nil
}

func (statelessTokenStore) Delete(context.Context, jwt.TokenType, uuid.UUID, string) error {
	return nil
}

func (statelessTokenStore) RevokeAll(context.Context, uuid.UUID) error {
	return nil
}
