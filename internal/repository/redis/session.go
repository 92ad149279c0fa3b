package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "admin_session:"

// AdminSessionRepository implements repository.AdminSessionRepository using
// Redis. Tokens are stored hashed; the key expires after the session TTL.
type AdminSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAdminSessionRepository creates a new Redis-backed admin session store.
func NewAdminSessionRepository(client *redis.Client, ttl time.Duration) *AdminSessionRepository {
	return &AdminSessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return sessionKeyPrefix + hex.EncodeToString(sum[:])
}

// Create stores a new session token with the configured TTL.
func (r *AdminSessionRepository) Create(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, sessionKey(token), time.Now().UTC().Format(time.RFC3339), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set admin session: %w", err)
	}
	return nil
}

// Exists reports whether the token names a live session.
func (r *AdminSessionRepository) Exists(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists admin session: %w", err)
	}
	return n == 1, nil
}

// Delete revokes a session. Deleting an unknown token is not an error.
func (r *AdminSessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete admin session: %w", err)
	}
	return nil
}
