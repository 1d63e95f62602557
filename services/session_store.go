package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore keeps live session ids in redis with a TTL matching the
// token lifetime, so revocation is just key deletion and expiry is free.
type RedisSessionStore struct {
	Client *redis.Client
}

func sessionKey(jti string) string {
	return "session:" + jti
}

func (rs *RedisSessionStore) Put(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := rs.Client.Set(ctx, sessionKey(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session %s: %w", jti, err)
	}
	return nil
}

func (rs *RedisSessionStore) Get(ctx context.Context, jti string) (string, error) {
	userID, err := rs.Client.Get(ctx, sessionKey(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to load session %s: %w", jti, err)
	}
	return userID, nil
}

func (rs *RedisSessionStore) Delete(ctx context.Context, jti string) error {
	return rs.Client.Del(ctx, sessionKey(jti)).Err()
}
