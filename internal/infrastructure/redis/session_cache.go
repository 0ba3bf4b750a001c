package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"auction-marketplace/internal/domain"
)

// RedisSessionCache caches session-to-user lookups. MySQL stays
// authoritative; entries expire on their own and are invalidated on logout.
type RedisSessionCache struct {
	client *redis.Client
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func (r *RedisSessionCache) GetSessionUser(ctx context.Context, sessionID string) (*domain.SessionUser, bool, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var user domain.SessionUser
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (r *RedisSessionCache) SetSessionUser(ctx context.Context, sessionID string, user *domain.SessionUser, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(sessionID), data, ttl).Err()
}

func (r *RedisSessionCache) InvalidateSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}
