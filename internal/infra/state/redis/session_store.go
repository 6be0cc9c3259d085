package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RedisSessionStore 是 SessionStore 接口的 Redis 实现。
// 每个已注销的会话对应一个带 TTL 的 key，令牌过期后 key 自动消失。
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisSessionStore 创建 RedisSessionStore 实例
func NewRedisSessionStore(client *redis.Client, keyPrefix string) *RedisSessionStore {
	if client == nil {
		panic("redis client cannot be nil for RedisSessionStore")
	}
	if keyPrefix == "" {
		keyPrefix = "todo:"
	}
	return &RedisSessionStore{client: client, keyPrefix: keyPrefix, now: time.Now}
}

func (s *RedisSessionStore) revokedKey(sessionID string) string {
	return fmt.Sprintf("%ssession:%s:revoked", s.keyPrefix, sessionID)
}

// Revoke 记录会话已注销，保留到令牌的过期时间
func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if sessionID == "" {
		return fmt.Errorf("redis: cannot revoke session with empty id")
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		// 令牌已经过期，无需记录
		logrus.WithField("session_id", sessionID).Debug("RedisSessionStore: session already expired, skip revoke")
		return nil
	}
	key := s.revokedKey(sessionID)
	if err := s.client.Set(ctx, key, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to revoke session %s (%s): %w", sessionID, key, err)
	}
	return nil
}

// IsRevoked 判断会话是否已被注销
func (s *RedisSessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, s.revokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to check session %s: %w", sessionID, err)
	}
	return n > 0, nil
}
