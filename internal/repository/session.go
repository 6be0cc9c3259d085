package repository

import (
	"context"
	"time"
)

// SessionStore 记录已注销的会话 (以会话 ID 标识)，使退出登录后的令牌立即失效。
type SessionStore interface {
	// Revoke 将会话标记为已注销，直到 expiresAt 之后自动遗忘。
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error

	// IsRevoked 判断会话是否已注销。
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// NopSessionStore 在未配置 Redis 时使用：从不记录注销，退出登录只清除客户端 Cookie。
type NopSessionStore struct{}

func (NopSessionStore) Revoke(context.Context, string, time.Time) error { return nil }

func (NopSessionStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
