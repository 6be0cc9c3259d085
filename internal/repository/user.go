package repository

import (
	"context"

	"todolist-web/internal/domain"
)

// UserRepository 定义了用户数据的存储和检索操作。
type UserRepository interface {
	// Create 插入新用户，成功后 user.ID 被填充。
	// 邮箱违反唯一约束时返回 ErrDuplicateEntry。
	Create(ctx context.Context, user *domain.User) error

	// FindByEmail 根据邮箱查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID 根据用户 ID 查找用户。
	// 如果用户不存在，返回 ErrUserNotFound。
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}
