package repository

import (
	"context"

	"todolist-web/internal/domain"
)

// TaskRepository 定义了任务的存储和检索操作。
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error

	// FindByID 不存在时返回 ErrTaskNotFound。
	FindByID(ctx context.Context, id uint) (*domain.Task, error)

	// FindByListID 返回某个清单下的所有任务 (按 ID 升序)，没有时返回空切片。
	FindByListID(ctx context.Context, listID uint) ([]domain.Task, error)

	// UpdateDone 设置任务的完成标记，任务不存在时返回 ErrTaskNotFound。
	UpdateDone(ctx context.Context, id uint, done bool) error

	// Delete 删除任务，任务不存在时返回 ErrTaskNotFound。
	Delete(ctx context.Context, id uint) error
}
