package repository

import (
	"context"

	"todolist-web/internal/domain"
)

// TodoListRepository 定义了待办清单的存储和检索操作。
type TodoListRepository interface {
	// Create 插入新清单。标题违反唯一约束时返回 ErrDuplicateEntry。
	Create(ctx context.Context, list *domain.TodoList) error

	// FindByTitle 根据标题查找清单，不存在时返回 ErrTodoListNotFound。
	FindByTitle(ctx context.Context, title string) (*domain.TodoList, error)

	// FindByID 根据清单 ID 查找清单，不存在时返回 ErrTodoListNotFound。
	FindByID(ctx context.Context, id uint) (*domain.TodoList, error)

	// FindAll 按 ID 升序返回所有清单。
	FindAll(ctx context.Context) ([]domain.TodoList, error)

	// Delete 先删除清单下的所有任务，再删除清单本身 (同一事务内)。
	// 清单不存在时返回 ErrTodoListNotFound。
	Delete(ctx context.Context, id uint) error
}
