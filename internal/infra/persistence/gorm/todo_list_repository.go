package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todolist-web/internal/domain"
	"todolist-web/internal/repository"
)

// GormTodoListRepository 是 TodoListRepository 接口的 GORM 实现
type GormTodoListRepository struct {
	db *gorm.DB
}

// NewGormTodoListRepository 创建 GormTodoListRepository 实例
func NewGormTodoListRepository(db *gorm.DB) *GormTodoListRepository {
	if db == nil {
		panic("database connection cannot be nil for GormTodoListRepository")
	}
	return &GormTodoListRepository{db: db}
}

// Create 插入新清单，标题冲突映射为 repository.ErrDuplicateEntry
func (r *GormTodoListRepository) Create(ctx context.Context, list *domain.TodoList) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(list).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create todo list (title: %s, user_id: %d): %w", list.Title, list.UserID, err)
	}
	return nil
}

// FindByTitle 实现根据标题查找清单
func (r *GormTodoListRepository) FindByTitle(ctx context.Context, title string) (*domain.TodoList, error) {
	var list domain.TodoList
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTodoListNotFound
		}
		return nil, fmt.Errorf("gorm: find todo list by title '%s': %w", title, err)
	}
	return &list, nil
}

// FindByID 实现根据 ID 查找清单
func (r *GormTodoListRepository) FindByID(ctx context.Context, id uint) (*domain.TodoList, error) {
	var list domain.TodoList
	err := r.db.WithContext(ctx).First(&list, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTodoListNotFound
		}
		return nil, fmt.Errorf("gorm: find todo list by id %d: %w", id, err)
	}
	return &list, nil
}

// FindAll 返回全部清单
func (r *GormTodoListRepository) FindAll(ctx context.Context) ([]domain.TodoList, error) {
	lists := []domain.TodoList{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("gorm: find all todo lists: %w", err)
	}
	return lists, nil
}

// Delete 在同一事务中先删除清单的任务，再删除清单
func (r *GormTodoListRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("todo_list_id = ?", id).Delete(&domain.Task{}).Error; err != nil {
			return fmt.Errorf("gorm: delete tasks of todo list %d: %w", id, err)
		}
		result := tx.Delete(&domain.TodoList{}, id)
		if result.Error != nil {
			return fmt.Errorf("gorm: delete todo list %d: %w", id, result.Error)
		}
		// 没有行受影响说明清单不存在，回滚事务
		if result.RowsAffected == 0 {
			return repository.ErrTodoListNotFound
		}
		return nil
	})
}
