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

// GormTaskRepository 是 TaskRepository 接口的 GORM 实现
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository 创建 GormTaskRepository 实例
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	if db == nil {
		panic("database connection cannot be nil for GormTaskRepository")
	}
	return &GormTaskRepository{db: db}
}

// Create 插入新任务
func (r *GormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("gorm: create task (title: %s, todo_list_id: %d): %w", task.Title, task.TodoListID, err)
	}
	return nil
}

// FindByID 实现根据 ID 查找任务
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, fmt.Errorf("gorm: find task by id %d: %w", id, err)
	}
	return &task, nil
}

// FindByListID 返回清单下的所有任务
func (r *GormTaskRepository) FindByListID(ctx context.Context, listID uint) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.WithContext(ctx).Where("todo_list_id = ?", listID).Order("id ASC").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find tasks by todo list id %d: %w", listID, err)
	}
	return tasks, nil
}

// UpdateDone 只更新 done 列
func (r *GormTaskRepository) UpdateDone(ctx context.Context, id uint, done bool) error {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).Where("id = ?", id).Update("done", done)
	if result.Error != nil {
		return fmt.Errorf("gorm: update done flag of task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

// Delete 删除任务
func (r *GormTaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, id)
	if result.Error != nil {
		return fmt.Errorf("gorm: delete task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}
