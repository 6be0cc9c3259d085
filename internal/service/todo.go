package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"todolist-web/internal/domain"
	"todolist-web/internal/repository"
)

// TodoService 负责清单和任务相关的业务逻辑，包括所有权检查。
type TodoService struct {
	listRepo repository.TodoListRepository
	taskRepo repository.TaskRepository
}

// NewTodoService 创建 TodoService 实例。
func NewTodoService(listRepo repository.TodoListRepository, taskRepo repository.TaskRepository) *TodoService {
	if listRepo == nil || taskRepo == nil {
		panic("repositories cannot be nil for TodoService")
	}
	return &TodoService{listRepo: listRepo, taskRepo: taskRepo}
}

// ListDetail 是清单及其任务。
type ListDetail struct {
	List  *domain.TodoList
	Tasks []domain.Task
}

// AllLists 返回所有清单。
func (s *TodoService) AllLists(ctx context.Context) ([]domain.TodoList, error) {
	lists, err := s.listRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("AllLists: repository error")
		return nil, ErrInternalServer
	}
	return lists, nil
}

// CreateList 为 owner 创建新清单。标题已被使用时返回 ErrListTitleTaken。
func (s *TodoService) CreateList(ctx context.Context, ownerID uint, title string) (*domain.TodoList, error) {
	title = strings.TrimSpace(title)
	logCtx := logrus.WithFields(logrus.Fields{"user_id": ownerID, "title": title})
	if ownerID == 0 || title == "" {
		return nil, ErrInvalidInput
	}

	// 1. 标题预检查 (全局范围)
	if _, err := s.listRepo.FindByTitle(ctx, title); err == nil {
		logCtx.Warn("CreateList: title already exists")
		return nil, ErrListTitleTaken
	} else if !errors.Is(err, repository.ErrTodoListNotFound) {
		logCtx.WithError(err).Error("CreateList: repository error checking title")
		return nil, ErrInternalServer
	}

	// 2. 保存，唯一索引兜底并发创建
	list := &domain.TodoList{Title: title, UserID: ownerID}
	if err := s.listRepo.Create(ctx, list); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.WithError(err).Warn("CreateList: title already exists (repo error)")
			return nil, ErrListTitleTaken
		}
		logCtx.WithError(err).Error("CreateList: failed to save todo list")
		return nil, ErrInternalServer
	}

	logCtx.WithField("list_id", list.ID).Info("Todo list created")
	return list, nil
}

// GetList 返回清单及其任务，清单不存在时返回 ErrListNotFound。
func (s *TodoService) GetList(ctx context.Context, listID uint) (*ListDetail, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByListID(ctx, listID)
	if err != nil {
		logrus.WithError(err).WithField("list_id", listID).Error("GetList: failed to load tasks")
		return nil, ErrInternalServer
	}
	return &ListDetail{List: list, Tasks: tasks}, nil
}

// AddTask 在用户自己的清单中添加任务。
func (s *TodoService) AddTask(ctx context.Context, userID, listID uint, title string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}

	task := &domain.Task{Title: title, TodoListID: listID}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		logrus.WithError(err).WithField("list_id", listID).Error("AddTask: failed to save task")
		return nil, ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "list_id": listID, "task_id": task.ID}).Info("Task added")
	return task, nil
}

// ToggleTask 翻转任务的完成标记并返回更新后的任务。
func (s *TodoService) ToggleTask(ctx context.Context, userID, taskID, listID uint) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID, listID)
	if err != nil {
		return nil, err
	}
	done := !task.Done
	if err := s.taskRepo.UpdateDone(ctx, task.ID, done); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		logrus.WithError(err).WithField("task_id", taskID).Error("ToggleTask: failed to update task")
		return nil, ErrInternalServer
	}
	task.Done = done
	logrus.WithFields(logrus.Fields{"task_id": taskID, "done": done}).Info("Task toggled")
	return task, nil
}

// DeleteTask 删除用户自己清单中的任务。
func (s *TodoService) DeleteTask(ctx context.Context, userID, taskID, listID uint) error {
	task, err := s.ownedTask(ctx, userID, taskID, listID)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		logrus.WithError(err).WithField("task_id", taskID).Error("DeleteTask: failed to delete task")
		return ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"task_id": taskID, "list_id": listID}).Info("Task deleted")
	return nil
}

// DeleteList 删除用户自己的清单及其全部任务。
func (s *TodoService) DeleteList(ctx context.Context, userID, listID uint) error {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.listRepo.Delete(ctx, listID); err != nil {
		if errors.Is(err, repository.ErrTodoListNotFound) {
			return ErrListNotFound
		}
		logrus.WithError(err).WithField("list_id", listID).Error("DeleteList: failed to delete todo list")
		return ErrInternalServer
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "list_id": listID}).Info("Todo list deleted")
	return nil
}

// --- 私有辅助函数 ---

func (s *TodoService) findList(ctx context.Context, listID uint) (*domain.TodoList, error) {
	list, err := s.listRepo.FindByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoListNotFound) {
			return nil, ErrListNotFound
		}
		logrus.WithError(err).WithField("list_id", listID).Error("findList: repository error")
		return nil, ErrInternalServer
	}
	return list, nil
}

func (s *TodoService) ownedList(ctx context.Context, userID, listID uint) (*domain.TodoList, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.OwnedBy(userID) {
		logrus.WithFields(logrus.Fields{"user_id": userID, "list_id": listID, "owner_id": list.UserID}).Warn("Access to foreign todo list denied")
		return nil, ErrForbidden
	}
	return list, nil
}

// ownedTask 加载任务并确认它属于路径中的清单，且清单属于当前用户
func (s *TodoService) ownedTask(ctx context.Context, userID, taskID, listID uint) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		logrus.WithError(err).WithField("task_id", taskID).Error("ownedTask: repository error")
		return nil, ErrInternalServer
	}
	if task.TodoListID != listID {
		return nil, ErrTaskNotFound
	}
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	return task, nil
}
