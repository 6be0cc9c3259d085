package mocks

import (
	context "context"

	domain "todolist-web/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// TaskRepository is a mock type for the TaskRepository type
type TaskRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, task
func (_m *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ret := _m.Called(ctx, task)
	return ret.Error(0)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *TaskRepository) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.Task
	if rf, ok := ret.Get(0).(func(context.Context, uint) *domain.Task); ok {
		r0 = rf(ctx, id)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Task)
	}

	return r0, ret.Error(1)
}

// FindByListID provides a mock function with given fields: ctx, listID
func (_m *TaskRepository) FindByListID(ctx context.Context, listID uint) ([]domain.Task, error) {
	ret := _m.Called(ctx, listID)

	var r0 []domain.Task
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Task)
	}

	return r0, ret.Error(1)
}

// UpdateDone provides a mock function with given fields: ctx, id, done
func (_m *TaskRepository) UpdateDone(ctx context.Context, id uint, done bool) error {
	ret := _m.Called(ctx, id, done)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *TaskRepository) Delete(ctx context.Context, id uint) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
