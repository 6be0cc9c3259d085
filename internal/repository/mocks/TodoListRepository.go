package mocks

import (
	context "context"

	domain "todolist-web/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// TodoListRepository is a mock type for the TodoListRepository type
type TodoListRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, list
func (_m *TodoListRepository) Create(ctx context.Context, list *domain.TodoList) error {
	ret := _m.Called(ctx, list)
	return ret.Error(0)
}

// FindByTitle provides a mock function with given fields: ctx, title
func (_m *TodoListRepository) FindByTitle(ctx context.Context, title string) (*domain.TodoList, error) {
	ret := _m.Called(ctx, title)

	var r0 *domain.TodoList
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.TodoList)
	}

	return r0, ret.Error(1)
}

// FindByID provides a mock function with given fields: ctx, id
func (_m *TodoListRepository) FindByID(ctx context.Context, id uint) (*domain.TodoList, error) {
	ret := _m.Called(ctx, id)

	var r0 *domain.TodoList
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.TodoList)
	}

	return r0, ret.Error(1)
}

// FindAll provides a mock function with given fields: ctx
func (_m *TodoListRepository) FindAll(ctx context.Context) ([]domain.TodoList, error) {
	ret := _m.Called(ctx)

	var r0 []domain.TodoList
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.TodoList)
	}

	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *TodoListRepository) Delete(ctx context.Context, id uint) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}
