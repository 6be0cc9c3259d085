package gormpersistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"todolist-web/internal/domain"
	gormpersistence "todolist-web/internal/infra/persistence/gorm"
	"todolist-web/internal/infra/setup"
	"todolist-web/internal/repository"
)

// newTestDB 为每个测试创建独立的内存 SQLite 数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := setup.InitDB("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo *gormpersistence.GormUserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Password: "hash", Username: "user"}
	require.NoError(t, repo.Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func TestGormUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "a@x.com")

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	found, err = repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	// 同一邮箱第二次插入由唯一索引拒绝
	err = repo.Create(ctx, &domain.User{Email: "a@x.com", Password: "hash", Username: "again"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	var count int64
	require.NoError(t, db.Model(&domain.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormTodoListRepository(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	repo := gormpersistence.NewGormTodoListRepository(db)
	ctx := context.Background()
	owner := createUser(t, users, "owner@x.com")

	groceries := &domain.TodoList{Title: "Groceries", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, groceries))
	work := &domain.TodoList{Title: "Work", UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, work))

	err := repo.Create(ctx, &domain.TodoList{Title: "Groceries", UserID: owner.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	found, err := repo.FindByTitle(ctx, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, groceries.ID, found.ID)

	found, err = repo.FindByID(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", found.Title)
	assert.Equal(t, owner.ID, found.UserID)

	_, err = repo.FindByTitle(ctx, "Missing")
	assert.ErrorIs(t, err, repository.ErrTodoListNotFound)
	_, err = repo.FindByID(ctx, 12345)
	assert.ErrorIs(t, err, repository.ErrTodoListNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Groceries", all[0].Title)
	assert.Equal(t, "Work", all[1].Title)
}

func TestGormTodoListRepository_ForeignKey(t *testing.T) {
	db := newTestDB(t)
	repo := gormpersistence.NewGormTodoListRepository(db)

	// 引用不存在的用户必须失败
	err := repo.Create(context.Background(), &domain.TodoList{Title: "Orphan", UserID: 42})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicateEntry)
}

func TestGormTodoListRepository_DeleteCascadesTasks(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	lists := gormpersistence.NewGormTodoListRepository(db)
	tasks := gormpersistence.NewGormTaskRepository(db)
	ctx := context.Background()
	owner := createUser(t, users, "owner@x.com")

	doomed := &domain.TodoList{Title: "Doomed", UserID: owner.ID}
	require.NoError(t, lists.Create(ctx, doomed))
	kept := &domain.TodoList{Title: "Kept", UserID: owner.ID}
	require.NoError(t, lists.Create(ctx, kept))

	for _, title := range []string{"one", "two", "three"} {
		require.NoError(t, tasks.Create(ctx, &domain.Task{Title: title, TodoListID: doomed.ID}))
	}
	require.NoError(t, tasks.Create(ctx, &domain.Task{Title: "survivor", TodoListID: kept.ID}))

	require.NoError(t, lists.Delete(ctx, doomed.ID))

	remaining, err := tasks.FindByListID(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = lists.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, repository.ErrTodoListNotFound)

	survivors, err := tasks.FindByListID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, survivors, 1)

	assert.ErrorIs(t, lists.Delete(ctx, doomed.ID), repository.ErrTodoListNotFound)
}

func TestGormTaskRepository(t *testing.T) {
	db := newTestDB(t)
	users := gormpersistence.NewGormUserRepository(db)
	lists := gormpersistence.NewGormTodoListRepository(db)
	repo := gormpersistence.NewGormTaskRepository(db)
	ctx := context.Background()
	owner := createUser(t, users, "owner@x.com")
	list := &domain.TodoList{Title: "Work", UserID: owner.ID}
	require.NoError(t, lists.Create(ctx, list))

	task := &domain.Task{Title: "Write report", TodoListID: list.ID}
	require.NoError(t, repo.Create(ctx, task))
	require.NotZero(t, task.ID)

	found, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, found.Done, "新任务默认未完成")

	require.NoError(t, repo.UpdateDone(ctx, task.ID, true))
	found, err = repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, found.Done)

	require.NoError(t, repo.UpdateDone(ctx, task.ID, false))
	found, err = repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, found.Done)

	byList, err := repo.FindByListID(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, byList, 1)
	assert.Equal(t, "Write report", byList[0].Title)

	empty, err := repo.FindByListID(ctx, list.ID+100)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err = repo.FindByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, task.ID), repository.ErrTaskNotFound)
	assert.ErrorIs(t, repo.UpdateDone(ctx, task.ID, true), repository.ErrTaskNotFound)
}

func TestIsDuplicateEntryError(t *testing.T) {
	assert.False(t, gormpersistence.IsDuplicateEntryError(nil))
	assert.False(t, gormpersistence.IsDuplicateEntryError(errors.New("connection refused")))
	assert.True(t, gormpersistence.IsDuplicateEntryError(gorm.ErrDuplicatedKey))
	assert.True(t, gormpersistence.IsDuplicateEntryError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}))
	assert.True(t, gormpersistence.IsDuplicateEntryError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_email" (SQLSTATE 23505)`)))
}
