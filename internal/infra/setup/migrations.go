package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"todolist-web/internal/domain"
)

// MigrateDB 在启动时创建缺失的表、索引和外键 (没有独立的迁移系统)。
// 顺序很重要：被引用的表必须先创建。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	models := []interface{}{
		&domain.User{},
		&domain.TodoList{},
		&domain.Task{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			logrus.Errorf("Failed to auto-migrate %T: %v", model, err)
			return fmt.Errorf("failed to auto-migrate %T: %w", model, err)
		}
	}

	logrus.Info("Database migration completed successfully")
	return nil
}
