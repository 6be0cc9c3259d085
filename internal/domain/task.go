package domain

import "time"

// Task 是清单中的一个待办事项。
type Task struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Done       bool      `gorm:"not null;default:false"`
	TodoListID uint      `gorm:"index;not null"` // 所属清单 (外键关联到 TodoList.ID)
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	TodoList TodoList `gorm:"foreignKey:TodoListID"`
}
