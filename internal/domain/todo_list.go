package domain

import "time"

// TodoList 是某个用户拥有的一组任务。
type TodoList struct {
	ID uint `gorm:"primaryKey"`
	// 标题目前是全局唯一的 (与原有的重复检查保持一致)，由唯一索引保证
	Title     string    `gorm:"type:varchar(100);uniqueIndex:idx_todo_list_title;not null"`
	UserID    uint      `gorm:"index;not null"` // 所属用户 (外键关联到 User.ID)
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User  User   `gorm:"foreignKey:UserID"`
	Tasks []Task `gorm:"foreignKey:TodoListID"`
}

// OwnedBy 判断清单是否属于指定用户。
func (l *TodoList) OwnedBy(userID uint) bool {
	return l != nil && userID != 0 && l.UserID == userID
}
