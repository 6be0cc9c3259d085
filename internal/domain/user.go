// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// User 表示应用程序中的用户。
type User struct {
	ID        uint      `gorm:"primaryKey"`                                    // 用户唯一标识符 (主键)
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null"` // 登录邮箱，全局唯一
	Password  string    `gorm:"type:varchar(255);not null"`                     // 存储的是哈希后的密码，不能为空
	Username  string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	TodoLists []TodoList `gorm:"foreignKey:UserID"`
}
