package domain

import "time"

// User 用户领域模型
// Email 为唯一标识，持久化前统一转为小写
type User struct {
	UID       int64
	Email     string
	FirstName string
	LastName  string
	Password  string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time
}

// Key 返回用户的存储键
func (u *User) Key() string {
	return u.Email
}

// FullName 返回用户全名
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsActive 判断用户是否活跃（未删除）
func (u *User) IsActive() bool {
	return !u.IsDeleted
}
