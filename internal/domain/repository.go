// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"errors"
)

// 仓储层统一错误
// 数据访问实现负责把底层驱动错误映射为这些错误
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict 提交的版本号与存储中的版本号不一致
	ErrVersionConflict = errors.New("version conflict")
	// ErrAlreadyExists 唯一键冲突
	ErrAlreadyExists = errors.New("record already exists")
)

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id string) (*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note) (*Note, error)

	// UpdateContent 条件更新标题与内容
	// 仅当存储中的版本号等于 expectedVersion 时生效，成功后版本号加一
	// 版本不一致返回 ErrVersionConflict，记录不存在返回 ErrNotFound
	UpdateContent(ctx context.Context, id, title, content string, expectedVersion int64) (*Note, error)

	// UpdateShares 条件更新共享表，语义与 UpdateContent 一致
	UpdateShares(ctx context.Context, id string, shares map[string]Role, expectedVersion int64) (*Note, error)

	// Delete 物理删除笔记，记录不存在返回 ErrNotFound
	Delete(ctx context.Context, id string) error

	// ListByContributor 获取用户拥有或被共享的全部笔记
	// 结果按 ID 排序，保证同一数据下的确定性
	ListByContributor(ctx context.Context, email string) ([]*Note, error)
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// UpdateInfo 更新用户姓名
	UpdateInfo(ctx context.Context, firstName, lastName string, uid int64) error

	// UpdatePassword 更新用户密码
	UpdatePassword(ctx context.Context, password string, uid int64) error

	// Search 按条件搜索用户
	Search(ctx context.Context, filter UserSearchFilter, limit int) ([]*User, error)
}

// UserSearchFilter 用户搜索条件，均为前缀匹配
// Name 同时匹配名或姓
type UserSearchFilter struct {
	Email     string // 邮箱前缀
	FirstName string // 名前缀
	LastName  string // 姓前缀
	Name      string // 名或姓前缀
}

// IsEmpty 判断是否未提供任何搜索条件
func (f UserSearchFilter) IsEmpty() bool {
	return f.Email == "" && f.FirstName == "" && f.LastName == "" && f.Name == ""
}
