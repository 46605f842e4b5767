// Package domain 定义领域模型和接口
package domain

import "time"

// Role 共享表中协作者的角色
type Role string

const (
	RoleReader Role = "reader"
	RoleWriter Role = "writer"
)

// IsValid 判断角色是否合法
func (r Role) IsValid() bool {
	return r == RoleReader || r == RoleWriter
}

// InitialVersion 新建笔记的起始版本号
const InitialVersion int64 = 1

// Note 笔记领域模型
// Shares 为协作者邮箱到角色的映射，Owner 永远不会出现在其中
type Note struct {
	ID        string
	Owner     string
	Title     string
	Content   string
	Shares    map[string]Role
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key 返回笔记的存储键
func (n *Note) Key() string {
	return n.ID
}

// IsShared 判断笔记是否有协作者
func (n *Note) IsShared() bool {
	return len(n.Shares) > 0
}

// ShareWith 授予协作者角色，同一邮箱只保留最新角色
// Owner 自身永远不会被写入共享表
func (n *Note) ShareWith(email string, role Role) bool {
	if email == n.Owner {
		return false
	}
	if n.Shares == nil {
		n.Shares = map[string]Role{}
	}
	n.Shares[email] = role
	return true
}

// Unshare 移除协作者，返回是否实际发生了移除
func (n *Note) Unshare(email string) bool {
	if _, ok := n.Shares[email]; !ok {
		return false
	}
	delete(n.Shares, email)
	return true
}

// CloneShares 复制共享表，供只读返回使用
func (n *Note) CloneShares() map[string]Role {
	out := make(map[string]Role, len(n.Shares))
	for email, role := range n.Shares {
		out[email] = role
	}
	return out
}
