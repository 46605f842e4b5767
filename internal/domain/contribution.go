package domain

// Contribution 用户对某篇笔记的有效关系
// 派生值，永不落库，每次访问检查时重新计算，避免读到过期关系
type Contribution string

const (
	ContributionOwner  Contribution = "owner"
	ContributionWriter Contribution = "writer"
	ContributionReader Contribution = "reader"
	ContributionNone   Contribution = "none"
)

// Operation 笔记操作类型
type Operation string

const (
	OperationRead   Operation = "read"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
	OperationShare  Operation = "share"
)

// ResolveContribution 计算用户对笔记的有效关系
// Owner 优先于共享表；共享表角色映射为对应关系；否则为 None
func ResolveContribution(n *Note, email string) Contribution {
	if n == nil {
		return ContributionNone
	}
	if n.Owner == email {
		return ContributionOwner
	}
	switch n.Shares[email] {
	case RoleWriter:
		return ContributionWriter
	case RoleReader:
		return ContributionReader
	}
	return ContributionNone
}

// Authorize 判断给定关系是否允许执行操作
// 权限矩阵：
//
//	read:   owner / writer / reader
//	update: owner / writer
//	delete: owner
//	share:  owner
func Authorize(c Contribution, op Operation) bool {
	switch op {
	case OperationRead:
		return c == ContributionOwner || c == ContributionWriter || c == ContributionReader
	case OperationUpdate:
		return c == ContributionOwner || c == ContributionWriter
	case OperationDelete, OperationShare:
		return c == ContributionOwner
	}
	return false
}

// MatchesRole 判断有效关系是否与列表筛选角色完全相等
func (c Contribution) MatchesRole(filter Contribution) bool {
	return c == filter
}
