package dto

// NoteShareRequest Request parameters for granting access to a note
// 授予笔记访问权限请求参数
type NoteShareRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`          // Collaborator email // 协作者邮箱
	Role  string `json:"role" form:"role" binding:"required,oneof=reader writer"` // Role to grant // 授予的角色
}

// NoteUnshareRequest Request parameters for revoking access to a note
// 撤销笔记访问权限请求参数
type NoteUnshareRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"` // Collaborator email // 协作者邮箱
}
