// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import "github.com/haierkeys/note-share-service/pkg/timex"

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID        string            `json:"id"`        // Note ID // 笔记唯一标识
	Owner     string            `json:"owner"`     // Owner email // 属主邮箱
	Title     string            `json:"title"`     // Title // 标题
	Content   string            `json:"content"`   // Content // 内容
	Shares    map[string]string `json:"shares"`    // Collaborator email to role // 协作者邮箱到角色映射
	Version   int64             `json:"version"`   // Version token // 版本号
	UpdatedAt timex.Time        `json:"updatedAt"` // Last updated time // 最后更新时间
	CreatedAt timex.Time        `json:"createdAt"` // Created time // 创建时间
}

// NoteListItemDTO Note list item without content
// NoteListItemDTO 不含正文的笔记列表项
type NoteListItemDTO struct {
	ID           string     `json:"id"`           // Note ID // 笔记唯一标识
	Owner        string     `json:"owner"`        // Owner email // 属主邮箱
	Title        string     `json:"title"`        // Title // 标题
	Contribution string     `json:"contribution"` // Caller's relation to the note // 调用者对笔记的关系
	Version      int64      `json:"version"`      // Version token // 版本号
	UpdatedAt    timex.Time `json:"updatedAt"`    // Last updated time // 最后更新时间
	CreatedAt    timex.Time `json:"createdAt"`    // Created time // 创建时间
}

// NoteCreateRequest Request parameters for creating a note
// 创建笔记请求参数
type NoteCreateRequest struct {
	Title   string `json:"title" form:"title" binding:"required"` // Title // 标题
	Content string `json:"content" form:"content" binding:""`     // Content // 内容
}

// NoteUpdateRequest Request parameters for updating a note
// 更新笔记请求参数，ExpectedVersion 为客户端认为的当前版本号
type NoteUpdateRequest struct {
	Title           string `json:"title" form:"title" binding:"required"`                     // Title // 标题
	Content         string `json:"content" form:"content" binding:""`                         // Content // 内容
	ExpectedVersion int64  `json:"expectedVersion" form:"expectedVersion" binding:"required"` // Expected current version // 期望的当前版本号
}

// NoteListRequest Request parameters for listing notes
// 笔记列表请求参数
type NoteListRequest struct {
	Scope string `json:"scope" form:"scope" binding:"omitempty,oneof=all mine shared-read shared-write"` // Filter scope // 筛选范围
}
