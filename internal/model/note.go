package model

import "github.com/haierkeys/note-share-service/pkg/timex"

const TableNameNote = "note"

// Note mapped from table <note>
// Shares 为 JSON 编码的邮箱到角色映射
type Note struct {
	ID        string     `gorm:"column:id;primaryKey" json:"id" form:"id"`
	Owner     string     `gorm:"column:owner;not null;index:idx_owner" json:"owner" form:"owner"`
	Title     string     `gorm:"column:title;not null" json:"title" form:"title"`
	Content   string     `gorm:"column:content;type:text" json:"content" form:"content"`
	Shares    string     `gorm:"column:shares;type:text" json:"shares" form:"shares"`
	Version   int64      `gorm:"column:version;not null;default:1" json:"version" form:"version"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
