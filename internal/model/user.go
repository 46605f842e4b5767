package model

import "github.com/haierkeys/note-share-service/pkg/timex"

const TableNameUser = "user"

// User mapped from table <user>
type User struct {
	UID       int64      `gorm:"column:uid;primaryKey;autoIncrement" json:"uid" form:"uid"`
	Email     string     `gorm:"column:email;not null;uniqueIndex:idx_email" json:"email" form:"email"`
	FirstName string     `gorm:"column:first_name" json:"firstName" form:"firstName"`
	LastName  string     `gorm:"column:last_name" json:"lastName" form:"lastName"`
	Password  string     `gorm:"column:password;not null" json:"password" form:"password"`
	IsDeleted int64      `gorm:"column:is_deleted;not null;default:0" json:"isDeleted" form:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
	DeletedAt timex.Time `gorm:"column:deleted_at;type:datetime;default:NULL" json:"deletedAt" form:"deletedAt"`
}

// TableName User's table name
func (*User) TableName() string {
	return TableNameUser
}
