package dto

import "github.com/haierkeys/note-share-service/pkg/timex"

// UserCreateRequest User registration request parameters
// 用户注册请求参数
type UserCreateRequest struct {
	Email           string `json:"email" form:"email" binding:"required,email"`               // User email // 用户邮件
	FirstName       string `json:"firstName" form:"firstName" binding:"required"`             // First name // 名
	LastName        string `json:"lastName" form:"lastName" binding:"required"`               // Last name // 姓
	Password        string `json:"password" form:"password" binding:"required"`               // User password // 用户密码
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"` // Confirm password // 校验密码
}

// UserLoginRequest User login request parameters
// 用户登录请求参数
type UserLoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"` // Email // 登录邮箱
	Password string `json:"password" form:"password" binding:"required"` // Password // 密码
}

// UserChangePasswordRequest Request parameters for changing password
// 修改密码请求参数
type UserChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword" binding:"required"`         // Old password // 旧密码
	Password        string `json:"password" form:"password" binding:"required"`               // New password // 新密码
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" binding:"required"` // Confirm password // 校验密码
}

// UserUpdateInfoRequest Request parameters for updating profile
// 更新用户资料请求参数
type UserUpdateInfoRequest struct {
	FirstName string `json:"firstName" form:"firstName" binding:"required"` // First name // 名
	LastName  string `json:"lastName" form:"lastName" binding:"required"`   // Last name // 姓
}

// UserSearchRequest Request parameters for searching users
// At least one field must be provided, all are prefix matches
// 搜索用户请求参数，至少填一项，均为前缀匹配
type UserSearchRequest struct {
	Email     string `json:"email" form:"email" binding:"omitempty,min=2"`          // Email prefix // 邮箱前缀
	FirstName string `json:"firstName" form:"first-name" binding:"omitempty,min=1"` // First name prefix // 名前缀
	LastName  string `json:"lastName" form:"last-name" binding:"omitempty,min=1"`   // Last name prefix // 姓前缀
	Name      string `json:"name" form:"name" binding:"omitempty,min=1"`            // First or last name prefix // 名或姓前缀
}

// ---------------- DTO / Response ----------------

// UserDTO User data transfer object
// UserDTO 用户数据传输对象
type UserDTO struct {
	UID       int64      `json:"uid"`       // User ID (primary key) // 用户唯一标识（主键）
	Email     string     `json:"email"`     // Email address // 邮件地址
	FirstName string     `json:"firstName"` // First name // 名
	LastName  string     `json:"lastName"`  // Last name // 姓
	Token     string     `json:"token,omitempty"` // Authentication Token // 认证 Token
	UpdatedAt timex.Time `json:"updatedAt"` // Last updated time // 最后更新时间
	CreatedAt timex.Time `json:"createdAt"` // Account created time // 账号创建时间
}

// UserSearchItemDTO Public user info returned by search
// UserSearchItemDTO 搜索返回的用户公开信息
type UserSearchItemDTO struct {
	Email     string `json:"email"`     // Email address // 邮件地址
	FirstName string `json:"firstName"` // First name // 名
	LastName  string `json:"lastName"`  // Last name // 姓
}
