// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	User UserServiceConfig // User related config // 用户相关配置
	Note NoteServiceConfig // Note related config // 笔记相关配置
}

// UserServiceConfig user service configuration
// UserServiceConfig 用户服务配置
type UserServiceConfig struct {
	RegisterIsEnable bool // Whether registration is enabled // 注册是否启用
	SearchLimit      int  // Max results for user search // 用户搜索结果上限
}

// NoteServiceConfig note service configuration
// NoteServiceConfig 笔记服务配置
type NoteServiceConfig struct {
	TitleMaxLength   int // Max title length // 标题最大长度
	ContentMaxLength int // Max content length, 0 for unlimited // 内容最大长度，0 表示不限制
}
