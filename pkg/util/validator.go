package util

import (
	"regexp"
	"strings"
)

// IsValidEmail verifies if the email format is correct
// IsValidEmail 验证邮箱格式是否正确
func IsValidEmail(email string) bool {
	// Simple email format validation regular expression
	// 简单的邮箱格式验证正则表达式
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	reg := regexp.MustCompile(pattern)
	return reg.MatchString(email)
}

// NormalizeEmail 归一化邮箱地址
// 邮箱作为用户主键，不区分大小写，统一转为小写并去除首尾空格
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidName verifies if the name format is correct
// IsValidName 验证姓名格式是否正确
func IsValidName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 1 && len(name) <= 64
}
