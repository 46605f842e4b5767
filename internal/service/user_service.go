// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	"github.com/haierkeys/note-share-service/pkg/convert"
	"github.com/haierkeys/note-share-service/pkg/util"

	"go.uber.org/zap"
)

// 用户搜索结果数量默认上限
const defaultSearchLimit = 20

// UserService 定义用户业务服务接口
type UserService interface {
	// Register 用户注册
	Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error)

	// Login 用户登录
	Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error)

	// ChangePassword 修改密码
	ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error

	// GetInfo 获取用户信息
	GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error)

	// UpdateInfo 更新用户资料
	UpdateInfo(ctx context.Context, uid int64, params *dto.UserUpdateInfoRequest) (*dto.UserDTO, error)

	// Search 按邮箱或姓名前缀搜索用户
	Search(ctx context.Context, params *dto.UserSearchRequest) ([]*dto.UserSearchItemDTO, error)
}

// userService 实现 UserService 接口
type userService struct {
	userRepo     domain.UserRepository
	tokenManager app.TokenManager
	logger       *zap.Logger
	config       *ServiceConfig
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo domain.UserRepository, tokenManager app.TokenManager, logger *zap.Logger, config *ServiceConfig) UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		logger:       logger,
		config:       config,
	}
}

// domainToDTO 将领域模型转换为 DTO
// 同名字段按名复制，Password 等 DTO 不存在的字段被跳过
func (s *userService) domainToDTO(user *domain.User) *dto.UserDTO {
	if user == nil {
		return nil
	}
	result := &dto.UserDTO{}
	convert.StructAssign(user, result)
	return result
}

// Register 用户注册
func (s *userService) Register(ctx context.Context, params *dto.UserCreateRequest) (*dto.UserDTO, error) {
	// 检查注册是否启用
	if s.config == nil || !s.config.User.RegisterIsEnable {
		return nil, code.ErrorUserRegisterIsDisable
	}

	// 邮箱统一小写后作为唯一标识
	email := util.NormalizeEmail(params.Email)
	if !util.IsValidEmail(email) {
		return nil, code.ErrorUserEmailNotValid
	}

	// 验证密码一致性
	if params.Password != params.ConfirmPassword {
		return nil, code.ErrorUserPasswordNotMatch
	}

	// 生成密码哈希
	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return nil, code.ErrorPasswordNotValid
	}

	// 创建用户，邮箱冲突由仓储层保证
	newUser := &domain.User{
		Email:     email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Password:  password,
	}

	user, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, code.ErrorUserEmailAlreadyExists
		}
		return nil, code.ErrorUserRegister.WithDetails(err.Error())
	}

	// 生成 Token
	token, err := s.tokenManager.Generate(user.UID, user.Email, "")
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	result := s.domainToDTO(user)
	result.Token = token
	return result, nil
}

// Login 用户登录
func (s *userService) Login(ctx context.Context, params *dto.UserLoginRequest, clientIP string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByEmail(ctx, util.NormalizeEmail(params.Email))
	if err != nil {
		// 安全考虑：不暴露用户是否存在，统一返回邮箱或密码错误
		return nil, code.ErrorUserLoginPasswordFailed
	}

	// 验证密码
	if !util.CheckPasswordHash(user.Password, params.Password) {
		return nil, code.ErrorUserLoginPasswordFailed
	}

	// 生成 Token
	token, err := s.tokenManager.Generate(user.UID, user.Email, clientIP)
	if err != nil {
		return nil, code.ErrorTokenGenerate.WithDetails(err.Error())
	}

	result := s.domainToDTO(user)
	result.Token = token
	return result, nil
}

// ChangePassword 修改密码
func (s *userService) ChangePassword(ctx context.Context, uid int64, params *dto.UserChangePasswordRequest) error {
	// 验证密码一致性
	if params.Password != params.ConfirmPassword {
		return code.ErrorUserPasswordNotMatch
	}

	// 获取用户
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return code.ErrorUserNotFound
		}
		return code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	// 验证旧密码
	if !util.CheckPasswordHash(user.Password, params.OldPassword) {
		return code.ErrorUserOldPasswordFailed
	}

	// 生成新密码哈希
	password, err := util.GeneratePasswordHash(params.Password)
	if err != nil {
		return code.ErrorPasswordNotValid
	}

	// 更新密码
	if err := s.userRepo.UpdatePassword(ctx, password, uid); err != nil {
		return code.ErrorStoreUnavailable.WithDetails(err.Error())
	}
	return nil
}

// GetInfo 获取用户信息
func (s *userService) GetInfo(ctx context.Context, uid int64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorUserNotFound
		}
		s.logger.Error("UserService.GetInfo failed",
			zap.Int64("uid", uid),
			zap.Error(err))
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}
	return s.domainToDTO(user), nil
}

// UpdateInfo 更新用户资料
// 邮箱是不可变标识，只允许修改姓名
func (s *userService) UpdateInfo(ctx context.Context, uid int64, params *dto.UserUpdateInfoRequest) (*dto.UserDTO, error) {
	if !util.IsValidName(params.FirstName) || !util.IsValidName(params.LastName) {
		return nil, code.ErrorInvalidParams.WithDetails("invalid name")
	}

	if err := s.userRepo.UpdateInfo(ctx, params.FirstName, params.LastName, uid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorUserNotFound
		}
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}
	return s.GetInfo(ctx, uid)
}

// Search 按邮箱或姓名前缀搜索用户，返回公开信息
func (s *userService) Search(ctx context.Context, params *dto.UserSearchRequest) ([]*dto.UserSearchItemDTO, error) {
	limit := defaultSearchLimit
	if s.config != nil && s.config.User.SearchLimit > 0 {
		limit = s.config.User.SearchLimit
	}

	filter := domain.UserSearchFilter{
		Email:     util.NormalizeEmail(params.Email),
		FirstName: strings.TrimSpace(params.FirstName),
		LastName:  strings.TrimSpace(params.LastName),
		Name:      strings.TrimSpace(params.Name),
	}
	if filter.IsEmpty() {
		return nil, code.ErrorInvalidParams.WithDetails("at least one search field is required")
	}

	users, err := s.userRepo.Search(ctx, filter, limit)
	if err != nil {
		return nil, code.ErrorStoreUnavailable.WithDetails(err.Error())
	}

	items := []*dto.UserSearchItemDTO{}
	for _, user := range users {
		items = append(items, &dto.UserSearchItemDTO{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
	}
	return items, nil
}

// 确保 userService 实现了 UserService 接口
var _ UserService = (*userService)(nil)
