package service

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/note-share-service/internal/dao"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newUserService 构建基于内存 SQLite 的用户服务
func newUserService(t *testing.T, registerEnabled bool) UserService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	userRepo := dao.NewUserRepository(dao.New(db))
	tokenManager := app.NewTokenManager(app.TokenConfig{
		SecretKey: "test-secret",
		Expiry:    time.Hour,
	})
	cfg := &ServiceConfig{
		User: UserServiceConfig{RegisterIsEnable: registerEnabled},
	}
	return NewUserService(userRepo, tokenManager, nil, cfg)
}

func newRegisterRequest(email string) *dto.UserCreateRequest {
	return &dto.UserCreateRequest{
		Email:           email,
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Password:        "pass1234",
		ConfirmPassword: "pass1234",
	}
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	registered, err := svc.Register(ctx, newRegisterRequest("Ada@Example.com"))
	require.NoError(t, err)
	// 邮箱统一小写存储
	assert.Equal(t, "ada@example.com", registered.Email)
	assert.Equal(t, "Ada", registered.FirstName)
	assert.Equal(t, "Lovelace", registered.LastName)
	assert.NotEmpty(t, registered.Token)
	assert.NotZero(t, registered.UID)
	assert.False(t, registered.CreatedAt.IsZero())
	assert.False(t, registered.UpdatedAt.IsZero())

	// 登录时邮箱同样不区分大小写
	loggedIn, err := svc.Login(ctx, &dto.UserLoginRequest{
		Email:    "ADA@example.com",
		Password: "pass1234",
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, registered.UID, loggedIn.UID)
	assert.NotEmpty(t, loggedIn.Token)
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	// 密码不一致
	bad := newRegisterRequest("a@example.com")
	bad.ConfirmPassword = "other"
	_, err := svc.Register(ctx, bad)
	assert.Equal(t, code.ErrorUserPasswordNotMatch, err)

	// 重复邮箱
	_, err = svc.Register(ctx, newRegisterRequest("dup@example.com"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, newRegisterRequest("dup@example.com"))
	assert.Equal(t, code.ErrorUserEmailAlreadyExists, err)
}

func TestUserService_Register_Disabled(t *testing.T) {
	svc := newUserService(t, false)

	_, err := svc.Register(context.Background(), newRegisterRequest("a@example.com"))
	assert.Equal(t, code.ErrorUserRegisterIsDisable, err)
}

func TestUserService_Login_UniformFailure(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	_, err := svc.Register(ctx, newRegisterRequest("known@example.com"))
	require.NoError(t, err)

	// 用户不存在与密码错误返回同一错误
	_, errUnknown := svc.Login(ctx, &dto.UserLoginRequest{
		Email:    "unknown@example.com",
		Password: "pass1234",
	}, "")
	_, errWrongPass := svc.Login(ctx, &dto.UserLoginRequest{
		Email:    "known@example.com",
		Password: "wrong",
	}, "")
	assert.Equal(t, code.ErrorUserLoginPasswordFailed, errUnknown)
	assert.Equal(t, errUnknown, errWrongPass)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	registered, err := svc.Register(ctx, newRegisterRequest("ada@example.com"))
	require.NoError(t, err)

	// 旧密码错误
	err = svc.ChangePassword(ctx, registered.UID, &dto.UserChangePasswordRequest{
		OldPassword:     "wrong",
		Password:        "newpass1",
		ConfirmPassword: "newpass1",
	})
	assert.Equal(t, code.ErrorUserOldPasswordFailed, err)

	// 正常修改
	err = svc.ChangePassword(ctx, registered.UID, &dto.UserChangePasswordRequest{
		OldPassword:     "pass1234",
		Password:        "newpass1",
		ConfirmPassword: "newpass1",
	})
	require.NoError(t, err)

	// 新密码可登录，旧密码失效
	_, err = svc.Login(ctx, &dto.UserLoginRequest{Email: "ada@example.com", Password: "newpass1"}, "")
	require.NoError(t, err)
	_, err = svc.Login(ctx, &dto.UserLoginRequest{Email: "ada@example.com", Password: "pass1234"}, "")
	assert.Equal(t, code.ErrorUserLoginPasswordFailed, err)
}

func TestUserService_UpdateInfoAndSearch(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	registered, err := svc.Register(ctx, newRegisterRequest("ada@example.com"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, newRegisterRequest("adam@example.com"))
	require.NoError(t, err)

	updated, err := svc.UpdateInfo(ctx, registered.UID, &dto.UserUpdateInfoRequest{
		FirstName: "Augusta",
		LastName:  "King",
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "King", updated.LastName)

	results, err := svc.Search(ctx, &dto.UserSearchRequest{Email: "ada"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "ada@example.com", results[0].Email)
	assert.Equal(t, "adam@example.com", results[1].Email)
}

func TestUserService_Search_ByName(t *testing.T) {
	svc := newUserService(t, true)
	ctx := context.Background()

	ada, err := svc.Register(ctx, newRegisterRequest("ada@example.com"))
	require.NoError(t, err)
	_, err = svc.UpdateInfo(ctx, ada.UID, &dto.UserUpdateInfoRequest{
		FirstName: "Augusta",
		LastName:  "King",
	})
	require.NoError(t, err)

	grace, err := svc.Register(ctx, newRegisterRequest("grace@example.com"))
	require.NoError(t, err)
	_, err = svc.UpdateInfo(ctx, grace.UID, &dto.UserUpdateInfoRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
	})
	require.NoError(t, err)

	// 按名前缀
	results, err := svc.Search(ctx, &dto.UserSearchRequest{FirstName: "Aug"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ada@example.com", results[0].Email)

	// 按姓前缀
	results, err = svc.Search(ctx, &dto.UserSearchRequest{LastName: "Hop"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "grace@example.com", results[0].Email)

	// name 同时匹配名或姓
	results, err = svc.Search(ctx, &dto.UserSearchRequest{Name: "K"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ada@example.com", results[0].Email)

	// 组合条件为 AND
	results, err = svc.Search(ctx, &dto.UserSearchRequest{Email: "grace", FirstName: "Aug"})
	require.NoError(t, err)
	assert.Empty(t, results)

	// 无任何条件被拒绝
	_, err = svc.Search(ctx, &dto.UserSearchRequest{})
	require.Error(t, err)
	c, ok := err.(*code.Code)
	require.True(t, ok)
	assert.Equal(t, code.ErrorInvalidParams.Code(), c.Code())
}
