package service

import (
	"context"
	"sync"
	"testing"

	"github.com/haierkeys/note-share-service/internal/dao"
	"github.com/haierkeys/note-share-service/internal/domain"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type noteServiceFixture struct {
	noteSvc  NoteService
	userSvc  UserService
	noteRepo domain.NoteRepository
	userRepo domain.UserRepository
}

// newNoteServiceFixture 构建基于内存 SQLite 的服务测试环境
func newNoteServiceFixture(t *testing.T) *noteServiceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	// 内存库每个连接各自独立，收敛为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	d := dao.New(db)
	noteRepo := dao.NewNoteRepository(d)
	userRepo := dao.NewUserRepository(d)

	cfg := &ServiceConfig{
		User: UserServiceConfig{RegisterIsEnable: true},
	}

	return &noteServiceFixture{
		noteSvc:  NewNoteService(noteRepo, userRepo, nil, nil, cfg),
		noteRepo: noteRepo,
		userRepo: userRepo,
	}
}

func (f *noteServiceFixture) mustRegisterUser(t *testing.T, email string) {
	t.Helper()
	_, err := f.userRepo.Create(context.Background(), &domain.User{
		Email:    email,
		Password: "hashed",
	})
	require.NoError(t, err)
}

func TestNoteService_CreateAndGet_RoundTrip(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{
		Title:   "T",
		Content: "C",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := f.noteSvc.Get(ctx, "alice@example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.Equal(t, "alice@example.com", got.Owner)
	assert.Empty(t, got.Shares)
	assert.Equal(t, domain.InitialVersion, got.Version)
}

func TestNoteService_Get_HidesExistenceFromStranger(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "secret"})
	require.NoError(t, err)

	// 无关用户读取与读取不存在的笔记得到同一错误
	_, err = f.noteSvc.Get(ctx, "carol@example.com", created.ID)
	assert.Equal(t, code.ErrorNoteNotFound, err)

	_, err = f.noteSvc.Get(ctx, "carol@example.com", "no-such-note")
	assert.Equal(t, code.ErrorNoteNotFound, err)
}

func TestNoteService_Update_VersionConflict(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "v1"})
	require.NoError(t, err)

	updated, err := f.noteSvc.Update(ctx, "alice@example.com", created.ID, &dto.NoteUpdateRequest{
		Title:           "v2",
		Content:         "body",
		ExpectedVersion: created.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, created.Version+1, updated.Version)

	// 旧版本号提交被拒绝，不会静默覆盖
	_, err = f.noteSvc.Update(ctx, "alice@example.com", created.ID, &dto.NoteUpdateRequest{
		Title:           "stale",
		Content:         "stale",
		ExpectedVersion: created.Version,
	})
	assert.Equal(t, code.ErrorNoteVersionConflict, err)

	got, err := f.noteSvc.Get(ctx, "alice@example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
	assert.Equal(t, created.Version+1, got.Version)
}

func TestNoteService_Update_ConcurrentExactlyOneWins(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "base"})
	require.NoError(t, err)

	const writers = 8
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.noteSvc.Update(ctx, "alice@example.com", created.ID, &dto.NoteUpdateRequest{
				Title:           "contender",
				Content:         "x",
				ExpectedVersion: created.Version,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, conflicted := 0, 0
	for err := range results {
		switch err {
		case nil:
			succeeded++
		case code.ErrorNoteVersionConflict:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, writers-1, conflicted)

	got, err := f.noteSvc.Get(ctx, "alice@example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Version+1, got.Version)
}

func TestNoteService_Delete_ReaderForbidden(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()
	f.mustRegisterUser(t, "dave@example.com")

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "keep"})
	require.NoError(t, err)

	_, err = f.noteSvc.Share(ctx, "alice@example.com", created.ID, &dto.NoteShareRequest{
		Email: "dave@example.com",
		Role:  "reader",
	})
	require.NoError(t, err)

	// Reader 可以读到笔记，因此删除失败返回权限错误而非不存在
	err = f.noteSvc.Delete(ctx, "dave@example.com", created.ID)
	assert.Equal(t, code.ErrorNoteForbidden, err)

	// 笔记原样保留
	got, err := f.noteSvc.Get(ctx, "alice@example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}

func TestNoteService_Delete_Idempotent(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "gone"})
	require.NoError(t, err)

	require.NoError(t, f.noteSvc.Delete(ctx, "alice@example.com", created.ID))

	// 已删除与从未存在返回同一错误
	errDeleted := f.noteSvc.Delete(ctx, "alice@example.com", created.ID)
	errNever := f.noteSvc.Delete(ctx, "alice@example.com", "never-existed")
	assert.Equal(t, code.ErrorNoteNotFound, errDeleted)
	assert.Equal(t, errNever, errDeleted)
}

func TestNoteService_ShareScenario(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()
	f.mustRegisterUser(t, "b@example.com")

	// A 创建并以 writer 角色分享给 B
	created, err := f.noteSvc.Create(ctx, "a@example.com", &dto.NoteCreateRequest{Title: "Shopping List"})
	require.NoError(t, err)

	shared, err := f.noteSvc.Share(ctx, "a@example.com", created.ID, &dto.NoteShareRequest{
		Email: "b@example.com",
		Role:  "writer",
	})
	require.NoError(t, err)
	assert.Equal(t, "writer", shared.Shares["b@example.com"])
	assert.Equal(t, created.Version+1, shared.Version)

	// B 以当前版本号更新成功，版本推进
	updated, err := f.noteSvc.Update(ctx, "b@example.com", created.ID, &dto.NoteUpdateRequest{
		Title:           "Shopping List",
		Content:         "milk",
		ExpectedVersion: shared.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, shared.Version+1, updated.Version)

	// A 以 owner 范围列出，包含该笔记
	mine, err := f.noteSvc.List(ctx, "a@example.com", ScopeMine)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	// B 是 writer 而非 reader，shared-read 范围为空
	sharedRead, err := f.noteSvc.List(ctx, "b@example.com", ScopeSharedRead)
	require.NoError(t, err)
	assert.Empty(t, sharedRead)

	sharedWrite, err := f.noteSvc.List(ctx, "b@example.com", ScopeSharedWrite)
	require.NoError(t, err)
	require.Len(t, sharedWrite, 1)
	assert.Equal(t, created.ID, sharedWrite[0].ID)
}

func TestNoteService_Share_Validation(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "n"})
	require.NoError(t, err)

	// 非法角色
	_, err = f.noteSvc.Share(ctx, "alice@example.com", created.ID, &dto.NoteShareRequest{
		Email: "bob@example.com",
		Role:  "admin",
	})
	assert.Equal(t, code.ErrorShareRoleNotValid, err)

	// 分享给属主本人
	_, err = f.noteSvc.Share(ctx, "alice@example.com", created.ID, &dto.NoteShareRequest{
		Email: "alice@example.com",
		Role:  "reader",
	})
	assert.Equal(t, code.ErrorShareSelfNotAllowed, err)

	// 目标用户不存在
	_, err = f.noteSvc.Share(ctx, "alice@example.com", created.ID, &dto.NoteShareRequest{
		Email: "ghost@example.com",
		Role:  "reader",
	})
	assert.Equal(t, code.ErrorShareUserNotFound, err)

	// 非属主无权分享
	f.mustRegisterUser(t, "bob@example.com")
	_, err = f.noteSvc.Share(ctx, "alice@example.com", created.ID, &dto.NoteShareRequest{
		Email: "bob@example.com",
		Role:  "writer",
	})
	require.NoError(t, err)

	f.mustRegisterUser(t, "carol@example.com")
	_, err = f.noteSvc.Share(ctx, "bob@example.com", created.ID, &dto.NoteShareRequest{
		Email: "carol@example.com",
		Role:  "reader",
	})
	assert.Equal(t, code.ErrorNoteForbidden, err)
}

func TestNoteService_Share_EmailCaseInsensitive(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()
	f.mustRegisterUser(t, "bob@example.com")

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "n"})
	require.NoError(t, err)

	// 混合大小写邮箱归一化后命中已注册用户
	shared, err := f.noteSvc.Share(ctx, "alice@example.com", created.ID, &dto.NoteShareRequest{
		Email: "Bob@Example.COM",
		Role:  "reader",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader", shared.Shares["bob@example.com"])

	got, err := f.noteSvc.Get(ctx, "bob@example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// 撤销同样按归一化邮箱匹配
	unshared, err := f.noteSvc.Unshare(ctx, "alice@example.com", created.ID, &dto.NoteUnshareRequest{
		Email: " BOB@example.com ",
	})
	require.NoError(t, err)
	assert.Empty(t, unshared.Shares)
}

func TestNoteService_Update_LengthLimits(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()

	cfg := &ServiceConfig{
		User: UserServiceConfig{RegisterIsEnable: true},
		Note: NoteServiceConfig{TitleMaxLength: 8, ContentMaxLength: 16},
	}
	svc := NewNoteService(f.noteRepo, f.userRepo, nil, nil, cfg)

	created, err := svc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "short"})
	require.NoError(t, err)

	// 更新与创建执行相同的长度上限
	_, err = svc.Update(ctx, "alice@example.com", created.ID, &dto.NoteUpdateRequest{
		Title:           "far-too-long-title",
		Content:         "x",
		ExpectedVersion: created.Version,
	})
	require.Error(t, err)
	c, ok := err.(*code.Code)
	require.True(t, ok)
	assert.Equal(t, code.ErrorInvalidParams.Code(), c.Code())

	_, err = svc.Update(ctx, "alice@example.com", created.ID, &dto.NoteUpdateRequest{
		Title:           "ok",
		Content:         "this content is way past the cap",
		ExpectedVersion: created.Version,
	})
	require.Error(t, err)
	c, ok = err.(*code.Code)
	require.True(t, ok)
	assert.Equal(t, code.ErrorInvalidParams.Code(), c.Code())

	// 拒绝不产生任何修改，版本不变
	got, err := svc.Get(ctx, "alice@example.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "short", got.Title)
	assert.Equal(t, created.Version, got.Version)
}

func TestNoteService_Unshare(t *testing.T) {
	f := newNoteServiceFixture(t)
	ctx := context.Background()
	f.mustRegisterUser(t, "bob@example.com")

	created, err := f.noteSvc.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{Title: "n"})
	require.NoError(t, err)

	shared, err := f.noteSvc.Share(ctx, "alice@example.com", created.ID, &dto.NoteShareRequest{
		Email: "bob@example.com",
		Role:  "reader",
	})
	require.NoError(t, err)

	unshared, err := f.noteSvc.Unshare(ctx, "alice@example.com", created.ID, &dto.NoteUnshareRequest{
		Email: "bob@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, unshared.Shares)
	assert.Equal(t, shared.Version+1, unshared.Version)

	// 被撤销后 B 无法再读取
	_, err = f.noteSvc.Get(ctx, "bob@example.com", created.ID)
	assert.Equal(t, code.ErrorNoteNotFound, err)

	// 撤销未共享邮箱是无操作，版本不变
	again, err := f.noteSvc.Unshare(ctx, "alice@example.com", created.ID, &dto.NoteUnshareRequest{
		Email: "bob@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, unshared.Version, again.Version)
}

func TestNoteService_List_UnknownScope(t *testing.T) {
	f := newNoteServiceFixture(t)

	_, err := f.noteSvc.List(context.Background(), "alice@example.com", "everything")
	require.Error(t, err)
	c, ok := err.(*code.Code)
	require.True(t, ok)
	assert.Equal(t, code.ErrorInvalidParams.Code(), c.Code())
}
