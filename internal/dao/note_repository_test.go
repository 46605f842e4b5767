package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/note-share-service/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newTestDao 创建基于内存 SQLite 的 Dao
func newTestDao(t *testing.T) *Dao {
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

	return New(db)
}

func newTestNote(owner string) *domain.Note {
	return &domain.Note{
		ID:      "note-" + owner,
		Owner:   owner,
		Title:   "title",
		Content: "content",
		Shares:  map[string]domain.Role{},
		Version: domain.InitialVersion,
	}
}

func TestNoteRepository_CreateAndGet(t *testing.T) {
	r := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	created, err := r.Create(ctx, &domain.Note{
		ID:      "n1",
		Owner:   "alice@example.com",
		Title:   "Shopping List",
		Content: "milk, eggs",
		Shares:  map[string]domain.Role{},
		Version: domain.InitialVersion,
	})
	require.NoError(t, err)
	assert.Equal(t, "n1", created.ID)

	got, err := r.GetByID(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Owner)
	assert.Equal(t, "Shopping List", got.Title)
	assert.Equal(t, "milk, eggs", got.Content)
	assert.Equal(t, domain.InitialVersion, got.Version)
	assert.Empty(t, got.Shares)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepository_UpdateContent(t *testing.T) {
	r := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	_, err := r.Create(ctx, newTestNote("alice@example.com"))
	require.NoError(t, err)
	id := "note-alice@example.com"

	// 版本匹配，更新生效且版本加一
	updated, err := r.UpdateContent(ctx, id, "new title", "new content", domain.InitialVersion)
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "new content", updated.Content)
	assert.Equal(t, domain.InitialVersion+1, updated.Version)

	// 旧版本号再次提交，冲突
	_, err = r.UpdateContent(ctx, id, "stale", "stale", domain.InitialVersion)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	// 冲突不产生部分写入
	got, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new title", got.Title)
	assert.Equal(t, domain.InitialVersion+1, got.Version)

	// 不存在的笔记
	_, err = r.UpdateContent(ctx, "missing", "t", "c", domain.InitialVersion)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepository_UpdateShares(t *testing.T) {
	r := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	_, err := r.Create(ctx, newTestNote("alice@example.com"))
	require.NoError(t, err)
	id := "note-alice@example.com"

	shares := map[string]domain.Role{"bob@example.com": domain.RoleWriter}
	updated, err := r.UpdateShares(ctx, id, shares, domain.InitialVersion)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleWriter, updated.Shares["bob@example.com"])
	assert.Equal(t, domain.InitialVersion+1, updated.Version)

	// 过期版本号
	_, err = r.UpdateShares(ctx, id, map[string]domain.Role{}, domain.InitialVersion)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestNoteRepository_Delete(t *testing.T) {
	r := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	_, err := r.Create(ctx, newTestNote("alice@example.com"))
	require.NoError(t, err)
	id := "note-alice@example.com"

	require.NoError(t, r.Delete(ctx, id))

	// 已删除与从未存在返回相同错误
	assert.ErrorIs(t, r.Delete(ctx, id), domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "never-existed"), domain.ErrNotFound)

	_, err = r.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNoteRepository_ListByContributor(t *testing.T) {
	r := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	owned := &domain.Note{
		ID: "n1", Owner: "alice@example.com", Title: "mine",
		Shares: map[string]domain.Role{}, Version: domain.InitialVersion,
	}
	shared := &domain.Note{
		ID: "n2", Owner: "bob@example.com", Title: "shared",
		Shares:  map[string]domain.Role{"alice@example.com": domain.RoleReader},
		Version: domain.InitialVersion,
	}
	unrelated := &domain.Note{
		ID: "n3", Owner: "carol@example.com", Title: "other",
		Shares: map[string]domain.Role{}, Version: domain.InitialVersion,
	}
	for _, n := range []*domain.Note{owned, shared, unrelated} {
		_, err := r.Create(ctx, n)
		require.NoError(t, err)
	}

	notes, err := r.ListByContributor(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, "n2", notes[1].ID)

	// 邮箱是他人邮箱子串时，LIKE 粗筛命中但精确过滤剔除
	notes, err = r.ListByContributor(ctx, "lice@example.com")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	r := NewUserRepository(newTestDao(t))
	ctx := context.Background()

	created, err := r.Create(ctx, &domain.User{
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Password:  "hashed",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.UID)

	got, err := r.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)

	byUID, err := r.GetByUID(ctx, created.UID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byUID.Email)

	// 重复邮箱
	_, err = r.Create(ctx, &domain.User{Email: "alice@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestUserRepository_Search(t *testing.T) {
	r := NewUserRepository(newTestDao(t))
	ctx := context.Background()

	seed := []*domain.User{
		{Email: "alice@example.com", FirstName: "Alice", LastName: "Smith", Password: "x"},
		{Email: "albert@example.com", FirstName: "Albert", LastName: "Jones", Password: "x"},
		{Email: "bob@example.com", FirstName: "Bob", LastName: "Albright", Password: "x"},
	}
	for _, u := range seed {
		_, err := r.Create(ctx, u)
		require.NoError(t, err)
	}

	// 邮箱前缀
	users, err := r.Search(ctx, domain.UserSearchFilter{Email: "al"}, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "albert@example.com", users[0].Email)
	assert.Equal(t, "alice@example.com", users[1].Email)

	// 名前缀
	users, err = r.Search(ctx, domain.UserSearchFilter{FirstName: "Ali"}, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice@example.com", users[0].Email)

	// 姓前缀
	users, err = r.Search(ctx, domain.UserSearchFilter{LastName: "Jon"}, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "albert@example.com", users[0].Email)

	// name 命中名或姓
	users, err = r.Search(ctx, domain.UserSearchFilter{Name: "Alb"}, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "albert@example.com", users[0].Email)
	assert.Equal(t, "bob@example.com", users[1].Email)

	// 结果数量受 limit 约束
	users, err = r.Search(ctx, domain.UserSearchFilter{Email: "a"}, 1)
	require.NoError(t, err)
	require.Len(t, users, 1)
}
