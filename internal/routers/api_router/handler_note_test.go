package api_router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/internal/dto"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"

	"github.com/creasty/defaults"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// newNoteHandlerFixture 构建基于内存 SQLite 的笔记路由测试环境
func newNoteHandlerFixture(t *testing.T) (*NoteHandler, *app.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	cfg := new(app.AppConfig)
	require.NoError(t, defaults.Set(cfg))

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	return NewNoteHandler(a), a
}

// newAuthedContext 构造带认证身份的请求上下文
func newAuthedContext(t *testing.T, target, email string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", target, nil)
	c.Set("user_token", &pkgapp.UserEntity{UID: 1, Email: email})
	return c, w
}

type noteListRes struct {
	Code int `json:"code"`
	Data struct {
		List  []*dto.NoteListItemDTO `json:"list"`
		Pager pkgapp.Pager           `json:"pager"`
	} `json:"data"`
}

func TestNoteHandler_List_Paginated(t *testing.T) {
	h, a := newNoteHandlerFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := a.NoteService.Create(ctx, "alice@example.com", &dto.NoteCreateRequest{
			Title: fmt.Sprintf("note-%d", i),
		})
		require.NoError(t, err)
	}

	c, w := newAuthedContext(t, "/api/notes?page=2&pageSize=2", "alice@example.com")
	h.List(c)

	var res noteListRes
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, code.Success.Code(), res.Code)
	assert.Len(t, res.Data.List, 2)
	assert.Equal(t, 2, res.Data.Pager.Page)
	assert.Equal(t, 2, res.Data.Pager.PageSize)
	assert.Equal(t, 5, res.Data.Pager.TotalRows)

	// 超出末页返回空列表，总数不变
	c, w = newAuthedContext(t, "/api/notes?page=9&pageSize=2", "alice@example.com")
	h.List(c)

	res = noteListRes{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Empty(t, res.Data.List)
	assert.Equal(t, 5, res.Data.Pager.TotalRows)

	// 未指定分页参数时使用默认页大小
	c, w = newAuthedContext(t, "/api/notes", "alice@example.com")
	h.List(c)

	res = noteListRes{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Data.List, 5)
	assert.Equal(t, 1, res.Data.Pager.Page)
}
