package api_router

import (
	"context"

	"github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/internal/middleware"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	apperrors "github.com/haierkeys/note-share-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandler(a),
	}
}

// Create 创建笔记
// @Summary 创建笔记
// @Description 创建一条新笔记，调用者成为属主，版本号从初始值开始
// @Tags 笔记
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Accept json
// @Produce json
// @Param params body dto.NoteCreateRequest true "笔记内容"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取调用者邮箱
	email := pkgapp.GetEmail(c)
	if email == "" {
		h.App.Logger().Error("NoteHandler.Create err email empty")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	note, err := h.App.NoteService.Create(ctx, email, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Get 获取单条笔记详情
// @Summary 获取笔记详情
// @Description 按 ID 获取单条笔记的完整内容和元数据，无权访问时与不存在不可区分
// @Tags 笔记
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Produce json
// @Param id path string true "笔记 ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	// 获取调用者邮箱
	email := pkgapp.GetEmail(c)
	if email == "" {
		h.App.Logger().Error("NoteHandler.Get err email empty")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	note, err := h.App.NoteService.Get(ctx, email, id)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// List 获取笔记列表
// @Summary 获取笔记列表
// @Description 按范围列出调用者可见的笔记（all/mine/shared-read/shared-write），不含正文，分页返回
// @Tags 笔记
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Produce json
// @Param params query dto.NoteListRequest true "查询参数"
// @Param page query int false "页码"
// @Param pageSize query int false "每页数量"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.NoteListItemDTO}} "成功"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteListRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.List.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取调用者邮箱
	email := pkgapp.GetEmail(c)
	if email == "" {
		h.App.Logger().Error("NoteHandler.List err email empty")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	// 缺省返回全部可见笔记
	if params.Scope == "" {
		params.Scope = "all"
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	notes, err := h.App.NoteService.List(ctx, email, params.Scope)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	// 在可见集合上分页
	page := pkgapp.GetPage(c)
	pageSize := pkgapp.GetPageSizeWithConfig(c, pkgapp.PaginationConfig{
		DefaultPageSize: h.App.Config().App.DefaultPageSize,
		MaxPageSize:     h.App.Config().App.MaxPageSize,
	})
	total := len(notes)
	offset := pkgapp.GetPageOffset(page, pageSize)
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	response.ToResponseList(code.Success, notes[offset:end], total)
}

// Update 更新笔记
// @Summary 更新笔记
// @Description 乐观并发更新笔记标题与内容，期望版本号不匹配时返回版本冲突
// @Tags 笔记
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Accept json
// @Produce json
// @Param id path string true "笔记 ID"
// @Param params body dto.NoteUpdateRequest true "更新参数"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Failure 400 {object} pkgapp.Res "版本冲突 / 无权修改"
// @Router /api/notes/{id} [patch]
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUpdateRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取调用者邮箱
	email := pkgapp.GetEmail(c)
	if email == "" {
		h.App.Logger().Error("NoteHandler.Update err email empty")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	note, err := h.App.NoteService.Update(ctx, email, id, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Update", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Delete 删除笔记
// @Summary 删除笔记
// @Description 删除笔记及其全部分享关系，仅属主可操作
// @Tags 笔记
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Produce json
// @Param id path string true "笔记 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	// 获取调用者邮箱
	email := pkgapp.GetEmail(c)
	if email == "" {
		h.App.Logger().Error("NoteHandler.Delete err email empty")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.ToResponse(code.ErrorInvalidParams)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	if err := h.App.NoteService.Delete(ctx, email, id); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// logError 记录错误日志，包含 Trace ID
func (h *NoteHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
